package frame

import (
	"testing"

	"github.com/nervapy-go/armgen/dialect"
	"github.com/nervapy-go/armgen/register"
)

func TestTrackOnlyRetainsCalleeSaved(t *testing.T) {
	f := New()
	f.Track(register.R(4))  // callee-saved
	f.Track(register.R(0))  // argument/volatile, not callee-saved
	f.Track(register.R(11)) // callee-saved, high

	gp := f.GPRegisters()
	if len(gp) != 2 {
		t.Fatalf("expected 2 tracked registers, got %d: %v", len(gp), gp)
	}
	if !gp[0].Equal(register.R(4)) || !gp[1].Equal(register.R(11)) {
		t.Errorf("expected r4 then r11 in slot order, got %v", gp)
	}
}

func TestTrackIgnoresVirtualRegisters(t *testing.T) {
	var c register.IDCounter
	v := c.Next(register.GP)

	f := New()
	f.Track(v)
	if len(f.GPRegisters()) != 0 {
		t.Error("a virtual register must not be tracked until it is physical")
	}
}

func TestLowHighSplit(t *testing.T) {
	f := New()
	f.Track(register.R(4))
	f.Track(register.R(11))

	if len(f.Low()) != 1 || !f.Low()[0].Equal(register.R(4)) {
		t.Errorf("Low() = %v, want [r4]", f.Low())
	}
	if len(f.High()) != 1 || !f.High()[0].Equal(register.R(11)) {
		t.Errorf("High() = %v, want [r11]", f.High())
	}
}

func TestPrologueEpilogueAreReverseOrder(t *testing.T) {
	f := New()
	f.Track(register.R(4))
	f.Track(register.R(11))

	pro := f.Prologue(Auto, dialect.GAS)
	epi := f.Epilogue(Auto, dialect.GAS)

	if len(pro) != 2 || len(epi) != 2 {
		t.Fatalf("expected 2 prologue and 2 epilogue instructions, got %d/%d", len(pro), len(epi))
	}
	if pro[0].Mnemonic != "PUSH" || pro[1].Mnemonic != "PUSH.W" {
		t.Errorf("unexpected prologue order: %s, %s", pro[0].Mnemonic, pro[1].Mnemonic)
	}
	if epi[0].Mnemonic != "POP.W" || epi[1].Mnemonic != "POP" {
		t.Errorf("epilogue should reverse prologue order, got %s, %s", epi[0].Mnemonic, epi[1].Mnemonic)
	}
}

func TestResolveStrategyAutoPicksByDialect(t *testing.T) {
	if resolveStrategy(Auto, dialect.GAS) != PushW {
		t.Error("Auto should resolve to PushW for GAS")
	}
	if resolveStrategy(Auto, dialect.ARMCC) != STMDB {
		t.Error("Auto should resolve to STMDB for ARMCC")
	}
	if resolveStrategy(STMDB, dialect.GAS) != STMDB {
		t.Error("an explicit strategy should never be overridden")
	}
}

func TestPadLowAddsScratchForOddCount(t *testing.T) {
	low := []register.Register{register.R(4)}
	padded := padLow(low)
	if len(padded)%2 != 0 {
		t.Fatalf("padLow should return an even-length list, got %v", padded)
	}
	if !padded[len(padded)-1].Equal(register.R(3)) {
		t.Errorf("padLow should prefer r3 as scratch, got %v", padded)
	}
}

func TestPadLowLeavesEvenCountUnchanged(t *testing.T) {
	low := []register.Register{register.R(4), register.R(5)}
	padded := padLow(low)
	if len(padded) != 2 {
		t.Errorf("padLow should not modify an already-even list, got %v", padded)
	}
}

func TestParametersOffsetAccountsForPaddingAndD(t *testing.T) {
	f := New()
	f.Track(register.R(4)) // 1 low reg -> padded to 2 -> 8 bytes
	f.Track(register.Dreg(8))

	if off := f.ParametersOffset(); off != 16 {
		t.Errorf("ParametersOffset() = %d, want 16 (8 padded-low bytes + 8 D bytes)", off)
	}
}
