package abi

import "testing"

func TestPlaceArgumentsFillsRegistersThenStack(t *testing.T) {
	args := make([]ArgType, 6)
	for i := range args {
		args[i] = ArgType{Width: Width32}
	}
	placements, err := PlaceArguments(args)
	if err != nil {
		t.Fatalf("PlaceArguments: %v", err)
	}
	for i := 0; i < 4; i++ {
		if placements[i].OnStack {
			t.Errorf("argument %d should be register-placed, got stack", i)
		}
		if !placements[i].Reg.Equal(ArgumentRegisters[i]) {
			t.Errorf("argument %d placed in %v, want %v", i, placements[i].Reg, ArgumentRegisters[i])
		}
	}
	if !placements[4].OnStack || placements[4].StackOff != 0 {
		t.Errorf("argument 4 should spill to stack offset 0, got %+v", placements[4])
	}
	if !placements[5].OnStack || placements[5].StackOff != 4 {
		t.Errorf("argument 5 should spill to stack offset 4, got %+v", placements[5])
	}
}

func TestPlaceArgumentsPairsEightByteArgs(t *testing.T) {
	placements, err := PlaceArguments([]ArgType{{Width: Width32}, {Width: Width64}})
	if err != nil {
		t.Fatalf("PlaceArguments: %v", err)
	}
	if placements[0].OnStack {
		t.Fatal("first 32-bit argument should go in r0")
	}
	if !placements[1].HasPair {
		t.Fatal("8-byte argument should use a register pair")
	}
	if !placements[1].Reg.Equal(ArgumentRegisters[2]) || !placements[1].RegHigh.Equal(ArgumentRegisters[3]) {
		t.Errorf("8-byte argument should skip r1 and pair r2/r3, got %+v", placements[1])
	}
}

func TestPlaceArgumentsSpillsUnalignedEightByteArg(t *testing.T) {
	args := []ArgType{{Width: Width32}, {Width: Width32}, {Width: Width32}, {Width: Width32}, {Width: Width64}}
	placements, err := PlaceArguments(args)
	if err != nil {
		t.Fatalf("PlaceArguments: %v", err)
	}
	last := placements[4]
	if !last.OnStack {
		t.Fatal("8-byte argument with no free register pair should spill to the stack")
	}
	if last.StackOff%8 != 0 {
		t.Errorf("8-byte stack slot must be 8-byte aligned, got offset %d", last.StackOff)
	}
}

func TestPlaceArgumentsRejectsOversizedWidth(t *testing.T) {
	_, err := PlaceArguments([]ArgType{{Width: 16}})
	if err == nil {
		t.Fatal("expected ErrArgumentTooWide for a 16-byte argument")
	}
	if _, ok := err.(*ErrArgumentTooWide); !ok {
		t.Errorf("expected *ErrArgumentTooWide, got %T", err)
	}
}

func TestIsCalleeSaved(t *testing.T) {
	if !IsCalleeSaved(CalleeSavedRegisters[0]) {
		t.Error("the first callee-saved register should report IsCalleeSaved")
	}
	if IsCalleeSaved(ArgumentRegisters[0]) {
		t.Error("r0 is volatile, not callee-saved")
	}
}
