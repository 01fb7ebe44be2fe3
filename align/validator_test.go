package align

import (
	"testing"

	"github.com/nervapy-go/armgen/ir"
	"github.com/nervapy-go/armgen/register"
)

func imm(n int32) *int32 { return &n }

func TestValidateAcceptsAlignedCall(t *testing.T) {
	insts := []*ir.Instruction{
		{Kind: ir.Plain, Mnemonic: "PUSH", RegisterList: []register.Register{register.R(4), register.R(5)}},
		{Kind: ir.Branch, Mnemonic: "BL", Target: "memcpy"},
	}
	if err := Validate(insts, 1); err != nil {
		t.Fatalf("expected an 8-byte-aligned call to validate, got %v", err)
	}
}

func TestValidateRejectsMisalignedCall(t *testing.T) {
	insts := []*ir.Instruction{
		{Kind: ir.Plain, Mnemonic: "PUSH", RegisterList: []register.Register{register.R(3), register.R(4)}},
		{Kind: ir.Plain, Mnemonic: "PUSH", RegisterList: []register.Register{register.R(4)}},
		{Kind: ir.Branch, Mnemonic: "BL", Target: "memcpy"},
	}
	err := Validate(insts, 1)
	if err == nil {
		t.Fatal("expected misalignment error for an odd single-register push before a call")
	}
	saErr, ok := err.(*StackAlignmentError)
	if !ok {
		t.Fatalf("expected *StackAlignmentError, got %T", err)
	}
	if saErr.Misalignment != 4 {
		t.Errorf("Misalignment = %d, want 4", saErr.Misalignment)
	}
}

func TestValidateTracksExplicitSPAdjustment(t *testing.T) {
	insts := []*ir.Instruction{
		{Kind: ir.Plain, Mnemonic: "SUB", Inputs: []register.Register{register.SP}, ImmOperand: imm(8)},
		{Kind: ir.Branch, Mnemonic: "BL", Target: "helper"},
	}
	if err := Validate(insts, 0); err != nil {
		t.Fatalf("SUB sp, sp, #8 should keep the frame aligned, got %v", err)
	}
}

func TestValidateIgnoresNonSPStackOps(t *testing.T) {
	insts := []*ir.Instruction{
		{Kind: ir.Plain, Mnemonic: "SUB", Inputs: []register.Register{register.R(0)}, ImmOperand: imm(4)},
		{Kind: ir.Branch, Mnemonic: "BL", Target: "helper"},
	}
	if err := Validate(insts, 0); err != nil {
		t.Fatalf("a SUB on r0 (not sp) must not affect tracked SP offset, got %v", err)
	}
}

func TestValidateSkipsRecognizedPrologue(t *testing.T) {
	insts := []*ir.Instruction{
		{Kind: ir.Plain, Mnemonic: "PUSH", RegisterList: []register.Register{register.R(4)}},
		{Kind: ir.Branch, Mnemonic: "BL", Target: "helper"},
	}
	// With prologueLen=1 the odd PUSH is skipped entirely, so SP is
	// considered aligned (its value right after the prologue is defined
	// to be 8-byte aligned).
	if err := Validate(insts, 1); err != nil {
		t.Fatalf("a call right after the (skipped) prologue should validate, got %v", err)
	}
}
