// Package align implements the ARMv7-M stack-alignment validator (spec.md
// 4.7): it proves the stack pointer is 8-byte aligned at every BL/BLX,
// modeling SP's offset relative to its value immediately after the
// prologue (defined to be 8-byte aligned).
package align

import (
	"fmt"

	"github.com/nervapy-go/armgen/ir"
	"github.com/nervapy-go/armgen/register"
)

// StackAlignmentError reports SP misalignment at a call site.
type StackAlignmentError struct {
	Mnemonic      string
	Offset        int32
	Misalignment  int32
}

func (e *StackAlignmentError) Error() string {
	return fmt.Sprintf("stack alignment error: %s instruction at SP offset %d is misaligned by %d byte(s)", e.Mnemonic, e.Offset, e.Misalignment)
}

// prologueMnemonics are the mnemonics the validator expects to see (and
// skips) at the start of the instruction list, one per prologue
// instruction count.
var prologueMnemonics = map[string]bool{
	"PUSH": true, "PUSH.W": true, "STMDB": true, "VPUSH": true,
}

func regCount(inst *ir.Instruction) int {
	if len(inst.RegisterList) > 0 {
		return len(inst.RegisterList)
	}
	if len(inst.Outputs) > 0 {
		return len(inst.Outputs)
	}
	return len(inst.Inputs)
}

// Validate walks insts (the full, finalized instruction list including
// prologue/epilogue), skipping the first prologueLen instructions if they
// match an expected prologue mnemonic, and checks SP offset parity at every
// BL/BLX.
func Validate(insts []*ir.Instruction, prologueLen int) error {
	offset := int32(0)

	start := 0
	skipped := 0
	for skipped < prologueLen && start < len(insts) {
		if insts[start].Kind == ir.LabelKind {
			start++
			continue
		}
		if !prologueMnemonics[insts[start].Mnemonic] {
			break
		}
		start++
		skipped++
	}

	for _, inst := range insts[start:] {
		switch inst.Mnemonic {
		case "PUSH", "PUSH.W":
			offset += 4 * int32(regCount(inst))
		case "POP", "POP.W":
			offset -= 4 * int32(regCount(inst))
		case "VPUSH":
			offset += 8 * int32(regCount(inst)) // D-register list: 8 bytes each
		case "VPOP":
			offset -= 8 * int32(regCount(inst))
		case "STMDB", "STMIA", "STMDA", "STMIB":
			if isSPBased(inst) {
				offset += 4 * int32(regCount(inst))
			}
		case "LDMDB", "LDMIA", "LDMDA", "LDMIB":
			if isSPBased(inst) {
				offset -= 4 * int32(regCount(inst))
			}
		case "SUB":
			if isSPBased(inst) && inst.ImmOperand != nil {
				offset += *inst.ImmOperand
			}
		case "ADD":
			if isSPBased(inst) && inst.ImmOperand != nil {
				offset -= *inst.ImmOperand
			}
		case "BL", "BLX":
			if offset%8 != 0 {
				mis := offset % 8
				if mis < 0 {
					mis += 8
				}
				return &StackAlignmentError{Mnemonic: inst.Mnemonic, Offset: offset, Misalignment: mis}
			}
		}
	}
	return nil
}

// isSPBased reports whether any of inst's input registers is the physical
// stack pointer, i.e. whether this is an SP-relative writeback instruction
// ("STMDB sp!, {...}", "SUB sp, sp, #imm", ...).
func isSPBased(inst *ir.Instruction) bool {
	for _, r := range inst.Inputs {
		if !r.IsVirtual() && r.Type() == register.GP && r.Equal(register.SP) {
			return true
		}
	}
	return false
}
