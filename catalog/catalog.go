// Package catalog is the mechanical mnemonic table spec.md treats as an
// external collaborator: given operand registers, it builds the *ir.
// Instruction with the input/output register sets and ISA-extension tags
// the analysis passes need. It does not attempt to cover every ARM
// mnemonic — only the ones armgen's own tests and generated functions
// exercise — since the full catalogue is explicitly out of scope.
package catalog

import (
	"github.com/nervapy-go/armgen/arch"
	"github.com/nervapy-go/armgen/ir"
	"github.com/nervapy-go/armgen/register"
)

// MOV emits "MOV dst, src".
func MOV(dst, src register.Register) *ir.Instruction {
	return &ir.Instruction{
		Kind:     ir.Plain,
		Mnemonic: "MOV",
		Inputs:   []register.Register{src},
		Outputs:  []register.Register{dst},
	}
}

// MOVImm emits "MOV dst, #imm"; recorded only as a mnemonic since the
// immediate operand has no register to track.
func MOVImm(dst register.Register, imm int32) *ir.Instruction {
	return &ir.Instruction{Kind: ir.Plain, Mnemonic: "MOV", Outputs: []register.Register{dst}, ImmOperand: &imm}
}

// dataProcessing3 builds the common "OP dst, a, b" shape shared by
// ADD/SUB/AND/ORR/EOR/etc.
func dataProcessing3(mnemonic string, dst, a, b register.Register) *ir.Instruction {
	return &ir.Instruction{
		Kind:     ir.Plain,
		Mnemonic: mnemonic,
		Inputs:   []register.Register{a, b},
		Outputs:  []register.Register{dst},
	}
}

func ADD(dst, a, b register.Register) *ir.Instruction { return dataProcessing3("ADD", dst, a, b) }
func SUB(dst, a, b register.Register) *ir.Instruction { return dataProcessing3("SUB", dst, a, b) }
func AND(dst, a, b register.Register) *ir.Instruction { return dataProcessing3("AND", dst, a, b) }
func ORR(dst, a, b register.Register) *ir.Instruction { return dataProcessing3("ORR", dst, a, b) }

// CMP emits "CMP a, b"; it writes condition flags only, which armgen's
// register model doesn't track as a register, so it has no Outputs.
func CMP(a, b register.Register) *ir.Instruction {
	return &ir.Instruction{Kind: ir.Plain, Mnemonic: "CMP", Inputs: []register.Register{a, b}}
}

// MUL emits "MUL dst, a, b".
func MUL(dst, a, b register.Register) *ir.Instruction { return dataProcessing3("MUL", dst, a, b) }

// LDR emits "LDR dst, [base, #offset]". A non-zero shiftReg, when valid,
// denotes a shifted-register addressing mode ("LDR dst, [base, shiftReg,
// LSL #n]"); per the nervapy reference behavior it counts as an input for
// liveness even though it never appears in the rendered text here.
func LDR(dst, base register.Register, offset int32, shiftReg *register.Register) *ir.Instruction {
	inputs := []register.Register{base}
	if shiftReg != nil {
		inputs = append(inputs, *shiftReg)
	}
	return &ir.Instruction{
		Kind:       ir.Plain,
		Mnemonic:   "LDR",
		Inputs:     inputs,
		Outputs:    []register.Register{dst},
		ImmOperand: &offset,
	}
}

// STR emits "STR src, [base, #offset]".
func STR(src, base register.Register, offset int32) *ir.Instruction {
	return &ir.Instruction{
		Kind:       ir.Plain,
		Mnemonic:   "STR",
		Inputs:     []register.Register{src, base},
		ImmOperand: &offset,
	}
}

// BX emits "BX reg" (e.g. "BX lr" for a non-pseudo return).
func BX(target register.Register) *ir.Instruction {
	return &ir.Instruction{Kind: ir.Plain, Mnemonic: "BX", Inputs: []register.Register{target}}
}

// VADD emits a VFP add, requiring the VFP extension.
func VADD(dst, a, b register.Register) *ir.Instruction {
	i := dataProcessing3("VADD", dst, a, b)
	i.Extensions = arch.Set(arch.VFP)
	return i
}

// VLDM emits a VFP multi-register load ("VLDM base!, {regs...}"), a
// grouped-constraint instruction: regs must end up in contiguous physical
// slots, in source order.
func VLDM(base register.Register, regs []register.Register) *ir.Instruction {
	return &ir.Instruction{
		Kind:            ir.Plain,
		Mnemonic:        "VLDM",
		Inputs:          []register.Register{base},
		Outputs:         append([]register.Register(nil), regs...),
		GroupedOperands: regs,
		Extensions:      arch.Set(arch.VFP),
	}
}

// VSTM emits a VFP multi-register store ("VSTM base!, {regs...}").
func VSTM(base register.Register, regs []register.Register) *ir.Instruction {
	return &ir.Instruction{
		Kind:            ir.Plain,
		Mnemonic:        "VSTM",
		Inputs:          append([]register.Register{base}, regs...),
		GroupedOperands: regs,
		Extensions:      arch.Set(arch.VFP),
	}
}

// LDM emits a GP multi-register load ("LDM base, {regs...}"). Unlike
// VLDM/VSTM, ARM's GP load/store-multiple can name any register set, so
// its members are ordinary, individually allocated registers rather than a
// grouped (contiguous) constraint.
func LDM(base register.Register, regs []register.Register) *ir.Instruction {
	return &ir.Instruction{
		Kind:         ir.Plain,
		Mnemonic:     "LDM",
		Inputs:       []register.Register{base},
		Outputs:      append([]register.Register(nil), regs...),
		RegisterList: regs,
	}
}

// STM emits a GP multi-register store ("STM base, {regs...}").
func STM(base register.Register, regs []register.Register) *ir.Instruction {
	return &ir.Instruction{
		Kind:         ir.Plain,
		Mnemonic:     "STM",
		Inputs:       append([]register.Register{base}, regs...),
		RegisterList: regs,
	}
}
