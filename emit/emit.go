// Package emit renders a finalized instruction list and constant pool as
// assembly text in either the GAS or ARMCC dialect (spec.md 4.9).
package emit

import (
	"fmt"
	"strings"

	"github.com/nervapy-go/armgen/arch"
	"github.com/nervapy-go/armgen/constpool"
	"github.com/nervapy-go/armgen/dialect"
	"github.com/nervapy-go/armgen/ir"
)

// Options configures one emission pass.
type Options struct {
	FunctionName string
	Dialect      dialect.Dialect
	Target       arch.Microarchitecture
	IsThumb      bool
	Alignment    int  // 0 means "no explicit alignment directive"
	Preserve8    bool // ARMCC only
	Imports      []string
}

// Render produces the full assembly text for one function.
func Render(insts []*ir.Instruction, pool *constpool.Pool, opts Options) string {
	if opts.Dialect == dialect.ARMCC {
		return renderARMCC(insts, pool, opts)
	}
	return renderGAS(insts, pool, opts)
}

// formatLabel formats a branch-target label per spec.md 4.9: GAS
// uses "L<function>.<label>", ARMCC uses "<function>_<label>" (no dots,
// since ARMCC rejects them in labels).
func formatLabel(d dialect.Dialect, fn, name string) string {
	if name == ir.EntryLabelName {
		return fn
	}
	if d == dialect.ARMCC {
		return fn + "_" + strings.ReplaceAll(name, ".", "_")
	}
	return fmt.Sprintf("L%s.%s", fn, name)
}

// renderOperandsText renders an instruction's textual operand list (registers,
// register lists, immediates, constant labels) the same way regardless of
// dialect — only directive/label syntax differs between dialects.
func renderOperandsText(inst *ir.Instruction) string {
	if len(inst.RegisterList) > 0 {
		names := make([]string, len(inst.RegisterList))
		for i, r := range inst.RegisterList {
			names[i] = r.String()
		}
		return "{" + strings.Join(names, ", ") + "}"
	}
	if inst.Constant != nil {
		ref := "=" + inst.Constant.Label()
		if len(inst.Outputs) > 0 {
			return inst.Outputs[0].String() + ", " + ref
		}
		return ref
	}
	var parts []string
	for _, r := range inst.Outputs {
		parts = append(parts, r.String())
	}
	for _, r := range inst.Inputs {
		parts = append(parts, r.String())
	}
	if inst.ImmOperand != nil {
		parts = append(parts, fmt.Sprintf("#%d", *inst.ImmOperand))
	}
	return strings.Join(parts, ", ")
}

func instructionLine(inst *ir.Instruction) string {
	mnemonic := inst.Mnemonic
	operands := renderOperandsText(inst)
	if operands == "" {
		return "\t" + mnemonic
	}
	return fmt.Sprintf("\t%s %s", mnemonic, operands)
}
