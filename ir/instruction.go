// Package ir defines the instruction intermediate representation armgen
// analyzes and rewrites: a tagged-variant instruction kind plus the
// register/ISA/constant metadata the later analysis passes consume.
package ir

import (
	"github.com/nervapy-go/armgen/arch"
	"github.com/nervapy-go/armgen/constpool"
	"github.com/nervapy-go/armgen/register"
)

// Kind tags the variant an Instruction carries. Rather than a deep subclass
// hierarchy, armgen uses one tagged struct per spec.md's design notes (9):
// a small enum plus capability-style accessor methods.
type Kind uint8

const (
	// Plain is an ordinary data-processing / memory / multiply instruction.
	Plain Kind = iota
	// Branch is a conditional or unconditional branch to a Label.
	Branch
	// LabelKind marks a branch target (and possibly the function entry).
	LabelKind
	// ArgumentLoad is a pseudo resolved by package function into a MOV or
	// LDR once argument placement is known.
	ArgumentLoad
	// ConstantLoad is a pseudo resolved once the constant pool has
	// assigned the referenced constant a label.
	ConstantLoad
	// Return is a pseudo lowered into a terminating branch (e.g. "BX lr")
	// plus, later, epilogue instructions.
	Return
	// AssumeInitialized tells the available-registers pass to treat a
	// register as already defined without itself writing anything
	// (used for registers the caller guarantees, e.g. incoming arguments
	// before their ArgumentLoad pseudo runs).
	AssumeInitialized
)

// Instruction is one IR node. Only the fields relevant to its Kind are
// populated; see the Kind doc comments above.
type Instruction struct {
	Kind Kind

	// Mnemonic is the textual opcode (e.g. "MOV", "VLDM"); always set for
	// Plain, Branch (the condition, if any, is part of the mnemonic, e.g.
	// "BEQ"; the emitter prints it as given), and the
	// lowered form of pseudos. Empty for LabelKind.
	Mnemonic string

	// Inputs/Outputs are the registers read/written by a Plain
	// instruction. Populated by the instruction catalogue (external
	// collaborator; see package catalog) at append time, then mutated
	// in-place by register rewriting after allocation.
	Inputs  []register.Register
	Outputs []register.Register

	// GroupedOperands, when non-nil, is a load/store-multiple register
	// list that must be allocated to contiguous physical slots in source
	// order (spec.md 4.3 "grouped constraints"). A non-nil list here means
	// Inputs or Outputs (whichever direction the instruction has) is a
	// view over the same registers — grouping is metadata on top of the
	// ordinary input/output sets, not a separate register pool.
	GroupedOperands []register.Register

	// RegisterList is the ordered "{r4, r7, ...}" register-list operand of
	// a multi-register instruction: PUSH/POP/VPUSH/VPOP/STMDB/LDMIA from
	// the frame synthesizer, or LDM/STM from package catalog. It is
	// rendering metadata only: the allocator constrains these registers
	// through Inputs/Outputs, and RewriteRegister rebinds the list along
	// with them.
	RegisterList []register.Register

	// Extensions lists ISA features this instruction requires; append
	// fails if the target microarchitecture lacks any of them.
	Extensions arch.Set

	// Constant points into the owning function's constant pool (only for
	// instructions with an embedded/pool-loaded literal operand).
	Constant *constpool.Constant

	// ImmOperand is an optional immediate operand (e.g. "#imm" or a
	// [base, #offset] displacement); nil when the instruction has none.
	ImmOperand *int32

	// Branch fields (Kind == Branch).
	Target      string
	Conditional bool

	// Label fields (Kind == LabelKind).
	Name          string
	InputBranches []int // indices of instructions branching to this label

	// ArgumentLoad fields (Kind == ArgumentLoad).
	ArgIndex int
	ArgDest  register.Register

	// post-analysis fields, written by package cfg. Keyed by register.Key
	// so virtual and physical registers (and different banks) with the
	// same numeric id never collide. The stored Register is the one seen
	// live/available; for physical registers its Bitboard() is the real
	// occupied mask, for virtuals it carries no mask until allocation
	// binds it.
	Available map[register.Key]register.Register // defined-on-every-path-so-far
	Live      map[register.Key]register.Register // live-out set
}

// IsTerminator reports whether this instruction ends a basic block's
// fall-through (an unconditional branch or a lowered return).
func (i *Instruction) IsTerminator() bool {
	return i.Kind == Branch && !i.Conditional
}

// BranchTarget returns the label name this instruction branches to, and
// whether it is one of the branch kinds at all.
func (i *Instruction) BranchTarget() (string, bool) {
	if i.Kind != Branch {
		return "", false
	}
	return i.Target, true
}

// AllRegisters returns every register this instruction mentions, inputs
// before outputs, for passes that don't care about direction.
func (i *Instruction) AllRegisters() []register.Register {
	out := make([]register.Register, 0, len(i.Inputs)+len(i.Outputs))
	out = append(out, i.Inputs...)
	out = append(out, i.Outputs...)
	return out
}

// RewriteRegister replaces every occurrence of "from" (matched by identity,
// virtual id or physical slot) with "to" across inputs, outputs, the
// grouped-operand view and the register list. Used by the allocator's
// final rebinding pass.
func (i *Instruction) RewriteRegister(from, to register.Register) {
	rewrite := func(regs []register.Register) {
		for idx, r := range regs {
			if r.Equal(from) {
				regs[idx] = to
			}
		}
	}
	rewrite(i.Inputs)
	rewrite(i.Outputs)
	rewrite(i.GroupedOperands)
	rewrite(i.RegisterList)
	if i.Kind == ArgumentLoad && i.ArgDest.Equal(from) {
		i.ArgDest = to
	}
}
