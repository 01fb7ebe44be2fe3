package ir

// EntryLabelName is the reserved label marking a function's first
// instruction; the prologue is inserted immediately after it.
const EntryLabelName = "ENTRY"

// NewLabel constructs a label instruction. InputBranches starts empty and
// is populated during CFG construction (package cfg).
func NewLabel(name string) *Instruction {
	return &Instruction{Kind: LabelKind, Name: name}
}

// NewBranch constructs a branch instruction to a named label.
func NewBranch(mnemonic, target string, conditional bool) *Instruction {
	return &Instruction{Kind: Branch, Mnemonic: mnemonic, Target: target, Conditional: conditional}
}

// NewReturn constructs the compound return pseudo. Decomposed by package
// function into a terminating branch ("BX lr") before CFG construction;
// epilogue instructions are inserted immediately before the resulting
// branch once the stack frame is finalized.
func NewReturn() *Instruction {
	return &Instruction{Kind: Return}
}
