// Package cfg builds the label/branch control-flow graph for one
// function's instruction stream and runs the forward available-registers
// and backward live-registers dataflow passes described in spec.md 4.2.
package cfg

import (
	"fmt"

	"github.com/nervapy-go/armgen/ir"
)

// NoEntryError is returned when a stream has no ENTRY label and none could
// be synthesized (spec.md 7 "NoEntry").
type NoEntryError struct{}

func (NoEntryError) Error() string { return "cfg: instruction stream has no ENTRY label" }

// UndefinedLabelError is returned when a branch targets a label that never
// appears in the stream.
type UndefinedLabelError struct{ Target string }

func (e *UndefinedLabelError) Error() string {
	return fmt.Sprintf("cfg: branch targets undefined label %q", e.Target)
}

// Graph is the resolved label index plus entry position for one function's
// instruction stream.
type Graph struct {
	Insts      []*ir.Instruction
	LabelIndex map[string]int // label name -> instruction index
	EntryIndex int
}

// Build resolves every label in insts, wires each branch's target into the
// target label's InputBranches, and locates (or requires the caller to have
// already synthesized) the ENTRY label.
func Build(insts []*ir.Instruction) (*Graph, error) {
	labelIndex := make(map[string]int)
	entryIdx := -1
	for idx, inst := range insts {
		if inst.Kind != ir.LabelKind {
			continue
		}
		labelIndex[inst.Name] = idx
		if inst.Name == ir.EntryLabelName {
			entryIdx = idx
		}
		inst.InputBranches = inst.InputBranches[:0]
	}
	if entryIdx == -1 {
		return nil, NoEntryError{}
	}

	for idx, inst := range insts {
		target, ok := inst.BranchTarget()
		if !ok || target == "" {
			continue
		}
		tIdx, ok := labelIndex[target]
		if !ok {
			return nil, &UndefinedLabelError{Target: target}
		}
		insts[tIdx].InputBranches = append(insts[tIdx].InputBranches, idx)
	}

	return &Graph{Insts: insts, LabelIndex: labelIndex, EntryIndex: entryIdx}, nil
}

// successors returns the instruction indices control may flow to directly
// after executing insts[i] (label lookups via g.LabelIndex).
func (g *Graph) successors(i int) []int {
	inst := g.Insts[i]
	var out []int
	if target, ok := inst.BranchTarget(); ok && target != "" {
		out = append(out, g.LabelIndex[target])
	}
	if !inst.IsTerminator() && i+1 < len(g.Insts) {
		out = append(out, i+1)
	}
	return out
}

// ExitIndices returns every instruction index that is a return-like
// terminator: an unconditional branch with no label target (e.g. the
// lowered "BX lr").
func (g *Graph) ExitIndices() []int {
	var out []int
	for i, inst := range g.Insts {
		if inst.Kind == ir.Branch && !inst.Conditional && inst.Target == "" {
			out = append(out, i)
		}
	}
	return out
}
