package cfg

import (
	"testing"

	"github.com/nervapy-go/armgen/ir"
	"github.com/nervapy-go/armgen/register"
)

func TestBuildRequiresEntryLabel(t *testing.T) {
	_, err := Build([]*ir.Instruction{{Kind: ir.Plain, Mnemonic: "MOV"}})
	if _, ok := err.(NoEntryError); !ok {
		t.Fatalf("expected NoEntryError, got %v", err)
	}
}

func TestBuildRejectsUndefinedBranchTarget(t *testing.T) {
	insts := []*ir.Instruction{
		ir.NewLabel(ir.EntryLabelName),
		ir.NewBranch("B", "nowhere", false),
	}
	_, err := Build(insts)
	if _, ok := err.(*UndefinedLabelError); !ok {
		t.Fatalf("expected *UndefinedLabelError, got %v", err)
	}
}

func TestBuildWiresInputBranches(t *testing.T) {
	insts := []*ir.Instruction{
		ir.NewLabel(ir.EntryLabelName),
		ir.NewBranch("B", "loop", false),
		ir.NewLabel("loop"),
	}
	g, err := Build(insts)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	loopIdx := g.LabelIndex["loop"]
	if len(insts[loopIdx].InputBranches) != 1 || insts[loopIdx].InputBranches[0] != 1 {
		t.Errorf("expected loop label to record instruction 1 as an input branch, got %v", insts[loopIdx].InputBranches)
	}
}

func TestComputeLiveTracksACrossMove(t *testing.T) {
	var c register.IDCounter
	a := c.Next(register.GP)
	bReg := c.Next(register.GP)

	insts := []*ir.Instruction{
		ir.NewLabel(ir.EntryLabelName),
		{Kind: ir.Plain, Mnemonic: "MOV", Inputs: []register.Register{a}, Outputs: []register.Register{bReg}},
		{Kind: ir.Branch, Mnemonic: "BX", Inputs: []register.Register{register.LR}, Target: ""},
	}
	g, err := Build(insts)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	ComputeLive(g, nil, false)

	if _, ok := insts[0].Live[a.Key()]; !ok {
		t.Error("register a should be live at ENTRY, since the MOV reads it")
	}
	if _, ok := insts[1].Live[bReg.Key()]; ok {
		t.Error("register b is never read after the MOV that defines it, so it should not be live-out")
	}
}

func TestComputeAvailableMarksPhysicalOutputsOnly(t *testing.T) {
	var c register.IDCounter
	v := c.Next(register.GP)

	insts := []*ir.Instruction{
		ir.NewLabel(ir.EntryLabelName),
		{Kind: ir.Plain, Mnemonic: "MOV", Outputs: []register.Register{register.R(4)}},
		{Kind: ir.Plain, Mnemonic: "MOV", Outputs: []register.Register{v}},
		{Kind: ir.Branch, Mnemonic: "BX", Inputs: []register.Register{register.LR}},
	}
	g, err := Build(insts)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	ComputeAvailable(g)

	if _, ok := insts[2].Available[register.R(4).Key()]; !ok {
		t.Error("r4 should be available after the instruction that writes it")
	}
	if _, ok := insts[3].Available[v.Key()]; ok {
		t.Error("a virtual register output should never appear in the available set")
	}
}
