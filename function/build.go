package function

import (
	"github.com/nervapy-go/armgen/align"
	"github.com/nervapy-go/armgen/arch"
	"github.com/nervapy-go/armgen/cfg"
	"github.com/nervapy-go/armgen/constpool"
	"github.com/nervapy-go/armgen/emit"
	"github.com/nervapy-go/armgen/frame"
	"github.com/nervapy-go/armgen/function/armerr"
	"github.com/nervapy-go/armgen/ir"
	"github.com/nervapy-go/armgen/regalloc"
	"github.com/nervapy-go/armgen/register"
)

// Result is the full structured outcome of a build, returned by
// FinishDetailed for callers (package inspect, package buildsvc) that need
// more than the rendered text.
type Result struct {
	Assembly    string
	Instructions []*ir.Instruction
	Bindings    []regalloc.Binding
	Frame       *frame.Frame
	Pool        *constpool.Pool
	PrologueLen int
}

// Finish runs the full build pipeline and returns only the rendered
// assembly text; see FinishDetailed for the full structured result.
func (f *Function) Finish() (string, error) {
	res, err := f.FinishDetailed()
	if err != nil {
		return "", err
	}
	return res.Assembly, nil
}

// FinishDetailed runs the full build pipeline over the function's recorded
// instruction stream, per spec.md 2: entry synthesis, return decomposition,
// CFG construction, two-pass liveness, constraint collection, three-pass
// allocation, rewriting, frame finalization, argument-pseudo lowering,
// prologue/epilogue insertion, alignment validation, and dialect emission.
// It releases the active build slot on both success and failure.
func (f *Function) FinishDetailed() (*Result, error) {
	defer func() {
		f.finished = true
		activeMu.Lock()
		if active == f {
			active = nil
		}
		activeMu.Unlock()
	}()

	insts := synthesizeEntry(f.stream.Instructions())
	insts = decomposeReturns(insts)

	graph, err := cfg.Build(insts)
	if err != nil {
		if _, ok := err.(cfg.NoEntryError); ok {
			return nil, armerr.Wrap(armerr.NoEntry, f.Name, "no ENTRY label", err)
		}
		return nil, armerr.Wrap(armerr.NoEntry, f.Name, "control-flow graph construction failed", err)
	}

	cfg.ComputeAvailable(graph)
	cfg.ComputeLive(graph, f.argumentSource, false)

	collector := regalloc.NewCollector(f.Target.Extensions.Has(arch.VFPd32))
	if err := regalloc.CollectFunction(collector, graph); err != nil {
		return nil, armerr.Wrap(armerr.RegisterAllocation, f.Name, "constraint collection failed", err)
	}

	hints := f.collectArgHints(insts)
	bindings, err := regalloc.Allocate(collector, hints)
	if err != nil {
		return nil, armerr.Wrap(armerr.RegisterAllocation, f.Name, "allocation failed", err)
	}
	regalloc.Rewrite(insts, bindings)

	for _, inst := range insts {
		f.frame.TrackAll(inst.Outputs)
	}

	insts, err = f.lowerArgumentLoads(insts)
	if err != nil {
		return nil, err
	}

	insts, prologueLen := f.insertPrologueEpilogue(insts)
	insts = eliminateDeadMoves(insts)

	if f.validateAlignment {
		if err := align.Validate(insts, prologueLen); err != nil {
			return nil, armerr.Wrap(armerr.StackAlignment, f.Name, "stack misaligned at a call site", err)
		}
	}

	opts := emit.Options{
		FunctionName: f.Name,
		Dialect:      f.Dialect,
		Target:       f.Target,
		IsThumb:      f.isThumb,
		Alignment:    f.alignment,
		Preserve8:    f.preserve8,
		Imports:      f.imports,
	}
	asm := emit.Render(insts, f.pool, opts)

	return &Result{
		Assembly:     asm,
		Instructions: insts,
		Bindings:     bindings,
		Frame:        f.frame,
		Pool:         f.pool,
		PrologueLen:  prologueLen,
	}, nil
}

func synthesizeEntry(insts []*ir.Instruction) []*ir.Instruction {
	for _, inst := range insts {
		if inst.Kind == ir.LabelKind && inst.Name == ir.EntryLabelName {
			return insts
		}
	}
	return append([]*ir.Instruction{ir.NewLabel(ir.EntryLabelName)}, insts...)
}

// decomposeReturns lowers every Return pseudo into a terminating "BX lr"
// branch, matching ir.NewReturn's documented contract.
func decomposeReturns(insts []*ir.Instruction) []*ir.Instruction {
	out := make([]*ir.Instruction, 0, len(insts))
	for _, inst := range insts {
		if inst.Kind != ir.Return {
			out = append(out, inst)
			continue
		}
		out = append(out, &ir.Instruction{
			Kind:     ir.Branch,
			Mnemonic: "BX",
			Inputs:   []register.Register{register.LR},
		})
	}
	return out
}

// collectArgHints builds the allocator's pass-1 hints: each ArgumentLoad's
// destination, hinted toward its argument's physical source register when
// the placement is a single register (spec.md 4.4 pass 1). Register-pair
// and stack placements are left to the scalar pass (see argumentSource).
func (f *Function) collectArgHints(insts []*ir.Instruction) []regalloc.ArgHint {
	var hints []regalloc.ArgHint
	for _, inst := range insts {
		if inst.Kind != ir.ArgumentLoad {
			continue
		}
		if inst.ArgIndex < 0 || inst.ArgIndex >= len(f.Arguments) {
			continue
		}
		p := f.Arguments[inst.ArgIndex].Placement
		if p.OnStack || p.HasPair {
			continue
		}
		hints = append(hints, regalloc.ArgHint{Dest: inst.ArgDest, Physical: p.Reg})
	}
	return hints
}

// lowerArgumentLoads replaces each ArgumentLoad pseudo (by now rewritten to
// its bound physical destination) with a concrete MOV or stack LDR, per the
// argument's resolved ABI placement.
func (f *Function) lowerArgumentLoads(insts []*ir.Instruction) ([]*ir.Instruction, error) {
	offset := f.frame.ParametersOffset()
	out := make([]*ir.Instruction, 0, len(insts))
	for _, inst := range insts {
		if inst.Kind != ir.ArgumentLoad {
			out = append(out, inst)
			continue
		}
		if inst.ArgIndex < 0 || inst.ArgIndex >= len(f.Arguments) {
			return nil, armerr.Wrap(armerr.UnknownArgument, f.Name, "argument-load pseudo references an undeclared argument index", nil)
		}
		p := f.Arguments[inst.ArgIndex].Placement
		dest := inst.ArgDest
		if p.OnStack {
			off := int32(offset + p.StackOff)
			out = append(out, &ir.Instruction{
				Kind:       ir.Plain,
				Mnemonic:   "LDR",
				Inputs:     []register.Register{register.SP},
				Outputs:    []register.Register{dest},
				ImmOperand: &off,
			})
			continue
		}
		out = append(out, &ir.Instruction{
			Kind:     ir.Plain,
			Mnemonic: "MOV",
			Inputs:   []register.Register{p.Reg},
			Outputs:  []register.Register{dest},
		})
	}
	return out, nil
}

// insertPrologueEpilogue inserts the synthesized prologue immediately after
// ENTRY and the synthesized epilogue immediately before every terminating
// return branch, returning the final instruction list and the prologue's
// instruction count (for align.Validate's skip-prefix).
func (f *Function) insertPrologueEpilogue(insts []*ir.Instruction) ([]*ir.Instruction, int) {
	prologue := f.frame.Prologue(f.Strategy, f.Dialect)
	epilogue := f.frame.Epilogue(f.Strategy, f.Dialect)

	out := make([]*ir.Instruction, 0, len(insts)+len(prologue)+len(epilogue)*2)
	for _, inst := range insts {
		if inst.Kind == ir.LabelKind && inst.Name == ir.EntryLabelName {
			out = append(out, inst)
			out = append(out, prologue...)
			continue
		}
		if isReturnBranch(inst) {
			out = append(out, epilogue...)
			out = append(out, inst)
			continue
		}
		out = append(out, inst)
	}
	return out, len(prologue)
}

func isReturnBranch(inst *ir.Instruction) bool {
	return inst.Kind == ir.Branch && !inst.Conditional && inst.Target == ""
}

// eliminateDeadMoves drops "MOV dst, dst" instructions left behind once
// allocation happens to bind an argument load's source and destination to
// the same physical register.
func eliminateDeadMoves(insts []*ir.Instruction) []*ir.Instruction {
	out := insts[:0:0]
	for _, inst := range insts {
		if inst.Kind == ir.Plain && inst.Mnemonic == "MOV" && len(inst.Inputs) == 1 && len(inst.Outputs) == 1 {
			if inst.Inputs[0].Equal(inst.Outputs[0]) {
				continue
			}
		}
		out = append(out, inst)
	}
	return out
}
