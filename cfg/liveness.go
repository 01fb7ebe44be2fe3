package cfg

import (
	"github.com/nervapy-go/armgen/ir"
	"github.com/nervapy-go/armgen/register"
)

// regSet is a live/available set keyed by register identity.
type regSet map[register.Key]register.Register

func (s regSet) clone() regSet {
	out := make(regSet, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

func (s regSet) add(r register.Register) { s[r.Key()] = r }

func (s regSet) remove(r register.Register) { delete(s, r.Key()) }

func unionInto(dst regSet, src regSet) (changed bool) {
	for k, v := range src {
		if _, ok := dst[k]; !ok {
			dst[k] = v
			changed = true
		}
	}
	return changed
}

// intersect returns the registers present in every set of sets (nil-safe).
// ComputeAvailable does not call it: each label is walked once, with the
// set of the first path that reaches it.
func intersect(sets ...regSet) regSet {
	if len(sets) == 0 {
		return regSet{}
	}
	out := sets[0].clone()
	for _, s := range sets[1:] {
		for k := range out {
			if _, ok := s[k]; !ok {
				delete(out, k)
			}
		}
	}
	return out
}

// ArgSource resolves the physical (or otherwise already-placed) register an
// argument-load pseudo reads from, used by ComputeLive's normal pass to
// attribute that read for liveness purposes.
type ArgSource func(argIndex int) (register.Register, bool)

// ComputeLive runs the backward live-registers fixpoint described in
// spec.md 4.2 and stores the resulting live-out set on every instruction's
// Live field. When excludeArgLoads is true, argument-load pseudos are
// treated as having no register inputs (their destination doesn't need to
// fight the source argument register, which the allocator instead binds
// directly via the ABI-hint pass); the returned map holds that exclude-mode
// result instead of mutating the instructions, so callers can run both
// modes without the second overwriting the first's stored field.
func ComputeLive(g *Graph, argSource ArgSource, excludeArgLoads bool) map[*ir.Instruction]regSet {
	n := len(g.Insts)
	liveIn := make([]regSet, n)
	liveOut := make([]regSet, n)
	for i := range g.Insts {
		liveIn[i] = regSet{}
		liveOut[i] = regSet{}
	}

	inputsOf := func(i int) []register.Register {
		inst := g.Insts[i]
		if inst.Kind == ir.ArgumentLoad {
			if excludeArgLoads {
				return nil
			}
			if argSource != nil {
				if r, ok := argSource(inst.ArgIndex); ok {
					return []register.Register{r}
				}
			}
			return nil
		}
		return inst.Inputs
	}

	changed := true
	for changed {
		changed = false
		for i := n - 1; i >= 0; i-- {
			inst := g.Insts[i]

			newLiveIn := liveOut[i].clone()
			for _, out := range inst.Outputs {
				newLiveIn.remove(out)
			}
			for _, in := range inputsOf(i) {
				newLiveIn.add(in)
			}

			if !setEqual(newLiveIn, liveIn[i]) {
				liveIn[i] = newLiveIn
				changed = true
			}

			newLiveOut := regSet{}
			for _, s := range g.successors(i) {
				unionInto(newLiveOut, liveIn[s])
			}
			if !setEqual(newLiveOut, liveOut[i]) {
				liveOut[i] = newLiveOut
				changed = true
			}
		}
	}

	result := make(map[*ir.Instruction]regSet, n)
	for i, inst := range g.Insts {
		if !excludeArgLoads {
			inst.Live = map[register.Key]register.Register(liveOut[i])
		}
		result[inst] = liveOut[i]
	}
	return result
}

func setEqual(a, b regSet) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

// ComputeAvailable runs the forward available-registers pass described in
// spec.md 4.2: from ENTRY, each reachable instruction records the set of
// physical registers defined on every path reached so far. A conditional
// branch's target is walked once with the branch's current set; an
// unconditional branch stops the fall-through strand after spawning its
// target's walk.
func ComputeAvailable(g *Graph) {
	walkedLabel := make(map[string]bool)

	var walk func(idx int, avail regSet)
	walk = func(idx int, avail regSet) {
		for idx < len(g.Insts) {
			inst := g.Insts[idx]

			if inst.Kind == ir.LabelKind {
				if walkedLabel[inst.Name] {
					return
				}
				walkedLabel[inst.Name] = true
			}

			inst.Available = map[register.Key]register.Register(avail.clone())

			next := avail.clone()
			for _, out := range inst.Outputs {
				if !out.IsVirtual() {
					next.add(out)
				}
			}

			if inst.Kind == ir.Branch {
				if target, ok := inst.BranchTarget(); ok && target != "" {
					if tIdx, ok := g.LabelIndex[target]; ok && !walkedLabel[g.Insts[tIdx].Name] {
						walk(tIdx, next.clone())
					}
				}
				if inst.IsTerminator() {
					return
				}
				idx++
				avail = next
				continue
			}

			idx++
			avail = next
		}
	}

	walk(g.EntryIndex, regSet{})
}
