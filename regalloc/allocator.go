package regalloc

import (
	"github.com/nervapy-go/armgen/ir"
	"github.com/nervapy-go/armgen/register"
)

// Rewrite replaces every occurrence of each binding's virtual register
// with its bound physical register across insts (spec.md 4.4's final
// rebinding step).
func Rewrite(insts []*ir.Instruction, bindings []Binding) {
	for _, b := range bindings {
		for _, inst := range insts {
			inst.RewriteRegister(b.Virtual, b.Physical)
		}
	}
}

// ArgHint maps an argument-load pseudo's destination virtual register to
// the physical register its source argument was placed in, when that
// physical register is still a valid option for the destination (spec.md
// 4.4 pass 1).
type ArgHint struct {
	Dest     register.Register
	Physical register.Register
}

// Binding is the final physical register chosen for one virtual register.
type Binding struct {
	Virtual  register.Register
	Physical register.Register
}

// Allocate runs the three-pass greedy allocator over the constraints in c:
// argument hints first, then grouped tuples, then scalar registers. It
// returns one Binding per virtual register bound.
func Allocate(c *Collector, hints []ArgHint) ([]Binding, error) {
	bound := make(map[register.Key]register.Register)
	var bindings []Binding

	bind := func(v register.Register, bb register.Bitboard) register.Register {
		phys := physicalFor(v.Type(), bb)
		bound[v.Key()] = phys
		// A bound register's only option is its own slot, so validTuples
		// accepts only tuples that agree with it.
		c.options[v.Key()] = []register.Bitboard{bb}
		bindings = append(bindings, Binding{Virtual: v, Physical: phys})
		pruneConflicts(c, v, bb)
		return phys
	}

	// Pass 1: argument hints.
	for _, h := range hints {
		if _, already := bound[h.Dest.Key()]; already {
			continue
		}
		if containsBitboard(c.options[h.Dest.Key()], h.Physical.Bitboard()) {
			bind(h.Dest, h.Physical.Bitboard())
		}
	}

	// Pass 2: grouped tuples.
	for _, g := range c.Groups() {
		// Drop any tuple now invalidated by pass-1 pruning.
		valid := validTuples(c, g)
		if len(valid) == 0 {
			return nil, &RegisterAllocationError{Register: "grouped", Reason: "no remaining contiguous slot tuple after hinting"}
		}
		tuple := valid[0]
		for i, m := range g.Members {
			if _, already := bound[m.Key()]; already {
				continue
			}
			bind(m, tuple[i])
		}
	}

	// Pass 3: scalar.
	for _, v := range c.Order() {
		if _, already := bound[v.Key()]; already {
			continue
		}
		opts := c.options[v.Key()]
		if len(opts) == 0 {
			return nil, &RegisterAllocationError{Register: v.String(), Reason: "no remaining allocation option"}
		}
		bind(v, opts[0])
	}

	return bindings, nil
}

// validTuples filters a group's candidate tuples down to those whose
// members, if still unbound, still have that slot in their option list
// (bound members must match their already-bound physical slot exactly).
func validTuples(c *Collector, g *GroupConstraint) [][]register.Bitboard {
	var out [][]register.Bitboard
	for _, t := range g.Options {
		ok := true
		for i, m := range g.Members {
			if !containsBitboard(c.options[m.Key()], t[i]) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, t)
		}
	}
	return out
}

// pruneConflicts removes, from every virtual register conflicting with v,
// every option overlapping bb bound to v; it also drops any grouped tuple
// that would now collide.
func pruneConflicts(c *Collector, v register.Register, bb register.Bitboard) {
	for _, k := range c.Conflicts(v) {
		opts, ok := c.options[k]
		if !ok {
			continue
		}
		c.options[k] = removeOverlapping(opts, bb)
	}
	for _, g := range c.groups {
		var kept [][]register.Bitboard
		for _, t := range g.Options {
			collides := false
			for i, m := range g.Members {
				if m.Key() == v.Key() {
					continue
				}
				if isConflicting(c, v, m) && t[i].Overlaps(bb) {
					collides = true
					break
				}
			}
			if !collides {
				kept = append(kept, t)
			}
		}
		g.Options = kept
	}
}

func isConflicting(c *Collector, a, b register.Register) bool {
	m := c.conflicts[a.Key()]
	return m != nil && m[b.Key()]
}

// physicalFor returns the canonical physical Register for a bitboard of the
// given bank (assumes bb denotes exactly one bank slot/group starting
// point, as produced by defaultOptions/bitboardAt).
func physicalFor(bank register.Bank, bb register.Bitboard) register.Register {
	slot := lowestSetBit(bb)
	switch bank {
	case register.GP:
		return register.R(slot)
	case register.S:
		return register.Sreg(slot)
	case register.D:
		return register.Dreg(slot / 2)
	case register.Q:
		return register.Qreg(slot / 4)
	default:
		return register.Register{}
	}
}

func lowestSetBit(bb register.Bitboard) int {
	for i := 0; i < 64; i++ {
		if bb&(1<<uint(i)) != 0 {
			return i
		}
	}
	return 0
}
