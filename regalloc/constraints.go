package regalloc

import (
	"fmt"
	"sort"

	"github.com/nervapy-go/armgen/cfg"
	"github.com/nervapy-go/armgen/ir"
	"github.com/nervapy-go/armgen/register"
)

// GroupConstraint is a co-allocation requirement over several virtual
// registers arising from a VFP/NEON multi-register load/store: they must
// end up in contiguous physical slots, in source order.
type GroupConstraint struct {
	Members []register.Register   // virtual registers, in source order
	Bank    register.Bank
	Options [][]register.Bitboard // candidate tuples, parallel to Members
}

// Collector accumulates allocation options, the conflict graph, and grouped
// constraints for one function build.
type Collector struct {
	vfpd32 bool

	options   map[register.Key][]register.Bitboard
	conflicts map[register.Key]map[register.Key]bool
	order     []register.Register // first-seen order, for deterministic allocation

	groups      map[string]*GroupConstraint
	groupOrder  []string
	groupedRegs map[register.Key]bool
}

// NewCollector creates an empty Collector. vfpd32 should be true when the
// target microarchitecture has the VFPd32 extension (32 D-registers
// instead of 16).
func NewCollector(vfpd32 bool) *Collector {
	return &Collector{
		vfpd32:      vfpd32,
		options:     make(map[register.Key][]register.Bitboard),
		conflicts:   make(map[register.Key]map[register.Key]bool),
		groups:      make(map[string]*GroupConstraint),
		groupedRegs: make(map[register.Key]bool),
	}
}

func (c *Collector) seed(r register.Register) {
	k := r.Key()
	if _, ok := c.options[k]; ok {
		return
	}
	c.options[k] = append([]register.Bitboard(nil), defaultOptions(r.Type(), c.vfpd32)...)
	c.order = append(c.order, r)
}

func (c *Collector) addConflict(a, b register.Register) {
	if a.Key() == b.Key() {
		return
	}
	if c.conflicts[a.Key()] == nil {
		c.conflicts[a.Key()] = make(map[register.Key]bool)
	}
	if c.conflicts[b.Key()] == nil {
		c.conflicts[b.Key()] = make(map[register.Key]bool)
	}
	c.conflicts[a.Key()][b.Key()] = true
	c.conflicts[b.Key()][a.Key()] = true
}

// RegisterAllocationError reports that some virtual register (or grouped
// tuple) ran out of candidate options.
type RegisterAllocationError struct {
	Register string
	Reason   string
}

func (e *RegisterAllocationError) Error() string {
	return fmt.Sprintf("register allocation failed for %s: %s", e.Register, e.Reason)
}

// CollectLiveness seeds options and conflicts from one instruction's live
// set (spec.md 4.3): every virtual register present gets default options;
// every pair of simultaneously-live virtuals of the same bank conflicts;
// every simultaneously-live physical register prunes overlapping options
// from each live virtual of its bank.
func (c *Collector) CollectLiveness(live map[register.Key]register.Register) {
	var virtuals, physicals []register.Register
	for _, r := range live {
		if r.IsVirtual() {
			virtuals = append(virtuals, r)
		} else {
			physicals = append(physicals, r)
		}
	}

	for _, v := range virtuals {
		c.seed(v)
	}
	for i, a := range virtuals {
		for _, b := range virtuals[i+1:] {
			if a.Type() == b.Type() {
				c.addConflict(a, b)
			}
		}
	}
	for _, v := range virtuals {
		for _, p := range physicals {
			if p.Type() != v.Type() {
				continue
			}
			c.options[v.Key()] = removeOverlapping(c.options[v.Key()], p.Bitboard())
		}
	}
}

// CollectGrouped derives the joint allocation option for one grouped
// (VLDM/VSTM-style) instruction and intersects it against any prior
// instruction sharing the same virtual-register tuple.
func (c *Collector) CollectGrouped(inst *ir.Instruction) error {
	if len(inst.GroupedOperands) == 0 {
		return nil
	}
	members := inst.GroupedOperands
	bank := members[0].Type()
	width := widthOf(bank)
	n := slotCount(bank, c.vfpd32)

	for _, m := range members {
		c.seed(m)
	}

	var tuples [][]register.Bitboard
	for start := 0; start+int(width)*len(members) <= n*int(width); start += int(width) {
		// start walks slot indices in steps of `width`; candidate slot for
		// member i is (start/width)+i.
		base := start / int(width)
		if base+len(members) > n {
			break
		}
		tuple := make([]register.Bitboard, len(members))
		valid := true
		seen := make(map[register.Key]register.Bitboard)
		for i, m := range members {
			bb := bitboardAt(bank, base+i)
			if prior, ok := seen[m.Key()]; ok {
				// same virtual register repeated in the list: must reuse
				// the identical slot both times.
				if prior != bb {
					valid = false
					break
				}
			}
			seen[m.Key()] = bb
			if !containsBitboard(c.options[m.Key()], bb) {
				valid = false
				break
			}
			tuple[i] = bb
		}
		if !valid {
			continue
		}
		// reject self-overlap: distinct members must not land on
		// overlapping slots.
		if tupleSelfOverlaps(members, tuple) {
			continue
		}
		tuples = append(tuples, tuple)
	}

	key := groupKey(members)
	g, existed := c.groups[key]
	if !existed {
		g = &GroupConstraint{Members: members, Bank: bank}
		c.groups[key] = g
		c.groupOrder = append(c.groupOrder, key)
	}
	if existed {
		g.Options = intersectTuples(g.Options, tuples)
	} else {
		g.Options = tuples
	}
	if len(g.Options) == 0 {
		return &RegisterAllocationError{Register: key, Reason: "no contiguous slot tuple satisfies every grouped instruction"}
	}
	for _, m := range members {
		c.groupedRegs[m.Key()] = true
	}
	return nil
}

func widthOf(bank register.Bank) uint {
	switch bank {
	case register.D:
		return 2
	case register.Q:
		return 4
	default:
		return 1
	}
}

func tupleSelfOverlaps(members []register.Register, tuple []register.Bitboard) bool {
	for i := range members {
		for j := i + 1; j < len(members); j++ {
			if members[i].Key() == members[j].Key() {
				continue
			}
			if tuple[i].Overlaps(tuple[j]) {
				return true
			}
		}
	}
	return false
}

func groupKey(members []register.Register) string {
	ids := make([]string, len(members))
	for i, m := range members {
		k := m.Key()
		ids[i] = fmt.Sprintf("%d/%v/%d", k.Type, k.Virtual, k.ID)
	}
	sort.Strings(ids)
	return fmt.Sprintf("%v", ids)
}

func intersectTuples(a, b [][]register.Bitboard) [][]register.Bitboard {
	bSet := make(map[string]bool, len(b))
	for _, t := range b {
		bSet[tupleKey(t)] = true
	}
	var out [][]register.Bitboard
	for _, t := range a {
		if bSet[tupleKey(t)] {
			out = append(out, t)
		}
	}
	return out
}

func tupleKey(t []register.Bitboard) string {
	s := ""
	for _, bb := range t {
		s += fmt.Sprintf("%x,", uint64(bb))
	}
	return s
}

// Options returns the current candidate option list for a virtual register.
func (c *Collector) Options(r register.Register) []register.Bitboard {
	return c.options[r.Key()]
}

// IsGrouped reports whether r is a member of some grouped constraint and
// should be skipped by scalar allocation.
func (c *Collector) IsGrouped(r register.Register) bool { return c.groupedRegs[r.Key()] }

// Order returns virtual registers in first-seen order, excluding grouped
// members (for the scalar allocation pass).
func (c *Collector) Order() []register.Register {
	out := make([]register.Register, 0, len(c.order))
	for _, r := range c.order {
		if !c.IsGrouped(r) {
			out = append(out, r)
		}
	}
	return out
}

// Groups returns grouped constraints in first-seen order.
func (c *Collector) Groups() []*GroupConstraint {
	out := make([]*GroupConstraint, 0, len(c.groupOrder))
	for _, k := range c.groupOrder {
		out = append(out, c.groups[k])
	}
	return out
}

// Conflicts returns the set of virtual registers conflicting with r.
func (c *Collector) Conflicts(r register.Register) []register.Key {
	m := c.conflicts[r.Key()]
	out := make([]register.Key, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

// CollectFunction runs CollectLiveness over every instruction's live set and
// CollectGrouped over every grouped instruction, in stream order.
func CollectFunction(c *Collector, g *cfg.Graph) error {
	for _, inst := range g.Insts {
		c.CollectLiveness(inst.Live)
	}
	for _, inst := range g.Insts {
		if err := c.CollectGrouped(inst); err != nil {
			return err
		}
	}
	return nil
}
