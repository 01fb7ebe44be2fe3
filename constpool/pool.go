// Package constpool deduplicates constants embedded in a function's
// instructions and packs them into alignment-sized buckets for emission.
package constpool

import (
	"encoding/hex"
	"fmt"
)

// Constant is one deduplicated literal value: its bytes, repeat count (for
// a value replicated across a SIMD lane), and the alignment it requires.
type Constant struct {
	Bytes     []byte
	Size      int // size in bytes of one element
	Repeat    int // number of times Bytes repeats (1 for scalar constants)
	Alignment int // required byte alignment, a power of two

	label string
}

// key identifies a constant for dedup purposes: same bytes, size, repeat
// and alignment are considered the same constant.
func (c Constant) key() string {
	return fmt.Sprintf("%d:%d:%d:%s", c.Size, c.Repeat, c.Alignment, hex.EncodeToString(c.Bytes))
}

// bucket groups constants sharing one alignment value; a new bucket opens
// once the running byte count would overflow bucketCapacity.
type bucket struct {
	alignment int
	entries   []*Constant
	bytes     int
}

// bucketCapacity bounds how many bytes accumulate in one alignment bucket
// before a new one opens, keeping any single bucket's internal padding
// bounded (spec.md 4.8: "When a bucket is full a new one is opened").
const bucketCapacity = 4096

// Pool deduplicates and labels constants referenced by one function's
// instructions.
type Pool struct {
	byKey   map[string]*Constant
	order   []*Constant
	buckets map[int][]*bucket
	next    int
}

// New creates an empty constant pool.
func New() *Pool {
	return &Pool{
		byKey:   make(map[string]*Constant),
		buckets: make(map[int][]*bucket),
	}
}

// Intern returns the pool's canonical Constant for the given value,
// creating and labeling it ("c0", "c1", …) on first sight, and placing it
// into an alignment bucket. Subsequent calls with an identical value return
// the same Constant without consuming a new label or bucket slot.
func (p *Pool) Intern(c Constant) *Constant {
	k := c.key()
	if existing, ok := p.byKey[k]; ok {
		return existing
	}

	stored := c
	stored.label = fmt.Sprintf("c%d", p.next)
	p.next++
	p.byKey[k] = &stored
	p.order = append(p.order, &stored)
	p.place(&stored)
	return &stored
}

// place assigns a constant to the last bucket of its alignment class,
// opening a new one if the current bucket would overflow bucketCapacity.
func (p *Pool) place(c *Constant) {
	bs := p.buckets[c.Alignment]
	total := c.Size * c.Repeat
	if len(bs) == 0 || bs[len(bs)-1].bytes+total > bucketCapacity {
		bs = append(bs, &bucket{alignment: c.Alignment})
		p.buckets[c.Alignment] = bs
	}
	b := bs[len(bs)-1]
	b.entries = append(b.entries, c)
	b.bytes += total
}

// Label returns the assigned label for a constant ("" if never interned
// through this pool).
func (c *Constant) Label() string { return c.label }

// Buckets returns every alignment bucket, sorted by alignment descending
// (largest-aligned constants emitted first, matching typical assembler
// data-section layout so smaller constants don't force re-padding).
func (p *Pool) Buckets() []Bucket {
	alignments := make([]int, 0, len(p.buckets))
	for a := range p.buckets {
		alignments = append(alignments, a)
	}
	// simple insertion sort descending; bucket counts are tiny per function
	for i := 1; i < len(alignments); i++ {
		v := alignments[i]
		j := i - 1
		for j >= 0 && alignments[j] < v {
			alignments[j+1] = alignments[j]
			j--
		}
		alignments[j+1] = v
	}

	var out []Bucket
	for _, a := range alignments {
		for _, b := range p.buckets[a] {
			out = append(out, Bucket{Alignment: b.alignment, Constants: b.entries})
		}
	}
	return out
}

// Bucket is a read-only view of one alignment bucket's constants, in
// insertion order, for package emit to render.
type Bucket struct {
	Alignment int
	Constants []*Constant
}

// Empty reports whether the pool has no interned constants.
func (p *Pool) Empty() bool { return len(p.order) == 0 }
