// Package frame tracks which callee-saved registers a function must
// preserve and synthesizes the prologue/epilogue instruction sequence,
// including the ARMv7-M high-register strategy (spec.md 4.6).
package frame

import (
	"sort"

	"github.com/nervapy-go/armgen/abi"
	"github.com/nervapy-go/armgen/register"
)

// HighRegisterStrategy selects how r8-r15 are saved/restored, since 16-bit
// Thumb PUSH/POP cannot encode them.
type HighRegisterStrategy uint8

const (
	// PushW uses the 32-bit Thumb-2 "PUSH.W"/"POP.W" encoding.
	PushW HighRegisterStrategy = iota
	// STMDB uses the universally-available "STMDB sp!, {...}" / "LDMIA sp!, {...}" form.
	STMDB
	// Auto picks PushW for the GAS dialect and STMDB for ARMCC.
	Auto
)

// Frame tracks the callee-saved registers a function must preserve. It
// grows monotonically: first from explicit physical-register writes seen
// during IR construction, then again after register allocation from the
// rewritten IR's final physical outputs (spec.md 3 "Stack frame").
type Frame struct {
	gp map[int]register.Register // slot -> physical GP register
	d  map[int]register.Register // architectural D index -> physical D register
}

// New creates an empty Frame.
func New() *Frame {
	return &Frame{gp: make(map[int]register.Register), d: make(map[int]register.Register)}
}

// Track records that r was written by some instruction, preserving it if
// the ABI requires it. Safe to call repeatedly (idempotent, monotonic).
// Per spec.md's open question on S-register projection, an S or Q register
// is only projected onto its enclosing D register(s) once it is physical
// (i.e. after allocation) — an unbound virtual S/Q register is not yet
// projectable and is simply ignored here until rewritten.
func (f *Frame) Track(r register.Register) {
	switch r.Type() {
	case register.GP:
		if !r.IsVirtual() && abi.IsCalleeSaved(r) {
			f.gp[r.Slot()] = r
		}
	case register.D:
		if !r.IsVirtual() && abi.IsCalleeSavedD(r) {
			f.d[register.DIndex(r)] = r
		}
	case register.S:
		if !r.IsVirtual() {
			f.Track(register.EnclosingD(r))
		}
	case register.Q:
		if !r.IsVirtual() {
			n := register.QIndex(r)
			f.Track(register.Dreg(2 * n))
			f.Track(register.Dreg(2*n + 1))
		}
	}
}

// TrackAll tracks every register an instruction writes.
func (f *Frame) TrackAll(outputs []register.Register) {
	for _, r := range outputs {
		f.Track(r)
	}
}

// GPRegisters returns the preserved GP registers, sorted by register
// number.
func (f *Frame) GPRegisters() []register.Register {
	return sortedBySlot(f.gp)
}

// DRegisters returns the preserved D registers, sorted by D index.
func (f *Frame) DRegisters() []register.Register {
	return sortedBySlot(f.d)
}

func sortedBySlot(m map[int]register.Register) []register.Register {
	slots := make([]int, 0, len(m))
	for s := range m {
		slots = append(slots, s)
	}
	sort.Ints(slots)
	out := make([]register.Register, len(slots))
	for i, s := range slots {
		out[i] = m[s]
	}
	return out
}

// Low returns the preserved GP registers addressable by 16-bit PUSH/POP
// (r0-r7), sorted.
func (f *Frame) Low() []register.Register {
	var out []register.Register
	for _, r := range f.GPRegisters() {
		if register.IsLow(r) {
			out = append(out, r)
		}
	}
	return out
}

// High returns the preserved GP registers requiring PUSH.W/STMDB (r8-r15),
// sorted.
func (f *Frame) High() []register.Register {
	var out []register.Register
	for _, r := range f.GPRegisters() {
		if register.IsHigh(r) {
			out = append(out, r)
		}
	}
	return out
}
