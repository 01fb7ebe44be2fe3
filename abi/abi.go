// Package abi implements the ARM EABI argument-placement and callee-saved
// register rules used by function construction and stack-frame synthesis.
package abi

import "github.com/nervapy-go/armgen/register"

// ABI selects an ARM EABI variant.
type ABI uint8

const (
	// ArmGNUEABI is the soft-float EABI.
	ArmGNUEABI ABI = iota
	// ArmGNUEABIHF is the hard-float EABI.
	ArmGNUEABIHF
)

func (a ABI) String() string {
	if a == ArmGNUEABIHF {
		return "arm_gnueabihf"
	}
	return "arm_gnueabi"
}

// PointerSize is 4 bytes on every ARM EABI variant this package models.
const PointerSize = 4

// ArgumentRegisters are the GP registers, in order, eligible to carry
// argument values (r0-r3); both EABI variants agree on this set.
var ArgumentRegisters = []register.Register{
	register.R(0), register.R(1), register.R(2), register.R(3),
}

// VolatileRegisters are GP registers a callee may clobber without saving,
// per both EABI variants (r0-r3, r12, lr).
var VolatileRegisters = []register.Register{
	register.R(0), register.R(1), register.R(2), register.R(3),
	register.R(12), register.R(14),
}

// CalleeSavedRegisters are GP registers a callee must preserve across a
// call if it writes them (r4-r11; sp is managed by the prologue/epilogue
// push/pop instructions themselves, not listed as a preservable register).
var CalleeSavedRegisters = []register.Register{
	register.R(4), register.R(5), register.R(6), register.R(7),
	register.R(8), register.R(9), register.R(10), register.R(11),
}

// CalleeSavedDRegisters are the VFP double-precision registers a callee
// must preserve if written (d8-d15, shared by both EABI variants).
var CalleeSavedDRegisters = func() []register.Register {
	out := make([]register.Register, 0, 8)
	for n := 8; n <= 15; n++ {
		out = append(out, register.Dreg(n))
	}
	return out
}()

// IsCalleeSaved reports whether r is in the GP callee-saved set.
func IsCalleeSaved(r register.Register) bool {
	for _, c := range CalleeSavedRegisters {
		if c.Equal(r) {
			return true
		}
	}
	return false
}

// IsCalleeSavedD reports whether r is in the D callee-saved set.
func IsCalleeSavedD(r register.Register) bool {
	for _, c := range CalleeSavedDRegisters {
		if c.Equal(r) {
			return true
		}
	}
	return false
}

// AllocationCandidates returns the deduplicated GP register pool the
// allocator should try for a general-purpose virtual register: volatile +
// argument + callee-saved registers, per spec.md 4.3.
func AllocationCandidates() []register.Register {
	seen := make(map[int]bool)
	var out []register.Register
	add := func(regs []register.Register) {
		for _, r := range regs {
			if !seen[r.Slot()] {
				seen[r.Slot()] = true
				out = append(out, r)
			}
		}
	}
	add(VolatileRegisters)
	add(ArgumentRegisters)
	add(CalleeSavedRegisters)
	return out
}
