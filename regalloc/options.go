// Package regalloc collects allocation options and conflicts from a
// function's liveness results (spec.md 4.3) and runs the three-pass greedy
// allocator (spec.md 4.4) that binds virtual registers to physical ones.
package regalloc

import (
	"github.com/nervapy-go/armgen/abi"
	"github.com/nervapy-go/armgen/register"
)

// defaultOptions returns the candidate physical bitboards for a fresh
// virtual register of the given bank, per spec.md 4.3:
//
//	GP: each of the ABI's volatile+argument+callee-save registers, deduped
//	S:  each of the 32 single-precision slots
//	D:  each of 16 or 32 aligned D-slots, depending on vfpd32
//	Q:  each of 8 or 16 aligned Q-slots, depending on vfpd32
func defaultOptions(bank register.Bank, vfpd32 bool) []register.Bitboard {
	switch bank {
	case register.GP:
		regs := abi.AllocationCandidates()
		out := make([]register.Bitboard, len(regs))
		for i, r := range regs {
			out[i] = r.Bitboard()
		}
		return out
	case register.S:
		out := make([]register.Bitboard, 32)
		for i := range out {
			out[i] = register.Sreg(i).Bitboard()
		}
		return out
	case register.D:
		n := 16
		if vfpd32 {
			n = 32
		}
		out := make([]register.Bitboard, n)
		for i := range out {
			out[i] = register.Dreg(i).Bitboard()
		}
		return out
	case register.Q:
		n := 8
		if vfpd32 {
			n = 16
		}
		out := make([]register.Bitboard, n)
		for i := range out {
			out[i] = register.Qreg(i).Bitboard()
		}
		return out
	default:
		return nil
	}
}

// slotCount returns how many bank slots (of the bank's own indexing scheme:
// S-register count for S, D-register count for D, Q-register count for Q,
// candidate count for GP) exist under the given VFPd32 setting.
func slotCount(bank register.Bank, vfpd32 bool) int {
	return len(defaultOptions(bank, vfpd32))
}

// bitboardAt returns the physical bitboard for slot index i of the given
// bank (D/Q indices are architectural register numbers, not S-slot
// indices).
func bitboardAt(bank register.Bank, i int) register.Bitboard {
	switch bank {
	case register.S:
		return register.Sreg(i).Bitboard()
	case register.D:
		return register.Dreg(i).Bitboard()
	case register.Q:
		return register.Qreg(i).Bitboard()
	default:
		return 0
	}
}

// removeOverlapping returns opts with every bitboard overlapping `with`
// removed, preserving order.
func removeOverlapping(opts []register.Bitboard, with register.Bitboard) []register.Bitboard {
	out := opts[:0:0]
	for _, o := range opts {
		if !o.Overlaps(with) {
			out = append(out, o)
		}
	}
	return out
}

func containsBitboard(opts []register.Bitboard, bb register.Bitboard) bool {
	for _, o := range opts {
		if o == bb {
			return true
		}
	}
	return false
}
