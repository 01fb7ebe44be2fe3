package abi

import (
	"fmt"

	"github.com/nervapy-go/armgen/register"
)

// Width is the byte size of an argument's type (1/2/4 treated as a single
// 32-bit slot; 8 requires a register pair or 8-byte-aligned stack slot).
type Width uint8

const (
	Width8  Width = 1
	Width16 Width = 2
	Width32 Width = 4
	Width64 Width = 8
)

// ArgType declares one function argument's size.
type ArgType struct {
	Width Width
	Name  string // optional, for diagnostics
}

// Placement records where one argument ended up: a single register, a
// register pair (for 8-byte args split across two GP registers), or a
// stack offset (relative to the parameters-offset base computed by package
// frame).
type Placement struct {
	Reg       register.Register
	RegHigh   register.Register // second register of a pair; zero Register if unused
	HasPair   bool
	OnStack   bool
	StackOff  uint32
}

// ErrArgumentTooWide is returned for arguments larger than 8 bytes.
type ErrArgumentTooWide struct{ Width Width }

func (e *ErrArgumentTooWide) Error() string {
	return fmt.Sprintf("abi: argument width %d exceeds the maximum supported width of 8 bytes", e.Width)
}

// PlaceArguments assigns each declared argument a register, register pair,
// or stack slot following spec.md 4.5: 32-bit args fill r0..r3 in order and
// then spill 4 bytes at a time; 8-byte args need an even-indexed register
// pair (skipping r1/r3 if that's the next free register) or, once spilled,
// an 8-byte-aligned stack slot (inserting 4 bytes of padding as needed).
func PlaceArguments(args []ArgType) ([]Placement, error) {
	placements := make([]Placement, len(args))
	nextReg := 0       // next unused index into ArgumentRegisters (0..4)
	stackOff := uint32(0)

	for i, a := range args {
		switch a.Width {
		case Width8, Width16, Width32:
			if nextReg < len(ArgumentRegisters) {
				placements[i] = Placement{Reg: ArgumentRegisters[nextReg]}
				nextReg++
			} else {
				placements[i] = Placement{OnStack: true, StackOff: stackOff}
				stackOff += 4
			}
		case Width64:
			if nextReg%2 != 0 && nextReg < len(ArgumentRegisters) {
				nextReg++ // skip r1 or r3 to reach an even pair start
			}
			if nextReg+1 < len(ArgumentRegisters) {
				placements[i] = Placement{
					Reg:     ArgumentRegisters[nextReg],
					RegHigh: ArgumentRegisters[nextReg+1],
					HasPair: true,
				}
				nextReg += 2
			} else {
				nextReg = len(ArgumentRegisters) // no more register args after a stack spill
				if stackOff%8 != 0 {
					stackOff += 4 // pad to 8-byte alignment
				}
				placements[i] = Placement{OnStack: true, StackOff: stackOff}
				stackOff += 8
			}
		default:
			return nil, &ErrArgumentTooWide{Width: a.Width}
		}
	}
	return placements, nil
}
