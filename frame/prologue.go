package frame

import (
	"github.com/nervapy-go/armgen/arch"
	"github.com/nervapy-go/armgen/dialect"
	"github.com/nervapy-go/armgen/ir"
	"github.com/nervapy-go/armgen/register"
)

// padLow returns low padded to even cardinality by appending one scratch
// register (preferring r3, per spec.md 4.6) not already present, or low
// unchanged if its cardinality is already even.
func padLow(low []register.Register) []register.Register {
	if len(low)%2 == 0 {
		return low
	}
	has := func(n int) bool {
		for _, r := range low {
			if r.Slot() == n {
				return true
			}
		}
		return false
	}
	scratch := 3
	if has(3) {
		for n := 0; n <= 7; n++ {
			if !has(n) {
				scratch = n
				break
			}
		}
	}
	return append(append([]register.Register(nil), low...), register.R(scratch))
}

// resolveStrategy resolves Auto to PushW (GAS) or STMDB (ARMCC).
func resolveStrategy(s HighRegisterStrategy, d dialect.Dialect) HighRegisterStrategy {
	if s != Auto {
		return s
	}
	if d == dialect.ARMCC {
		return STMDB
	}
	return PushW
}

func pushInst(regs []register.Register, wide bool) *ir.Instruction {
	mnemonic := "PUSH"
	if wide {
		mnemonic = "PUSH.W"
	}
	return &ir.Instruction{Kind: ir.Plain, Mnemonic: mnemonic, Inputs: append([]register.Register(nil), regs...), RegisterList: regs}
}

func popInst(regs []register.Register, wide bool) *ir.Instruction {
	mnemonic := "POP"
	if wide {
		mnemonic = "POP.W"
	}
	return &ir.Instruction{Kind: ir.Plain, Mnemonic: mnemonic, Outputs: append([]register.Register(nil), regs...), RegisterList: regs}
}

func stmdbInst(regs []register.Register) *ir.Instruction {
	return &ir.Instruction{Kind: ir.Plain, Mnemonic: "STMDB", Inputs: append([]register.Register{register.SP}, regs...), RegisterList: regs}
}

func ldmiaInst(regs []register.Register) *ir.Instruction {
	return &ir.Instruction{Kind: ir.Plain, Mnemonic: "LDMIA", Outputs: append([]register.Register(nil), regs...), RegisterList: regs}
}

func vpushInst(regs []register.Register) *ir.Instruction {
	return &ir.Instruction{Kind: ir.Plain, Mnemonic: "VPUSH", Inputs: append([]register.Register(nil), regs...), RegisterList: regs, Extensions: arch.Set(arch.VFP)}
}

func vpopInst(regs []register.Register) *ir.Instruction {
	return &ir.Instruction{Kind: ir.Plain, Mnemonic: "VPOP", Outputs: append([]register.Register(nil), regs...), RegisterList: regs, Extensions: arch.Set(arch.VFP)}
}

// Prologue returns the instructions to insert immediately after ENTRY, per
// spec.md 4.6: padded low-register PUSH, then the high-register strategy's
// save form, then VPUSH for D registers.
func (f *Frame) Prologue(strategy HighRegisterStrategy, d dialect.Dialect) []*ir.Instruction {
	var out []*ir.Instruction

	if low := f.Low(); len(low) > 0 {
		out = append(out, pushInst(padLow(low), false))
	}

	if high := f.High(); len(high) > 0 {
		switch resolveStrategy(strategy, d) {
		case PushW:
			out = append(out, pushInst(high, true))
		case STMDB:
			out = append(out, stmdbInst(high))
		}
	}

	if dRegs := f.DRegisters(); len(dRegs) > 0 {
		out = append(out, vpushInst(dRegs))
	}

	return out
}

// Epilogue returns the instructions to insert immediately before every
// return-exchange, in exactly the reverse order of Prologue.
func (f *Frame) Epilogue(strategy HighRegisterStrategy, d dialect.Dialect) []*ir.Instruction {
	var out []*ir.Instruction

	if dRegs := f.DRegisters(); len(dRegs) > 0 {
		out = append(out, vpopInst(dRegs))
	}

	if high := f.High(); len(high) > 0 {
		switch resolveStrategy(strategy, d) {
		case PushW:
			out = append(out, popInst(high, true))
		case STMDB:
			out = append(out, ldmiaInst(high))
		}
	}

	if low := f.Low(); len(low) > 0 {
		out = append(out, popInst(padLow(low), false))
	}

	return out
}

// ParametersOffset returns the SP-relative byte offset, measured from SP's
// value immediately after the prologue, to the first stack-spilled
// argument (spec.md 4.6).
func (f *Frame) ParametersOffset() uint32 {
	low := f.Low()
	if len(low) > 0 {
		low = padLow(low) // always even, so *4 is already a multiple of 8
	}
	lowBytes := uint32(len(low)) * 4
	dBytes := uint32(len(f.DRegisters())) * 8
	return lowBytes + dBytes
}
