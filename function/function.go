// Package function is the build-pipeline orchestration layer: it owns the
// single in-progress function build (spec.md 2's "active build slot" is
// process-wide and non-reentrant, since the IR, constant pool and register
// counters it coordinates are not safe to share across concurrent builds),
// and drives the full assembly synthesis — decomposition, liveness,
// allocation, frame synthesis, alignment validation and emission.
package function

import (
	"sync"

	"github.com/nervapy-go/armgen/abi"
	"github.com/nervapy-go/armgen/arch"
	"github.com/nervapy-go/armgen/constpool"
	"github.com/nervapy-go/armgen/dialect"
	"github.com/nervapy-go/armgen/frame"
	"github.com/nervapy-go/armgen/function/armerr"
	"github.com/nervapy-go/armgen/ir"
	"github.com/nervapy-go/armgen/register"
)

var activeMu sync.Mutex
var active *Function

// Function is one in-progress (or finished) build.
type Function struct {
	Name      string
	Arguments []ir.Argument
	ABI       abi.ABI
	Target    arch.Microarchitecture
	Dialect   dialect.Dialect
	Strategy  frame.HighRegisterStrategy

	validateAlignment bool
	imports           []string

	isThumb   bool
	alignment int
	preserve8 bool

	ids    register.IDCounter
	stream *ir.Stream
	pool   *constpool.Pool
	frame  *frame.Frame

	finished bool
}

// Config gathers the parameters fixed at Begin.
type Config struct {
	Name              string
	Arguments         []abi.ArgType
	ABI               abi.ABI
	Target            arch.Microarchitecture
	Dialect           dialect.Dialect
	Strategy          frame.HighRegisterStrategy
	ValidateAlignment bool

	// IsThumb, Alignment and Preserve8 are spec.md 6 builder-surface
	// options passed straight through to emit.Options: the Thumb
	// directive/THUMB line, an explicit alignment directive, and the
	// ARMCC PRESERVE8 attribute, respectively.
	IsThumb   bool
	Alignment int
	Preserve8 bool
}

// Begin claims the active build slot and starts a new function. It fails
// with armerr.NestedBuild if a previous build hasn't called Finish yet.
func Begin(cfg Config) (*Function, error) {
	activeMu.Lock()
	defer activeMu.Unlock()

	if active != nil && !active.finished {
		return nil, armerr.Wrap(armerr.NestedBuild, cfg.Name, "a build is already in progress for "+active.Name, nil)
	}

	args, err := ir.NewArguments(cfg.Arguments)
	if err != nil {
		return nil, armerr.Wrap(armerr.UnsupportedArgument, cfg.Name, "argument placement failed", err)
	}

	f := &Function{
		Name:              cfg.Name,
		Arguments:         args,
		ABI:               cfg.ABI,
		Target:            cfg.Target,
		Dialect:           cfg.Dialect,
		Strategy:          cfg.Strategy,
		validateAlignment: cfg.ValidateAlignment,
		isThumb:           cfg.IsThumb,
		alignment:         cfg.Alignment,
		preserve8:         cfg.Preserve8,
		stream:            ir.NewStream(cfg.Target),
		pool:              constpool.New(),
		frame:             frame.New(),
	}
	f.stream.OnAppend(func(inst *ir.Instruction) {
		f.frame.TrackAll(inst.Outputs)
	})

	active = f
	return f, nil
}

// NewVirtual issues a fresh virtual register of the given bank.
func (f *Function) NewVirtual(bank register.Bank) register.Register {
	return f.ids.Next(bank)
}

// Emit appends inst to the function's instruction stream, rejecting it if
// the target lacks a required ISA extension.
func (f *Function) Emit(inst *ir.Instruction) error {
	if err := f.stream.Append(inst); err != nil {
		return armerr.Wrap(armerr.UnsupportedISA, f.Name, "instruction rejected by target", err)
	}
	return nil
}

// Label appends a named branch target.
func (f *Function) Label(name string) error { return f.Emit(ir.NewLabel(name)) }

// Branch appends a (conditional) branch to a named label.
func (f *Function) Branch(mnemonic, target string, conditional bool) error {
	return f.Emit(ir.NewBranch(mnemonic, target, conditional))
}

// Return appends the compound return pseudo, lowered during Finish.
func (f *Function) Return() error { return f.Emit(ir.NewReturn()) }

// LoadArgument appends the pseudo that materializes argIndex's value into a
// fresh virtual register, returning that register. Returns
// armerr.UnknownArgument if name doesn't match a declared argument.
func (f *Function) LoadArgument(name string) (register.Register, error) {
	arg, ok := ir.FindArgument(f.Arguments, name)
	if !ok {
		return register.Register{}, armerr.Wrap(armerr.UnknownArgument, f.Name, "no such declared argument: "+name, nil)
	}
	idx := -1
	for i, a := range f.Arguments {
		if a.Name == name {
			idx = i
			break
		}
	}
	dest := f.NewVirtual(register.GP)
	if err := f.Emit(ir.NewArgumentLoad(idx, dest)); err != nil {
		return register.Register{}, err
	}
	_ = arg
	return dest, nil
}

// Constant interns a literal value into the function's constant pool and
// returns it for use with ir.NewConstantLoad.
func (f *Function) Constant(c constpool.Constant) *constpool.Constant {
	return f.pool.Intern(c)
}

// Imports declares the external symbols this function references (ARMCC's
// IMPORT directive; ignored for GAS).
func (f *Function) Imports(syms ...string) { f.imports = append(f.imports, syms...) }

// argumentSource resolves argIndex to the physical register its declared
// argument was placed in, for the liveness pass's ArgSource callback.
// Register-pair and stack placements report ok=false: they have no single
// physical GP source register to attribute the read to.
func (f *Function) argumentSource(argIndex int) (register.Register, bool) {
	if argIndex < 0 || argIndex >= len(f.Arguments) {
		return register.Register{}, false
	}
	p := f.Arguments[argIndex].Placement
	if p.OnStack || p.HasPair {
		return register.Register{}, false
	}
	return p.Reg, true
}
