package ir

import (
	"github.com/nervapy-go/armgen/abi"
	"github.com/nervapy-go/armgen/register"
)

// Argument is a declared function argument: its ABI type and, once
// function construction resolves the signature, exactly one placement
// (register, register pair, or stack slot).
type Argument struct {
	Name      string
	Type      abi.ArgType
	Placement abi.Placement
}

// NewArguments builds the declared-argument list and resolves ABI
// placement in one step; returned in the same order as declared. Set once
// at function construction (spec.md 3 "Argument … Lifecycle").
func NewArguments(types []abi.ArgType) ([]Argument, error) {
	placements, err := abi.PlaceArguments(types)
	if err != nil {
		return nil, err
	}
	args := make([]Argument, len(types))
	for i, t := range types {
		args[i] = Argument{Name: t.Name, Type: t, Placement: placements[i]}
	}
	return args, nil
}

// FindArgument looks up a declared argument by name, returning ok=false if
// none match (spec.md 7 "UnknownArgument").
func FindArgument(args []Argument, name string) (Argument, bool) {
	for _, a := range args {
		if a.Name == name {
			return a, true
		}
	}
	return Argument{}, false
}

// NewArgumentLoad constructs the pseudo-instruction that, once lowered,
// materializes argument argIndex into a fresh destination virtual
// register.
func NewArgumentLoad(argIndex int, dest register.Register) *Instruction {
	return &Instruction{Kind: ArgumentLoad, ArgIndex: argIndex, ArgDest: dest}
}
