package ir

import (
	"testing"

	"github.com/nervapy-go/armgen/abi"
	"github.com/nervapy-go/armgen/register"
)

func TestNewArgumentsResolvesPlacementInOrder(t *testing.T) {
	args, err := NewArguments([]abi.ArgType{{Width: abi.Width32, Name: "a"}, {Width: abi.Width32, Name: "b"}})
	if err != nil {
		t.Fatalf("NewArguments: %v", err)
	}
	if len(args) != 2 || args[0].Name != "a" || args[1].Name != "b" {
		t.Fatalf("expected arguments in declared order, got %+v", args)
	}
	if args[0].Placement.OnStack || args[1].Placement.OnStack {
		t.Error("two 32-bit arguments should both be register-placed")
	}
}

func TestNewArgumentsPropagatesPlacementError(t *testing.T) {
	_, err := NewArguments([]abi.ArgType{{Width: 16, Name: "huge"}})
	if err == nil {
		t.Fatal("expected an error for an oversized argument width")
	}
}

func TestFindArgument(t *testing.T) {
	args, err := NewArguments([]abi.ArgType{{Width: abi.Width32, Name: "x"}})
	if err != nil {
		t.Fatalf("NewArguments: %v", err)
	}
	if _, ok := FindArgument(args, "x"); !ok {
		t.Error("expected to find declared argument x")
	}
	if _, ok := FindArgument(args, "y"); ok {
		t.Error("expected not to find an undeclared argument")
	}
}

func TestNewArgumentLoad(t *testing.T) {
	var c register.IDCounter
	dest := c.Next(register.GP)
	inst := NewArgumentLoad(2, dest)

	if inst.Kind != ArgumentLoad {
		t.Errorf("Kind = %v, want ArgumentLoad", inst.Kind)
	}
	if inst.ArgIndex != 2 || !inst.ArgDest.Equal(dest) {
		t.Errorf("unexpected ArgIndex/ArgDest: %+v", inst)
	}
}
