package function

import (
	"strings"
	"testing"

	"github.com/nervapy-go/armgen/abi"
	"github.com/nervapy-go/armgen/arch"
	"github.com/nervapy-go/armgen/catalog"
	"github.com/nervapy-go/armgen/dialect"
	"github.com/nervapy-go/armgen/frame"
	"github.com/nervapy-go/armgen/function/armerr"
	"github.com/nervapy-go/armgen/register"
)

func baseConfig(name string) Config {
	return Config{
		Name:              name,
		Arguments:         []abi.ArgType{{Width: abi.Width32, Name: "arg0"}, {Width: abi.Width32, Name: "arg1"}},
		ABI:               abi.ArmGNUEABIHF,
		Target:            arch.Default,
		Dialect:           dialect.GAS,
		Strategy:          frame.Auto,
		ValidateAlignment: true,
	}
}

func TestBeginRejectsNestedBuild(t *testing.T) {
	fn, err := Begin(baseConfig("first"))
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	defer fn.Finish()

	_, err = Begin(baseConfig("second"))
	if err == nil {
		t.Fatal("expected NestedBuild error while a build is in progress")
	}
	aerr, ok := err.(*armerr.Error)
	if !ok || aerr.Kind != armerr.NestedBuild {
		t.Errorf("expected armerr.NestedBuild, got %v", err)
	}
}

func TestBeginSucceedsAfterPriorFinish(t *testing.T) {
	fn, err := Begin(baseConfig("once"))
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if _, err := fn.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	again, err := Begin(baseConfig("again"))
	if err != nil {
		t.Fatalf("Begin after Finish should succeed, got %v", err)
	}
	defer again.Finish()
}

func TestLoadArgumentUnknownNameFails(t *testing.T) {
	fn, err := Begin(baseConfig("args"))
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	defer fn.Finish()

	_, err = fn.LoadArgument("nope")
	if err == nil {
		t.Fatal("expected UnknownArgument error")
	}
	if aerr, ok := err.(*armerr.Error); !ok || aerr.Kind != armerr.UnknownArgument {
		t.Errorf("expected armerr.UnknownArgument, got %v", err)
	}
}

func TestSimpleFunctionProducesAssembly(t *testing.T) {
	fn, err := Begin(baseConfig("add_two"))
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}

	a, err := fn.LoadArgument("arg0")
	if err != nil {
		t.Fatalf("LoadArgument: %v", err)
	}
	b, err := fn.LoadArgument("arg1")
	if err != nil {
		t.Fatalf("LoadArgument: %v", err)
	}
	sum := fn.NewVirtual(register.GP)
	if err := fn.Emit(catalog.ADD(sum, a, b)); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if err := fn.Return(); err != nil {
		t.Fatalf("Return: %v", err)
	}

	asm, err := fn.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if !strings.Contains(asm, "add_two") {
		t.Errorf("assembly should reference the function name, got:\n%s", asm)
	}
	if !strings.Contains(asm, "BX lr") {
		t.Errorf("assembly should end in a BX lr return, got:\n%s", asm)
	}
}

func TestFinishDetailedReturnsStructuredResult(t *testing.T) {
	fn, err := Begin(baseConfig("detail"))
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := fn.Return(); err != nil {
		t.Fatalf("Return: %v", err)
	}
	res, err := fn.FinishDetailed()
	if err != nil {
		t.Fatalf("FinishDetailed: %v", err)
	}
	if res.Assembly == "" {
		t.Error("expected non-empty rendered assembly")
	}
	if res.Frame == nil || res.Pool == nil {
		t.Error("expected Frame and Pool to be populated")
	}
}
