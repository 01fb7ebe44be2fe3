package buildsvc

import (
	"testing"

	"github.com/nervapy-go/armgen/abi"
	"github.com/nervapy-go/armgen/arch"
	"github.com/nervapy-go/armgen/dialect"
	"github.com/nervapy-go/armgen/frame"
	"github.com/nervapy-go/armgen/function"
)

func beginTestFunction(t *testing.T, name string) *function.Function {
	t.Helper()
	fn, err := function.Begin(function.Config{
		Name:              name,
		Arguments:         []abi.ArgType{{Width: abi.Width32, Name: "a"}, {Width: abi.Width32, Name: "b"}},
		ABI:               abi.ArmGNUEABIHF,
		Target:            arch.Default,
		Dialect:           dialect.GAS,
		Strategy:          frame.Auto,
		ValidateAlignment: true,
	})
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	return fn
}

func TestTranslatorArithmeticChain(t *testing.T) {
	fn := beginTestFunction(t, "add_two")
	tr := newTranslator(fn)

	ops := []InstructionOp{
		{Op: "add", Dst: "sum", A: "arg:a", B: "arg:b"},
		{Op: "mov", Dst: "r0out", Src: "sum"},
	}
	for i, op := range ops {
		if err := tr.apply(op); err != nil {
			t.Fatalf("op %d (%s): %v", i, op.Op, err)
		}
	}
	if err := fn.Return(); err != nil {
		t.Fatalf("Return: %v", err)
	}

	res, err := fn.FinishDetailed()
	if err != nil {
		t.Fatalf("FinishDetailed: %v", err)
	}
	if res.Assembly == "" {
		t.Error("expected non-empty assembly")
	}
}

func TestTranslatorUnknownOp(t *testing.T) {
	fn := beginTestFunction(t, "bad_op")
	defer func() { _, _ = fn.FinishDetailed() }()

	tr := newTranslator(fn)
	if err := tr.apply(InstructionOp{Op: "frobnicate"}); err == nil {
		t.Error("expected error for unknown op")
	}
}

func TestTranslatorResolveReusesNames(t *testing.T) {
	fn := beginTestFunction(t, "reuse")
	defer func() { _, _ = fn.FinishDetailed() }()

	tr := newTranslator(fn)
	r1, err := tr.resolve("x")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	r2, err := tr.resolve("x")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !r1.Equal(r2) {
		t.Errorf("expected resolve(%q) to return the same register both times", "x")
	}
}

func TestResolveABIAndDialect(t *testing.T) {
	if a, err := resolveABI(""); err != nil || a != abi.ArmGNUEABIHF {
		t.Errorf("resolveABI(\"\") = %v, %v; want ArmGNUEABIHF, nil", a, err)
	}
	if _, err := resolveABI("bogus"); err == nil {
		t.Error("expected error for unknown abi")
	}
	if d, err := resolveDialect("armcc"); err != nil || d != dialect.ARMCC {
		t.Errorf("resolveDialect(\"armcc\") = %v, %v; want ARMCC, nil", d, err)
	}
	if _, err := resolveTarget("not-a-core"); err == nil {
		t.Error("expected error for unknown target")
	}
}
