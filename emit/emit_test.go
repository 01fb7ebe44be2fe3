package emit

import (
	"strings"
	"testing"

	"github.com/nervapy-go/armgen/arch"
	"github.com/nervapy-go/armgen/constpool"
	"github.com/nervapy-go/armgen/dialect"
	"github.com/nervapy-go/armgen/ir"
	"github.com/nervapy-go/armgen/register"
)

func sampleInsts() []*ir.Instruction {
	return []*ir.Instruction{
		ir.NewLabel(ir.EntryLabelName),
		{Kind: ir.Plain, Mnemonic: "MOV", Inputs: []register.Register{register.R(1)}, Outputs: []register.Register{register.R(0)}},
		ir.NewBranch("B", "done", false),
		ir.NewLabel("done"),
		{Kind: ir.Plain, Mnemonic: "BX", Inputs: []register.Register{register.LR}},
	}
}

func TestRenderGASIncludesDirectivesAndLabel(t *testing.T) {
	out := Render(sampleInsts(), nil, Options{FunctionName: "add_one", Dialect: dialect.GAS, Target: arch.Default})
	if !strings.Contains(out, ".syntax unified") {
		t.Error("GAS output should start with .syntax unified")
	}
	if !strings.Contains(out, ".global add_one") {
		t.Error("GAS output should declare the function global")
	}
	if !strings.Contains(out, "Ladd_one.done:") {
		t.Errorf("GAS output should render the non-entry label dotted, got:\n%s", out)
	}
	if !strings.Contains(out, "\tB Ladd_one.done") {
		t.Errorf("GAS output should render the branch target formatted the same way, got:\n%s", out)
	}
}

func TestRenderARMCCUsesProcEndpAndUnderscoreLabels(t *testing.T) {
	out := Render(sampleInsts(), nil, Options{FunctionName: "add_one", Dialect: dialect.ARMCC, Target: arch.Default, Imports: []string{"memcpy", "memcpy"}})
	if !strings.Contains(out, "AREA ||.text||, CODE, READONLY") {
		t.Errorf("ARMCC output should use the literal ||.text|| area name, got:\n%s", out)
	}
	if !strings.Contains(out, "add_one PROC") {
		t.Error("ARMCC output should open with a PROC line")
	}
	if !strings.Contains(out, "\tENDP") {
		t.Error("ARMCC output should close with ENDP")
	}
	if !strings.Contains(out, "add_one_done\n") {
		t.Errorf("ARMCC output should render the label underscore-joined, got:\n%s", out)
	}
	if strings.Count(out, "IMPORT memcpy") != 1 {
		t.Error("ARMCC output should dedupe repeated imports")
	}
	if !strings.Contains(out, "EXPORT add_one") {
		t.Error("ARMCC output should EXPORT the function name")
	}
}

func TestRenderARMCCEmitsRequireAndConstdataArea(t *testing.T) {
	pool := constpool.New()
	pool.Intern(constpool.Constant{Bytes: []byte{1, 2, 3, 4}, Size: 4, Repeat: 1, Alignment: 4})

	out := Render(sampleInsts(), pool, Options{FunctionName: "f", Dialect: dialect.ARMCC, Target: arch.CortexA8, Preserve8: true})
	if !strings.Contains(out, "\tPRESERVE8\n") {
		t.Errorf("ARMCC output should emit PRESERVE8 when requested, got:\n%s", out)
	}
	if !strings.Contains(out, "REQUIRE VFPv3") {
		t.Errorf("ARMCC output should emit the target's REQUIRE line, got:\n%s", out)
	}
	if !strings.Contains(out, "AREA ||.constdata||, DATA, READONLY") {
		t.Errorf("ARMCC output should use the literal ||.constdata|| area name, got:\n%s", out)
	}
}

func TestCpuDirectivePrefersMostSpecificCore(t *testing.T) {
	lines := cpuDirective(arch.CortexA15.Extensions)
	if len(lines) == 0 || lines[0] != ".cpu cortex-a15" {
		t.Errorf("expected cortex-a15 to pick the most specific .cpu line, got %v", lines)
	}

	fallback := cpuDirective(arch.Set(0))
	if len(fallback) == 0 || fallback[0] != ".arch armv5t" {
		t.Errorf("expected an empty extension set to fall back to armv5t, got %v", fallback)
	}
}

func TestRenderEmitsConstantPoolSection(t *testing.T) {
	pool := constpool.New()
	pool.Intern(constpool.Constant{Bytes: []byte{1, 2, 3, 4}, Size: 4, Repeat: 1, Alignment: 4})

	out := Render(sampleInsts(), pool, Options{FunctionName: "f", Dialect: dialect.GAS, Target: arch.Default})
	if !strings.Contains(out, ".section .rodata") {
		t.Error("GAS output should include a .rodata section when the pool is non-empty")
	}
	if !strings.Contains(out, "c0:") {
		t.Error("GAS output should label the interned constant")
	}
}

func TestFormatLabelEntryIsBareFunctionName(t *testing.T) {
	if got := formatLabel(dialect.GAS, "f", ir.EntryLabelName); got != "f" {
		t.Errorf("formatLabel entry = %q, want f", got)
	}
	if got := formatLabel(dialect.ARMCC, "f", ir.EntryLabelName); got != "f" {
		t.Errorf("formatLabel entry (ARMCC) = %q, want f", got)
	}
}
