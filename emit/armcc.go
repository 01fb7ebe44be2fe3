package emit

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nervapy-go/armgen/arch"
	"github.com/nervapy-go/armgen/constpool"
	"github.com/nervapy-go/armgen/ir"
)

// renderARMCC renders the ARM Compiler assembler dialect: AREA/PROC/ENDP
// framing, IMPORT lines for external symbols, and underscore-joined labels
// (ARMCC rejects dots in label names), matching
// original_source/nervapy's _generate_armcc_assembly.
func renderARMCC(insts []*ir.Instruction, pool *constpool.Pool, opts Options) string {
	var b strings.Builder

	if opts.IsThumb {
		b.WriteString("\tTHUMB\n")
	}

	fmt.Fprintf(&b, "\tAREA ||.text||, CODE, READONLY")
	if opts.Alignment > 0 {
		fmt.Fprintf(&b, ", ALIGN=%d", opts.Alignment)
	}
	b.WriteString("\n")
	if opts.Preserve8 {
		b.WriteString("\tPRESERVE8\n")
	}
	if fpu := armccFPUSpec(opts.Target.Extensions); fpu != "" {
		b.WriteString("\t" + fpu + "\n")
	}

	for _, sym := range dedupeSortedImports(opts.Imports) {
		fmt.Fprintf(&b, "\tIMPORT %s\n", sym)
	}

	fmt.Fprintf(&b, "\tEXPORT %s\n", opts.FunctionName)
	fmt.Fprintf(&b, "%s PROC\n", opts.FunctionName)

	for _, inst := range insts {
		switch inst.Kind {
		case ir.LabelKind:
			if inst.Name == ir.EntryLabelName {
				continue // the PROC line above already marks the entry point
			}
			b.WriteString(formatLabel(opts.Dialect, opts.FunctionName, inst.Name) + "\n")
		case ir.Branch:
			if inst.Target == "" {
				// A lowered return ("BX lr") branches to a register, not a label.
				b.WriteString(instructionLine(inst) + "\n")
				continue
			}
			fmt.Fprintf(&b, "\t%s %s\n", inst.Mnemonic, formatLabel(opts.Dialect, opts.FunctionName, inst.Target))
		default:
			b.WriteString(instructionLine(inst) + "\n")
		}
	}

	fmt.Fprintf(&b, "\tENDP\n")

	if pool != nil && !pool.Empty() {
		b.WriteString("\n\tAREA ||.constdata||, DATA, READONLY\n")
		for _, bucket := range pool.Buckets() {
			fmt.Fprintf(&b, "\tALIGN %d\n", alignLog2(bucket.Alignment))
			for _, c := range bucket.Constants {
				fmt.Fprintf(&b, "%s\n", c.Label())
				writeConstantBytesARMCC(&b, c)
			}
		}
	}

	b.WriteString("\tEND\n")

	return b.String()
}

// armccFPUSpec mirrors armcc_fpu_spec's REQUIRE-directive priority chain.
func armccFPUSpec(set arch.Set) string {
	switch {
	case set.Has(arch.NEON2), set.Has(arch.VFP4):
		return "REQUIRE VFPv4"
	case set.Has(arch.NEONHP), set.Has(arch.VFPHP, arch.NEON):
		return "REQUIRE VFPv3_FP16"
	case set.Has(arch.NEON):
		return "REQUIRE VFPv3"
	case set.Has(arch.VFPHP):
		return "REQUIRE VFPv3_FP16"
	case set.Has(arch.VFP3):
		return "REQUIRE VFPv3"
	case set.Has(arch.VFP), set.Has(arch.VFP2):
		return "REQUIRE VFPv2"
	default:
		return ""
	}
}

// dedupeSortedImports implements spec.md's IMPORT.FUNCTION requirement:
// external symbols referenced by a function are deduplicated and emitted in
// sorted order, regardless of call order.
func dedupeSortedImports(syms []string) []string {
	seen := make(map[string]bool, len(syms))
	var out []string
	for _, s := range syms {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}

func writeConstantBytesARMCC(b *strings.Builder, c *constpool.Constant) {
	directive := armccDirective(c.Size)
	for rep := 0; rep < c.Repeat; rep++ {
		fmt.Fprintf(b, "\tDC%s 0x%s\n", directive, hexLE(c.Bytes))
	}
}

func armccDirective(size int) string {
	switch size {
	case 1:
		return "B"
	case 2:
		return "W"
	case 8:
		return "D"
	default:
		return "D"
	}
}
