package emit

import (
	"fmt"
	"strings"

	"github.com/nervapy-go/armgen/arch"
	"github.com/nervapy-go/armgen/constpool"
	"github.com/nervapy-go/armgen/ir"
)

// cpuDirective picks the GAS ".cpu"/".arch"/".fpu" directive chain from the
// target's extension set, matching original_source/nervapy's
// gnu_arch_spec/gnu_fpu_spec priority chains exactly.
func cpuDirective(set arch.Set) []string {
	var lines []string
	switch {
	case set.Has(arch.Div):
		lines = append(lines, ".cpu cortex-a15")
	case set.Has(arch.V7MP):
		lines = append(lines, ".cpu cortex-a9")
	case set.Has(arch.V7M):
		lines = append(lines, ".arch armv7-m")
	case set.Has(arch.V7):
		lines = append(lines, ".arch armv7-a")
	case set.Has(arch.V6K):
		lines = append(lines, ".arch armv6zk")
	case set.Has(arch.V6):
		lines = append(lines, ".arch armv6")
	case set.Has(arch.V5E):
		lines = append(lines, ".arch armv5te")
	default:
		lines = append(lines, ".arch armv5t")
	}
	if fpu := gnuFPUSpec(set); fpu != "" {
		lines = append(lines, fpu)
	}
	return lines
}

// gnuFPUSpec mirrors gnu_fpu_spec: VFP/VFP2 alone get no ".fpu" directive
// at all (the base FPU is implied by the .cpu/.arch line).
func gnuFPUSpec(set arch.Set) string {
	switch {
	case set.Has(arch.NEON2), set.Has(arch.VFP4):
		return ".fpu neon-vfpv4"
	case set.Has(arch.NEONHP), set.Has(arch.VFPHP, arch.NEON):
		return ".fpu neon-fp16"
	case set.Has(arch.NEON):
		return ".fpu neon"
	case set.Has(arch.VFPHP):
		if set.Has(arch.VFPd32) {
			return ".fpu vfpv3-fp16"
		}
		return ".fpu vfpv3-d16-fp16"
	case set.Has(arch.VFP3):
		if set.Has(arch.VFPd32) {
			return ".fpu vfpv3"
		}
		return ".fpu vfpv3-d16"
	default:
		return ""
	}
}

func renderGAS(insts []*ir.Instruction, pool *constpool.Pool, opts Options) string {
	var b strings.Builder

	b.WriteString(".syntax unified\n")
	for _, l := range cpuDirective(opts.Target.Extensions) {
		b.WriteString(l + "\n")
	}
	if opts.IsThumb {
		b.WriteString(".thumb\n")
	}
	b.WriteString(".text\n")
	if opts.Alignment > 0 {
		fmt.Fprintf(&b, ".align %d\n", opts.Alignment)
	}
	fmt.Fprintf(&b, ".global %s\n", opts.FunctionName)
	fmt.Fprintf(&b, ".type %s, %%function\n", opts.FunctionName)

	for _, inst := range insts {
		switch inst.Kind {
		case ir.LabelKind:
			b.WriteString(formatLabel(opts.Dialect, opts.FunctionName, inst.Name) + ":\n")
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

	fmt.Fprintf(&b, ".size %s, .-%s\n", opts.FunctionName, opts.FunctionName)

	if pool != nil && !pool.Empty() {
		fmt.Fprintf(&b, "\n.section .rodata.%s\n", opts.Target.Name)
		for _, bucket := range pool.Buckets() {
			fmt.Fprintf(&b, ".align %d\n", alignLog2(bucket.Alignment))
			for _, c := range bucket.Constants {
				fmt.Fprintf(&b, "%s:\n", c.Label())
				writeConstantBytesGAS(&b, c)
			}
		}
	}

	return b.String()
}

func alignLog2(n int) int {
	shift := 0
	for n > 1 {
		n >>= 1
		shift++
	}
	return shift
}

func writeConstantBytesGAS(b *strings.Builder, c *constpool.Constant) {
	directive := byteDirective(c.Size)
	for rep := 0; rep < c.Repeat; rep++ {
		fmt.Fprintf(b, "\t%s 0x%s\n", directive, hexLE(c.Bytes))
	}
}

func byteDirective(size int) string {
	switch size {
	case 1:
		return ".byte"
	case 2:
		return ".hword"
	case 8:
		return ".quad"
	default:
		return ".word"
	}
}

func hexLE(b []byte) string {
	var sb strings.Builder
	for i := len(b) - 1; i >= 0; i-- {
		fmt.Fprintf(&sb, "%02x", b[i])
	}
	return sb.String()
}
