package arch

// Microarchitecture describes a concrete ARM core purely by the extension
// set it implements. Assembler directive selection (package emit) derives
// ".cpu"/".arch"/".fpu" GAS directives and ARMCC REQUIRE lines from
// this extension set per spec.md 4.9 — it is not a per-core lookup table,
// so adding a core here only requires picking its extension set.
type Microarchitecture struct {
	Name       string
	Extensions Set
}

var (
	Default = Microarchitecture{
		Name:       "default",
		Extensions: setOf(V7),
	}
	CortexM0 = Microarchitecture{
		Name:       "cortex-m0",
		Extensions: setOf(V6, V6K, V7M, Thumb2),
	}
	CortexM0Plus = Microarchitecture{
		Name:       "cortex-m0plus",
		Extensions: setOf(V6, V6K, V7M, Thumb2),
	}
	CortexM1 = Microarchitecture{
		Name:       "cortex-m1",
		Extensions: setOf(V6, V6K, V7M, Thumb2),
	}
	CortexM3 = Microarchitecture{
		Name:       "cortex-m3",
		Extensions: setOf(V7, V7M, Thumb2, Div),
	}
	CortexM4 = Microarchitecture{
		Name:       "cortex-m4",
		Extensions: setOf(V7, V7M, V7MP, Thumb2, Div, DSP, VFP, VFP3, VFP4, VFPHP),
	}
	CortexM7 = Microarchitecture{
		Name:       "cortex-m7",
		Extensions: setOf(V7, V7M, V7MP, Thumb2, Div, DSP, VFP, VFP3, VFP4, VFPHP, VFPd32),
	}
	CortexA8 = Microarchitecture{
		Name:       "cortex-a8",
		Extensions: setOf(V7, Thumb2, Div, VFP, VFP3, NEON),
	}
	CortexA9 = Microarchitecture{
		Name:       "cortex-a9",
		Extensions: setOf(V7, V7MP, Thumb2, Div, DSP, VFP, VFP3, VFPHP, NEON, NEONHP),
	}
	CortexA15 = Microarchitecture{
		Name:       "cortex-a15",
		Extensions: setOf(V7, V7MP, Thumb2, Div, DSP, VFP, VFP3, VFP4, VFPHP, VFPd32, NEON, NEONHP, NEON2),
	}
)

// ByName resolves a microarchitecture catalogue entry by its Name field,
// for config-driven selection.
func ByName(name string) (Microarchitecture, bool) {
	for _, m := range []Microarchitecture{
		Default, CortexM0, CortexM0Plus, CortexM1, CortexM3, CortexM4, CortexM7,
		CortexA8, CortexA9, CortexA15,
	} {
		if m.Name == name {
			return m, true
		}
	}
	return Microarchitecture{}, false
}
