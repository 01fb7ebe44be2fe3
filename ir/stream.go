package ir

import (
	"fmt"

	"github.com/nervapy-go/armgen/arch"
)

// Stream is the append-only, function-scoped instruction sequence spec.md
// 4.1 describes. Instructions are only ever appended to it. The build
// pipeline in package function works on the slice Instructions returns:
// decomposition, prologue insertion and the peephole build new slices,
// while register rebinding rewrites the instructions in place.
type Stream struct {
	target arch.Microarchitecture
	insts  []*Instruction

	// onAppend, if set, is called for every instruction right after it
	// joins the stream (used by package function to feed the stack frame's
	// register-preservation tracking without a back-reference from Stream
	// to Function).
	onAppend func(*Instruction)
}

// NewStream creates an empty stream scoped to a build targeting `target`.
func NewStream(target arch.Microarchitecture) *Stream {
	return &Stream{target: target}
}

// OnAppend installs a hook invoked after every successful Append.
func (s *Stream) OnAppend(fn func(*Instruction)) { s.onAppend = fn }

// UnsupportedISAError is returned when an appended instruction requires an
// extension the stream's target microarchitecture lacks.
type UnsupportedISAError struct {
	Mnemonic   string
	Missing    arch.Extension
	TargetName string
}

func (e *UnsupportedISAError) Error() string {
	return fmt.Sprintf("instruction %q requires an ISA extension unsupported by target %q", e.Mnemonic, e.TargetName)
}

// extensionBits lists every bit value package arch defines, for checking
// "which required bit is missing" diagnostics.
var extensionBits = []arch.Extension{
	arch.Thumb2, arch.V5E, arch.V6, arch.V6K, arch.V7, arch.V7M, arch.V7MP,
	arch.Div, arch.DSP, arch.VFP, arch.VFP2, arch.VFP3, arch.VFPHP, arch.VFP4,
	arch.VFPd32, arch.NEON, arch.NEONHP, arch.NEON2,
}

// Append adds inst to the stream, rejecting it if the target lacks a
// required ISA extension (spec.md 4.1).
func (s *Stream) Append(inst *Instruction) error {
	for _, bit := range extensionBits {
		if inst.Extensions.Has(bit) && !s.target.Extensions.Has(bit) {
			return &UnsupportedISAError{Mnemonic: inst.Mnemonic, Missing: bit, TargetName: s.target.Name}
		}
	}
	s.insts = append(s.insts, inst)
	if s.onAppend != nil {
		s.onAppend(inst)
	}
	return nil
}

// Instructions returns the current instruction slice. Callers that build a
// new Stream (a rewrite pass) should use Rebuild, not mutate this slice.
func (s *Stream) Instructions() []*Instruction { return s.insts }

// Len returns the number of instructions currently in the stream.
func (s *Stream) Len() int { return len(s.insts) }

// Rebuild returns an empty Builder over the same target; a rewrite pass
// Emits its output instructions into it and calls Finish for the new
// Stream.
func (s *Stream) Rebuild() *Builder {
	return &Builder{target: s.target}
}

// Builder accumulates a fresh instruction slice for one rewrite pass.
type Builder struct {
	target arch.Microarchitecture
	out    []*Instruction
}

// Emit appends one or more instructions verbatim, bypassing ISA validation
// (validation already happened when the originals were appended to the
// pass's input stream).
func (b *Builder) Emit(insts ...*Instruction) {
	b.out = append(b.out, insts...)
}

// Finish returns the Stream built by this pass.
func (b *Builder) Finish() *Stream {
	return &Stream{target: b.target, insts: b.out}
}
