package buildsvc

import (
	"fmt"
	"strings"

	"github.com/nervapy-go/armgen/abi"
	"github.com/nervapy-go/armgen/catalog"
	"github.com/nervapy-go/armgen/function"
	"github.com/nervapy-go/armgen/register"
)

// argSpecsToABI converts the wire ArgumentSpec list to abi.ArgType.
func argSpecsToABI(specs []ArgumentSpec) []abi.ArgType {
	out := make([]abi.ArgType, len(specs))
	for i, s := range specs {
		out[i] = abi.ArgType{Width: abi.Width(s.Width), Name: s.Name}
	}
	return out
}

// translator runs a request's instruction list against a live Function
// build, tracking the named virtual registers operations refer to.
type translator struct {
	fn   *function.Function
	regs map[string]register.Register
}

func newTranslator(fn *function.Function) *translator {
	return &translator{fn: fn, regs: make(map[string]register.Register)}
}

// resolve looks up an already-bound name, loads a declared argument for an
// "arg:<name>" reference, or allocates a fresh virtual GP register the
// first time a destination name is seen.
func (t *translator) resolve(name string) (register.Register, error) {
	if name == "" {
		return register.Register{}, fmt.Errorf("empty register reference")
	}
	if r, ok := t.regs[name]; ok {
		return r, nil
	}
	if argName, ok := strings.CutPrefix(name, "arg:"); ok {
		r, err := t.fn.LoadArgument(argName)
		if err != nil {
			return register.Register{}, err
		}
		t.regs[name] = r
		return r, nil
	}
	r := t.fn.NewVirtual(register.GP)
	t.regs[name] = r
	return r, nil
}

// apply translates and emits one op, returning an error for a malformed or
// rejected one.
func (t *translator) apply(op InstructionOp) error {
	switch strings.ToLower(op.Op) {
	case "label":
		return t.fn.Label(op.Label)
	case "branch":
		return t.fn.Branch(strings.ToUpper(op.Op), op.Target, op.Cond)
	case "b", "beq", "bne", "bgt", "blt", "bge", "ble":
		return t.fn.Branch(strings.ToUpper(op.Op), op.Target, op.Cond)
	case "return", "ret":
		return t.fn.Return()
	case "movimm":
		dst, err := t.resolve(op.Dst)
		if err != nil {
			return err
		}
		if op.Imm == nil {
			return fmt.Errorf("movimm requires imm")
		}
		return t.fn.Emit(catalog.MOVImm(dst, *op.Imm))
	case "mov":
		dst, src, err := t.pair(op.Dst, op.Src)
		if err != nil {
			return err
		}
		return t.fn.Emit(catalog.MOV(dst, src))
	case "add":
		dst, a, b, err := t.triple(op.Dst, op.A, op.B)
		if err != nil {
			return err
		}
		return t.fn.Emit(catalog.ADD(dst, a, b))
	case "sub":
		dst, a, b, err := t.triple(op.Dst, op.A, op.B)
		if err != nil {
			return err
		}
		return t.fn.Emit(catalog.SUB(dst, a, b))
	case "and":
		dst, a, b, err := t.triple(op.Dst, op.A, op.B)
		if err != nil {
			return err
		}
		return t.fn.Emit(catalog.AND(dst, a, b))
	case "orr":
		dst, a, b, err := t.triple(op.Dst, op.A, op.B)
		if err != nil {
			return err
		}
		return t.fn.Emit(catalog.ORR(dst, a, b))
	case "mul":
		dst, a, b, err := t.triple(op.Dst, op.A, op.B)
		if err != nil {
			return err
		}
		return t.fn.Emit(catalog.MUL(dst, a, b))
	case "cmp":
		a, err := t.resolve(op.A)
		if err != nil {
			return err
		}
		b, err := t.resolve(op.B)
		if err != nil {
			return err
		}
		return t.fn.Emit(catalog.CMP(a, b))
	case "ldr":
		dst, base, err := t.pair(op.Dst, op.Base)
		if err != nil {
			return err
		}
		off := int32(0)
		if op.Imm != nil {
			off = *op.Imm
		}
		return t.fn.Emit(catalog.LDR(dst, base, off, nil))
	case "str":
		src, base, err := t.pair(op.Src, op.Base)
		if err != nil {
			return err
		}
		off := int32(0)
		if op.Imm != nil {
			off = *op.Imm
		}
		return t.fn.Emit(catalog.STR(src, base, off))
	case "bx":
		target, err := t.resolve(op.Src)
		if err != nil {
			return err
		}
		return t.fn.Emit(catalog.BX(target))
	default:
		return fmt.Errorf("unknown instruction op: %q", op.Op)
	}
}

func (t *translator) pair(first, second string) (register.Register, register.Register, error) {
	a, err := t.resolve(first)
	if err != nil {
		return register.Register{}, register.Register{}, err
	}
	b, err := t.resolve(second)
	if err != nil {
		return register.Register{}, register.Register{}, err
	}
	return a, b, nil
}

func (t *translator) triple(dst, a, b string) (register.Register, register.Register, register.Register, error) {
	d, err := t.resolve(dst)
	if err != nil {
		return register.Register{}, register.Register{}, register.Register{}, err
	}
	ra, err := t.resolve(a)
	if err != nil {
		return register.Register{}, register.Register{}, register.Register{}, err
	}
	rb, err := t.resolve(b)
	if err != nil {
		return register.Register{}, register.Register{}, register.Register{}, err
	}
	return d, ra, rb, nil
}
