package ir

import (
	"github.com/nervapy-go/armgen/constpool"
	"github.com/nervapy-go/armgen/register"
)

// NewConstantLoad constructs the pseudo-instruction that materializes a
// pool constant's address into dest, lowered to "LDR dest, =<label>"-style
// PC-relative load once the constant pool assigns labels during emission.
func NewConstantLoad(mnemonic string, dest register.Register, c *constpool.Constant) *Instruction {
	return &Instruction{
		Kind:     ConstantLoad,
		Mnemonic: mnemonic,
		Outputs:  []register.Register{dest},
		Constant: c,
	}
}

// NewAssumeInitialized marks r as already defined, without itself reading
// or writing anything observable, for the available-registers pass.
func NewAssumeInitialized(r register.Register) *Instruction {
	return &Instruction{Kind: AssumeInitialized, Outputs: []register.Register{r}}
}
