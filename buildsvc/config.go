package buildsvc

import (
	"fmt"
	"strings"

	"github.com/nervapy-go/armgen/abi"
	"github.com/nervapy-go/armgen/arch"
	"github.com/nervapy-go/armgen/dialect"
	"github.com/nervapy-go/armgen/frame"
)

func resolveABI(name string) (abi.ABI, error) {
	switch strings.ToLower(name) {
	case "", "arm_gnueabihf":
		return abi.ArmGNUEABIHF, nil
	case "arm_gnueabi":
		return abi.ArmGNUEABI, nil
	default:
		return 0, fmt.Errorf("unknown abi: %q", name)
	}
}

func resolveTarget(name string) (arch.Microarchitecture, error) {
	if name == "" {
		return arch.Default, nil
	}
	m, ok := arch.ByName(name)
	if !ok {
		return arch.Microarchitecture{}, fmt.Errorf("unknown target microarchitecture: %q", name)
	}
	return m, nil
}

func resolveDialect(name string) (dialect.Dialect, error) {
	switch strings.ToLower(name) {
	case "", "gas":
		return dialect.GAS, nil
	case "armcc":
		return dialect.ARMCC, nil
	default:
		return 0, fmt.Errorf("unknown dialect: %q", name)
	}
}

func resolveHighRegStrategy(name string) (frame.HighRegisterStrategy, error) {
	switch strings.ToLower(name) {
	case "", "auto":
		return frame.Auto, nil
	case "push_w", "pushw":
		return frame.PushW, nil
	case "stmdb":
		return frame.STMDB, nil
	default:
		return 0, fmt.Errorf("unknown high register strategy: %q", name)
	}
}
