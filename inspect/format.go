package inspect

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nervapy-go/armgen/register"
)

// formatRegSet renders a liveness/availability register set (keyed by
// register.Key, so virtual and physical entries of the same numeric id
// don't collide) as a sorted, comma-separated list.
func formatRegSet(set map[register.Key]register.Register) string {
	if len(set) == 0 {
		return "(empty)"
	}
	names := make([]string, 0, len(set))
	for _, r := range set {
		names = append(names, r.String())
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func regList(regs []register.Register) string {
	if len(regs) == 0 {
		return "(none)"
	}
	names := make([]string, len(regs))
	for i, r := range regs {
		names[i] = r.String()
	}
	return fmt.Sprintf("{%s}", strings.Join(names, ", "))
}
