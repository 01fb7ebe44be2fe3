package armerr

import (
	"errors"
	"strings"
	"testing"
)

func TestWrapIncludesFunctionAndMessage(t *testing.T) {
	underlying := errors.New("boom")
	err := Wrap(NoEntry, "myfunc", "something broke", underlying)

	msg := err.Error()
	if !strings.Contains(msg, "myfunc") {
		t.Errorf("Error() should mention the function name, got %q", msg)
	}
	if !strings.Contains(msg, "something broke") {
		t.Errorf("Error() should mention the message, got %q", msg)
	}
	if !strings.Contains(msg, "boom") {
		t.Errorf("Error() should mention the wrapped error, got %q", msg)
	}
}

func TestWrapWithoutFunctionNameOmitsIt(t *testing.T) {
	err := Wrap(NestedBuild, "", "no function yet", nil)
	if strings.Contains(err.Error(), `function ""`) {
		t.Errorf("Error() should not print an empty function clause, got %q", err.Error())
	}
}

func TestUnwrapSupportsErrorsIs(t *testing.T) {
	sentinel := errors.New("sentinel")
	err := Wrap(RegisterAllocation, "f", "alloc failed", sentinel)

	if !errors.Is(err, sentinel) {
		t.Error("errors.Is should see through Wrap to the underlying sentinel error")
	}
}

func TestKindStringCoversEveryValue(t *testing.T) {
	kinds := []Kind{
		UnsupportedISA, UnsupportedArgument, NestedBuild, NoEntry,
		RegisterAllocation, StackAlignment, UnknownArgument,
	}
	seen := make(map[string]bool)
	for _, k := range kinds {
		s := k.String()
		if s == "" || s == "Unknown" {
			t.Errorf("Kind %d should have a named String(), got %q", k, s)
		}
		seen[s] = true
	}
	if len(seen) != len(kinds) {
		t.Error("every Kind should have a distinct String() representation")
	}
}
