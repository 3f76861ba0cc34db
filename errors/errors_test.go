package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestCLIError_Error(t *testing.T) {
	err := &CLIError{
		Message:    "Merge stopped on conflicts.",
		Suggestion: "Resolve the conflicts, then run mergetrain --continue.",
	}

	got := err.Error()
	if !strings.HasPrefix(got, "Merge stopped on conflicts.") {
		t.Errorf("Error() = %q", got)
	}
	if !strings.Contains(got, "mergetrain --continue") {
		t.Errorf("Error() should include the suggestion: %q", got)
	}
}

func TestCLIError_WithDetails(t *testing.T) {
	base := New(nil, "msg", "hint")
	detailed := base.WithDetails("conflicts in: main.go")

	if base.Details != "" {
		t.Error("WithDetails must not mutate the original")
	}
	if !strings.Contains(detailed.Error(), "conflicts in: main.go") {
		t.Errorf("Error() = %q", detailed.Error())
	}
}

func TestCLIError_Unwrap(t *testing.T) {
	inner := stderrors.New("boom")
	err := New(inner, "msg", "")

	if !stderrors.Is(err, inner) {
		t.Error("CLIError should unwrap to the inner error")
	}
}
