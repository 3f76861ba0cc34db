package git

import (
	"errors"
	"testing"
)

func TestExecRunner_Run_Success(t *testing.T) {
	runner := NewExecRunner()

	output, err := runner.Run("", "echo", "hello")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if output != "hello" {
		t.Errorf("output = %q, want %q", output, "hello")
	}
}

func TestExecRunner_Run_Error(t *testing.T) {
	runner := NewExecRunner()

	_, err := runner.Run("", "ls", "/nonexistent/path/that/does/not/exist")
	if err == nil {
		t.Fatal("expected error for nonexistent path")
	}

	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Errorf("error should be CommandError, got %T", err)
	}
}

func TestCommandError_Error(t *testing.T) {
	t.Run("with output", func(t *testing.T) {
		err := &CommandError{
			Command: "git",
			Args:    []string{"status"},
			Output:  "fatal: not a git repository",
			Err:     errors.New("exit status 128"),
		}

		if got, want := err.Error(), "fatal: not a git repository"; got != want {
			t.Errorf("Error() = %q, want %q", got, want)
		}
	})

	t.Run("without output", func(t *testing.T) {
		err := &CommandError{
			Command: "git",
			Args:    []string{"push"},
			Err:     errors.New("exit status 1"),
		}

		if got, want := err.Error(), "exit status 1"; got != want {
			t.Errorf("Error() = %q, want %q", got, want)
		}
	})

	t.Run("no output or error", func(t *testing.T) {
		err := &CommandError{Command: "git"}

		if got, want := err.Error(), "git failed"; got != want {
			t.Errorf("Error() = %q, want %q", got, want)
		}
	})
}

func TestMockRunner_RecordsCalls(t *testing.T) {
	runner := &MockRunner{}

	if _, err := runner.Run("/repo", "git", "checkout", "main"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, err := runner.Run("/repo", "git", "pull", "origin", "main"); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(runner.Calls) != 2 {
		t.Fatalf("recorded %d calls, want 2", len(runner.Calls))
	}
	if runner.Calls[0].Args[0] != "checkout" {
		t.Errorf("first call = %v, want checkout", runner.Calls[0].Args)
	}
	if runner.Calls[1].Dir != "/repo" {
		t.Errorf("dir = %q, want /repo", runner.Calls[1].Dir)
	}
}
