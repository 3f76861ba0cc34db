package git

import (
	"os/exec"
	"strings"
)

// CommandRunner executes external commands and captures their output.
// The real implementation shells out; tests inject a MockRunner.
type CommandRunner interface {
	// Run executes name with args in dir and returns trimmed combined output.
	Run(dir, name string, args ...string) (string, error)
}

// ExecRunner runs commands as real processes.
type ExecRunner struct{}

// NewExecRunner creates a runner backed by os/exec.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run implements CommandRunner.
func (r *ExecRunner) Run(dir, name string, args ...string) (string, error) {
	cmd := exec.Command(name, args...)
	if dir != "" {
		cmd.Dir = dir
	}

	out, err := cmd.CombinedOutput()
	output := strings.TrimSpace(string(out))
	if err != nil {
		return output, &CommandError{
			Command: name,
			Args:    args,
			Output:  output,
			Err:     err,
		}
	}
	return output, nil
}

// CommandError wraps a failed command with its captured output.
type CommandError struct {
	Command string   // Command name (e.g., "git")
	Args    []string // Arguments passed to the command
	Output  string   // Combined stdout/stderr output
	Err     error    // Underlying error (usually *exec.ExitError)
}

func (e *CommandError) Error() string {
	if e.Output != "" {
		return e.Output
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Command + " failed"
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// MockCall records a single invocation of MockRunner.Run.
type MockCall struct {
	Dir  string
	Name string
	Args []string
}

// MockRunner is a CommandRunner for tests. If RunFunc is set it decides the
// result; otherwise every command succeeds with empty output. All invocations
// are recorded in Calls.
type MockRunner struct {
	RunFunc func(dir, name string, args ...string) (string, error)
	Calls   []MockCall
}

// Run implements CommandRunner.
func (m *MockRunner) Run(dir, name string, args ...string) (string, error) {
	m.Calls = append(m.Calls, MockCall{Dir: dir, Name: name, Args: args})
	if m.RunFunc != nil {
		return m.RunFunc(dir, name, args...)
	}
	return "", nil
}

// CallArgs returns the argument lists of all recorded calls, one slice per
// call, with the command name omitted.
func (m *MockRunner) CallArgs() [][]string {
	out := make([][]string, len(m.Calls))
	for i, c := range m.Calls {
		out[i] = c.Args
	}
	return out
}
