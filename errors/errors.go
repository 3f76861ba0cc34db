// Package errors provides user-facing error presentation for the CLI:
// wrapping internal errors with a plain message and an actionable
// suggestion for the operator.
package errors

import "strings"

// CLIError wraps an error with user-friendly context and suggestions.
type CLIError struct {
	// Err is the underlying error
	Err error

	// Message is a user-friendly description of what went wrong
	Message string

	// Suggestion is an actionable hint for the user
	Suggestion string

	// Details provides additional context (optional)
	Details string
}

func (e *CLIError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Message)

	if e.Details != "" {
		sb.WriteString("\n")
		sb.WriteString(e.Details)
	}

	if e.Suggestion != "" {
		sb.WriteString("\n\n")
		sb.WriteString(e.Suggestion)
	}

	return sb.String()
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

// New creates a CLIError with a message and suggestion.
func New(err error, message, suggestion string) *CLIError {
	return &CLIError{
		Err:        err,
		Message:    message,
		Suggestion: suggestion,
	}
}

// WithDetails returns a copy of the error carrying extra context lines.
func (e *CLIError) WithDetails(details string) *CLIError {
	cp := *e
	cp.Details = details
	return &cp
}
