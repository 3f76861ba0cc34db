package integrate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/randalmurphal/mergetrain/pr"
)

// Orchestration errors.
var (
	// ErrRunInProgress indicates persisted state already exists; starting a
	// new run is refused so two integrations never race on one checkout.
	ErrRunInProgress = errors.New("an integration run is already in progress")

	// ErrNoRunInProgress indicates --continue was requested with no
	// persisted state.
	ErrNoRunInProgress = errors.New("no integration run is in progress")
)

// RepositoryError indicates the configured repository path is missing or
// not a git repository.
type RepositoryError struct {
	Path string
	Err  error
}

func (e *RepositoryError) Error() string {
	return fmt.Sprintf("repository %s: %v", e.Path, e.Err)
}

func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// PullRequestFetchError indicates a configured PR could not be fetched
// from the code-hosting backend.
type PullRequestFetchError struct {
	Number int
	Err    error
}

func (e *PullRequestFetchError) Error() string {
	return fmt.Sprintf("fetch pull request #%d: %v", e.Number, e.Err)
}

func (e *PullRequestFetchError) Unwrap() error {
	return e.Err
}

// PullRequestStateError indicates a configured PR is not open and cannot
// be merged.
type PullRequestStateError struct {
	Number int
	State  pr.State
}

func (e *PullRequestStateError) Error() string {
	return fmt.Sprintf("pull request #%d is %s, must be open", e.Number, e.State)
}

// MergeConflictError indicates a merge stopped on content conflicts. The
// run pauses with the cursor at Index so the same PR is retried after
// manual resolution.
type MergeConflictError struct {
	Number int      // PR number whose merge conflicted
	Index  int      // Persisted cursor (position in merge order)
	Files  []string // Conflicted file paths, if known
	Err    error
}

func (e *MergeConflictError) Error() string {
	msg := fmt.Sprintf("merge of pull request #%d stopped on conflicts", e.Number)
	if len(e.Files) > 0 {
		msg += ": " + strings.Join(e.Files, ", ")
	}
	return msg
}

func (e *MergeConflictError) Unwrap() error {
	return e.Err
}

// BranchOperationError indicates a checkout, pull, fetch, or push failure
// unrelated to content conflicts. Inside the merge loop it pauses the run
// exactly like a conflict.
type BranchOperationError struct {
	Op     string
	Number int // PR number being processed, 0 if none
	Err    error
}

func (e *BranchOperationError) Error() string {
	if e.Number > 0 {
		return fmt.Sprintf("%s for pull request #%d: %v", e.Op, e.Number, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *BranchOperationError) Unwrap() error {
	return e.Err
}
