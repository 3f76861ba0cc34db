package integrate

import (
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/randalmurphal/mergetrain/config"
	"github.com/randalmurphal/mergetrain/pr"
)

// Phase is a state of the orchestration state machine.
type Phase string

// State machine phases. ConflictPaused is an external-resume state: the
// process exits and a later invocation re-enters Merging at the persisted
// cursor.
const (
	PhaseIdle             Phase = "idle"
	PhaseValidating       Phase = "validating"
	PhaseBranchReady      Phase = "branch_ready"
	PhaseMerging          Phase = "merging"
	PhaseConflictPaused   Phase = "conflict_paused"
	PhaseAllMerged        Phase = "all_merged"
	PhasePullRequestReady Phase = "pull_request_ready"
	PhaseDone             Phase = "done"
)

// Session is the ephemeral state of one integration run: the validated
// config, the eligible sub-PRs in merge order, and the cursor of the first
// not-yet-merged PR.
type Session struct {
	RunID       string
	Config      config.Integration
	PRs         []*pr.PullRequest
	NextPRIndex int
}

// runIDAlphabet keeps run IDs lowercase so they read well in branch-like
// contexts and log lines.
const runIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// newRunID creates a unique run ID like "2026-08-28-x7k2m9qa".
func newRunID() string {
	suffix, err := gonanoid.Generate(runIDAlphabet, 8)
	if err != nil {
		// Fallback to timestamp-based suffix on entropy failure
		suffix = fmt.Sprintf("%x", time.Now().UnixNano())
	}
	return time.Now().Format("2006-01-02") + "-" + suffix
}
