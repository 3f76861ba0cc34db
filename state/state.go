// Package state persists integration run progress so an interrupted run can
// resume deterministically. At most one persisted state exists per store;
// its presence means a run is in progress.
package state

import (
	"errors"
	"time"

	"github.com/randalmurphal/mergetrain/config"
)

// ErrNotFound indicates no persisted run state exists.
var ErrNotFound = errors.New("no persisted run state")

// Persisted is the durable snapshot of an integration run. NextPRIndex is
// the cursor of the first not-yet-merged PR: after a successful merge of
// PR i it holds i+1, after a failed merge it stays at i so the failed PR is
// retried on resume.
type Persisted struct {
	RunID       string              `json:"runId"`
	Config      config.Integration  `json:"config"`
	NextPRIndex int                 `json:"nextPrIndex"`
	Timestamp   time.Time           `json:"timestamp"`
}

// Store owns the persisted state lifecycle. The orchestrator is its only
// client; tests substitute MemoryStore.
type Store interface {
	// Exists reports whether a run is in progress.
	Exists() bool

	// Load returns the persisted state, or ErrNotFound.
	Load() (*Persisted, error)

	// Save writes the state, replacing any previous snapshot.
	Save(*Persisted) error

	// Delete removes the state. Deleting absent state is not an error.
	Delete() error
}
