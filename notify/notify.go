// Package notify sends integration run lifecycle events to optional sinks:
// structured logs, webhooks, or fan-out combinations.
package notify

import (
	"context"
	"time"
)

// EventType represents the type of integration run event.
type EventType string

// Event type constants.
const (
	EventRunStarted     EventType = "run_started"
	EventRunResumed     EventType = "run_resumed"
	EventMergeCompleted EventType = "merge_completed"
	EventMergeConflict  EventType = "merge_conflict"
	EventPRCreated      EventType = "pr_created"
	EventPRUpdated      EventType = "pr_updated"
	EventRunCompleted   EventType = "run_completed"
	EventRunFailed      EventType = "run_failed"
)

// Severity constants for notifications.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// Event describes an integration run event for notification.
type Event struct {
	Type      EventType      `json:"type"`
	RunID     string         `json:"run_id"`
	Release   string         `json:"release,omitempty"`
	Message   string         `json:"message"`
	Severity  string         `json:"severity"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Notifier sends notifications about integration run events.
type Notifier interface {
	// Notify sends a notification. Implementations should handle errors
	// gracefully (log, don't crash the run).
	Notify(ctx context.Context, event Event) error
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

// Notify implements Notifier.
func (NopNotifier) Notify(ctx context.Context, event Event) error {
	return nil
}
