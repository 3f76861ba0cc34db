package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestWebhookNotifier(t *testing.T) {
	var received Event
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Content-Type = %q", r.Header.Get("Content-Type"))
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := NewWebhookNotifier(server.URL, map[string]string{"X-Token": "t"})
	event := Event{
		Type:      EventMergeConflict,
		RunID:     "run-1",
		Release:   "release-2026-08",
		Message:   "merge of PR #20362 stopped on conflicts",
		Severity:  SeverityWarning,
		Timestamp: time.Now(),
	}

	if err := n.Notify(context.Background(), event); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if received.Type != EventMergeConflict || received.RunID != "run-1" {
		t.Errorf("received = %+v", received)
	}
}

func TestWebhookNotifier_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	n := NewWebhookNotifier(server.URL, nil)
	if err := n.Notify(context.Background(), Event{Type: EventRunStarted}); err == nil {
		t.Error("expected error for 500 response")
	}
}

type stubNotifier struct {
	events []Event
	err    error
}

func (s *stubNotifier) Notify(ctx context.Context, event Event) error {
	s.events = append(s.events, event)
	return s.err
}

func TestMultiNotifier_ContinuesAfterFailure(t *testing.T) {
	failing := &stubNotifier{err: errors.New("down")}
	working := &stubNotifier{}

	n := NewMultiNotifier(failing, working)
	err := n.Notify(context.Background(), Event{Type: EventRunCompleted})

	if err == nil {
		t.Error("expected last error to propagate")
	}
	if len(working.events) != 1 {
		t.Error("second notifier should still receive the event")
	}
}

func TestNopNotifier(t *testing.T) {
	if err := (NopNotifier{}).Notify(context.Background(), Event{}); err != nil {
		t.Errorf("NopNotifier.Notify: %v", err)
	}
}
