// Package notify provides outbound notification channels for GradePulse.
//
// A [Notifier] delivers a single [Event] to one channel (Telegram, webhook).
// The [Router] fans an event out to every configured notifier and isolates
// their failures from each other: one unreachable channel never prevents
// delivery to the rest, and delivery failures are reported to the caller
// as a single error rather than raised mid-send.
package notify

import (
	"context"
	"time"
)

// EventKind classifies what an outbound event announces.
type EventKind string

const (
	// KindStartup announces that monitoring has started.
	KindStartup EventKind = "startup"

	// KindStatusChange announces a homework verdict change.
	KindStatusChange EventKind = "status_change"

	// KindFailure alerts a human about a polling failure.
	KindFailure EventKind = "failure"
)

// Event is a single outbound notification.
//
// Event is a plain data carrier; each [Notifier] owns the channel-specific
// wording and markup for it. Sending the same event twice is safe: channels
// treat sends as idempotent in effect and no outbound deduplication is
// attempted here.
type Event struct {
	// Kind classifies the event.
	Kind EventKind

	// Name is the homework display name (status-change events).
	Name string

	// Status is the mapped verdict value (status-change events).
	Status string

	// Verdict is the human-readable verdict text (status-change events).
	Verdict string

	// Reason describes the failure (failure events).
	Reason string

	// CorrelationID links a failure alert to server-side log entries.
	CorrelationID string

	// Timestamp is when the event was produced.
	Timestamp time.Time
}

// Notifier is the interface all notification channel implementations satisfy.
type Notifier interface {
	// Type returns the notifier type identifier (e.g., "telegram", "webhook").
	Type() string

	// Send delivers an event. It returns an error if delivery fails;
	// it never panics and never retries.
	Send(ctx context.Context, event Event) error

	// Validate checks whether the notifier configuration is usable.
	Validate() error
}
