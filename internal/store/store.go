package store

import "time"

// CycleResult is the storage representation of one poll cycle, optimized
// for JSON serialization by the status API. It is decoupled from the
// poller's internal types to allow independent evolution.
type CycleResult struct {
	// State is the observed status after the cycle.
	State string `json:"state"`

	// Cursor is the loop's cursor after the cycle.
	Cursor int64 `json:"cursor"`

	// ChangedTo is the newly observed status, if the cycle detected a change.
	ChangedTo string `json:"changed_to,omitempty"`

	// DurationMs is the cycle duration in milliseconds, excluding the sleep.
	DurationMs int64 `json:"duration_ms"`

	// CheckedAt is when the cycle started.
	CheckedAt time.Time `json:"checked_at"`

	// Error contains the classified error message if the cycle failed.
	// nil indicates the cycle completed.
	Error *string `json:"error"`
}

// Notification records one delivered status-change message.
type Notification struct {
	// Name is the homework's display name.
	Name string `json:"name"`

	// Status is the verdict value that was announced.
	Status string `json:"status"`

	// SentAt is when the notification was delivered.
	SentAt time.Time `json:"sent_at"`
}

// Snapshot is a point-in-time view of the monitor, served by the status API.
type Snapshot struct {
	// State is the currently observed status.
	State string `json:"state"`

	// Cursor is the current fetch cursor.
	Cursor int64 `json:"cursor"`

	// StartedAt is when monitoring began.
	StartedAt time.Time `json:"started_at"`

	// Cycles is the total number of completed poll cycles.
	Cycles int64 `json:"cycles"`

	// Failures is the number of cycles that failed.
	Failures int64 `json:"failures"`

	// LastCycle is the most recent cycle result, nil before the first cycle.
	LastCycle *CycleResult `json:"last_cycle"`

	// LastError is the most recent cycle error message, nil if the last
	// cycle succeeded.
	LastError *string `json:"last_error"`

	// Notifications holds recently delivered notifications, newest first.
	Notifications []Notification `json:"notifications"`
}

// Store defines the interface for recording monitor activity.
//
// Store implementations must be safe for concurrent access: the poll
// loop's consumer writes while the status server reads.
type Store interface {
	// RecordCycle stores the outcome of one poll cycle.
	RecordCycle(result CycleResult)

	// RecordNotification stores a delivered notification.
	RecordNotification(n Notification)

	// Snapshot returns a point-in-time copy of the monitor state.
	Snapshot() Snapshot
}
