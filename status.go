package gradepulse

import "github.com/jpalmerr/gradepulse/internal/poller"

// Status represents the review verdict of a homework submission.
//
// Status is a string type that can hold one of the recognized verdict
// values: [StatusPending], [StatusAccepted], or [StatusRejected].
// [StatusUnknown] is the zero-knowledge state before the first successful
// poll. Using a string type allows for easy JSON serialization and
// human-readable logging while maintaining type safety through the
// defined constants.
//
// The verdict vocabulary is closed: a status string reported by the
// remote API that is not in this set is treated as a validation failure,
// never silently passed through.
type Status string

const (
	// StatusPending indicates the submission is waiting for, or under, review.
	StatusPending Status = "pending"

	// StatusAccepted indicates the reviewer approved the submission.
	StatusAccepted Status = "accepted"

	// StatusRejected indicates the reviewer returned the submission with remarks.
	StatusRejected Status = "rejected"

	// StatusUnknown indicates no status has been observed yet.
	// This is the state at process start, before the first successful poll.
	StatusUnknown Status = "unknown"
)

// String returns the string representation of the status.
// This implements the fmt.Stringer interface.
func (s Status) String() string {
	return string(s)
}

// Verdict returns the human-readable verdict text for the status.
// Returns an empty string for [StatusUnknown] or unrecognized values.
func (s Status) Verdict() string {
	return poller.VerdictText(string(s))
}

// Known reports whether the status is part of the verdict vocabulary.
func (s Status) Known() bool {
	return poller.KnownStatus(string(s))
}
