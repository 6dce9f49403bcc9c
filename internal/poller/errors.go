package poller

import "fmt"

// Kind classifies a cycle failure for containment and alert deduplication.
//
// Every failure the loop can encounter maps to exactly one Kind. All kinds
// are retried on the next scheduled cycle; none is fatal to the process.
type Kind string

const (
	// KindTransport is a network-level failure (timeout, refused, DNS).
	KindTransport Kind = "transport"

	// KindWrongStatusCode is a non-200 response from the status API.
	KindWrongStatusCode Kind = "wrong_status_code"

	// KindMalformedPayload is a response body with an unexpected shape.
	KindMalformedPayload Kind = "malformed_payload"

	// KindCursorMissing is a response without the server-reported current
	// date; the loop cannot safely advance its cursor without it.
	KindCursorMissing Kind = "cursor_missing"

	// KindUnknownStatus is a record whose raw status is outside the verdict
	// vocabulary. This usually signals an upstream contract change.
	KindUnknownStatus Kind = "unknown_status"

	// KindIncompleteRecord is a record without an identifying name.
	KindIncompleteRecord Kind = "incomplete_record"

	// KindNotification is a failure of the notification channel itself.
	// Logged only; never escalated into an alert (the channel is down).
	KindNotification Kind = "notification"
)

// Error is a classified poll-cycle failure.
//
// Error carries a stable kind plus a human-readable message and optionally
// wraps an underlying cause. The (kind, message) pair forms the failure
// signature used to suppress repeated alerts for the same problem.
type Error struct {
	Kind Kind

	msg string
	err error
}

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, msg: fmt.Sprintf(format, args...)}
}

func wrapError(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, msg: fmt.Sprintf(format, args...), err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.err
}

// Signature returns the (kind, message) pair used for alert deduplication.
// Two failures with equal signatures are "the same problem" and only the
// first one is alerted on.
func (e *Error) Signature() string {
	return string(e.Kind) + ": " + e.Error()
}

// classify returns err as a classified *Error, wrapping unrecognized
// errors as transport failures. The client, validator, and detector all
// return *Error already; anything else reached the loop boundary through
// the HTTP layer.
func classify(err error) *Error {
	if perr, ok := err.(*Error); ok {
		return perr
	}
	return wrapError(KindTransport, err, "unclassified failure")
}
