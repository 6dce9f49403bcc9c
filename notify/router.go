package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// sendTimeout bounds a single delivery attempt per channel.
const sendTimeout = 10 * time.Second

// Router fans an event out to every configured notifier.
//
// Router isolates channel failures from each other: every notifier gets a
// delivery attempt even if an earlier one fails. The combined error is
// returned so the caller can decide what severity a failed notification
// deserves; Router itself only logs.
type Router struct {
	notifiers []Notifier
	logger    *slog.Logger
}

// NewRouter creates a router over the given notifiers.
func NewRouter(logger *slog.Logger, notifiers ...Notifier) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{notifiers: notifiers, logger: logger}
}

// Notifiers returns a copy of the configured notifiers.
func (r *Router) Notifiers() []Notifier {
	cp := make([]Notifier, len(r.notifiers))
	copy(cp, r.notifiers)
	return cp
}

// Send delivers the event to all notifiers and joins any failures.
//
// Each delivery attempt gets its own timeout derived from ctx. A nil
// return means every channel accepted the event.
func (r *Router) Send(ctx context.Context, event Event) error {
	var errs []error

	for _, n := range r.notifiers {
		sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
		err := n.Send(sendCtx, event)
		cancel()

		if err != nil {
			r.logger.Error("notification send failed",
				"type", n.Type(),
				"event_kind", string(event.Kind),
				"error", err,
			)
			errs = append(errs, fmt.Errorf("%s: %w", n.Type(), err))
			continue
		}

		r.logger.Info("notification sent",
			"type", n.Type(),
			"event_kind", string(event.Kind),
		)
	}

	return errors.Join(errs...)
}
