package poller

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jpalmerr/gradepulse/notify"
)

// statusUnknown is the observed state before the first successful cycle.
const statusUnknown = "unknown"

// Sender delivers outbound events. Satisfied by [notify.Router].
type Sender interface {
	Send(ctx context.Context, event notify.Event) error
}

// CycleResult holds the outcome of one poll cycle.
//
// CycleResult reflects the loop's state after the cycle committed (or
// failed to). Results are emitted to a channel consumed by the watcher
// for logging, callbacks, and the status server.
type CycleResult struct {
	// State is the observed status after the cycle.
	State string

	// Cursor is the loop's cursor after the cycle.
	Cursor int64

	// ChangedTo is the newly observed status if this cycle detected a
	// change; empty otherwise.
	ChangedTo string

	// Name is the homework whose status changed; empty if no change.
	Name string

	// Notified reports whether a status-change notification was delivered.
	// False for a silently adopted initial status.
	Notified bool

	// Err is the classified failure if the cycle did not complete.
	Err error

	// CheckedAt is when the cycle started.
	CheckedAt time.Time

	// Duration is how long the cycle took, excluding the sleep.
	Duration time.Duration
}

// Loop is the poll driver: it runs the fetch, validate, detect, notify
// cycle on a fixed interval and contains every failure.
//
// The loop owns three pieces of state, all in process memory only:
//
//   - the cursor, initialized to the wall clock at start and advanced to
//     the server-reported current date after each successful cycle,
//     never rewound
//   - the observed status, the verdict last notified about (or adopted
//     at startup), reset to unknown on every process start
//   - the last alerted failure signature, used to alert a human once per
//     distinct problem instead of once per cycle
//
// No failure terminates the loop; every error is classified at this
// boundary, conditionally alerted, and retried on the next scheduled
// cycle. The sleep between cycles is fixed; there is no backoff and no
// jitter. All lifecycle methods are safe for concurrent use.
type Loop struct {
	client        *Client
	interval      time.Duration
	notifier      Sender
	logger        *slog.Logger
	notifyOnFirst bool

	// loop-owned state, touched only by the run goroutine
	cursor   int64
	observed string
	lastSig  string

	results chan CycleResult

	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	started   bool
	stopped   bool
	closeOnce sync.Once
}

// NewLoop creates a poll [Loop].
//
// If notifyOnFirst is true, the very first successfully observed status
// triggers a notification even though there is no prior state to compare
// against; otherwise the first status is adopted silently and only
// subsequent changes are announced.
func NewLoop(client *Client, interval time.Duration, notifier Sender, logger *slog.Logger, notifyOnFirst bool) *Loop {
	return &Loop{
		client:        client,
		interval:      interval,
		notifier:      notifier,
		logger:        logger,
		notifyOnFirst: notifyOnFirst,
		observed:      statusUnknown,
		results:       make(chan CycleResult, 16),
	}
}

// Results returns a receive-only channel that emits one [CycleResult]
// per cycle. The channel is closed when the loop stops.
func (l *Loop) Results() <-chan CycleResult {
	return l.results
}

// Start begins the polling loop in a background goroutine.
//
// Start is non-blocking and returns immediately. The loop will:
//  1. Initialize the cursor to the current wall clock
//  2. Announce that monitoring started
//  3. Run the first cycle immediately, then one cycle per interval
//  4. Continue until [Loop.Stop] is called or the context is cancelled
//
// Start is idempotent; calls after the first (or after Stop) are no-ops.
func (l *Loop) Start(ctx context.Context) {
	l.mu.Lock()
	if l.started || l.stopped {
		l.mu.Unlock()
		return
	}
	l.started = true
	l.cursor = time.Now().Unix()

	if ctx == nil {
		ctx = context.Background()
	}
	l.ctx, l.cancel = context.WithCancel(ctx)
	runCtx := l.ctx // capture under lock to avoid race
	l.wg.Add(1)
	l.mu.Unlock()

	go func() {
		defer l.wg.Done()
		defer l.closeOnce.Do(func() { close(l.results) })

		l.announce(runCtx)
		l.runCycle(runCtx)

		ticker := time.NewTicker(l.interval)
		defer ticker.Stop()

		for {
			select {
			case <-runCtx.Done():
				return
			case <-ticker.C:
				l.runCycle(runCtx)
			}
		}
	}()
}

// Stop halts the loop and waits for the run goroutine to finish.
//
// A cycle already in flight is interrupted via context cancellation;
// state is only committed after a fully successful cycle, so no partial
// mutation survives. Stop is idempotent and safe to call before Start.
func (l *Loop) Stop() {
	l.mu.Lock()
	if !l.stopped {
		l.stopped = true
		if l.cancel != nil {
			l.cancel()
		}
	}
	l.mu.Unlock()

	l.wg.Wait()

	if l.client != nil {
		l.client.Close()
	}

	// ensure channel is closed even if Start() was never called
	l.closeOnce.Do(func() { close(l.results) })
}

// announce sends the startup message. Delivery failure is logged only;
// monitoring proceeds regardless.
func (l *Loop) announce(ctx context.Context) {
	event := notify.Event{Kind: notify.KindStartup, Timestamp: time.Now()}
	if err := l.notifier.Send(ctx, event); err != nil {
		l.logger.Error("startup announcement not delivered", "error", err)
	}
}

// outcome is the successful result of one cycle before state commits.
type outcome struct {
	cursor   int64
	change   *Change
	notified bool
}

// runCycle executes one cycle and commits or contains its outcome.
//
// On success the cursor and observed status advance together, after the
// notification was delivered. On failure neither advances; the failure
// is classified and conditionally alerted, and the loop proceeds to the
// next scheduled cycle.
func (l *Loop) runCycle(ctx context.Context) {
	start := time.Now()
	out, err := l.cycle(ctx)

	res := CycleResult{
		State:     l.observed,
		Cursor:    l.cursor,
		CheckedAt: start,
		Duration:  time.Since(start),
	}

	if err != nil {
		perr := classify(err)
		l.containFailure(ctx, perr)
		res.Err = perr
		l.emit(ctx, res)
		return
	}

	// commit: cursor is monotonically non-decreasing
	if out.cursor > l.cursor {
		l.cursor = out.cursor
	}
	if out.change != nil {
		l.observed = out.change.Status
		res.ChangedTo = out.change.Status
		res.Name = out.change.Name
		res.Notified = out.notified
	}
	res.State = l.observed
	res.Cursor = l.cursor

	l.emit(ctx, res)
}

// cycle runs fetch, validate, detect, notify without touching loop state.
func (l *Loop) cycle(ctx context.Context) (outcome, error) {
	body, err := l.client.Fetch(ctx, l.cursor)
	if err != nil {
		return outcome{}, err
	}

	validated, err := Validate(body)
	if err != nil {
		return outcome{}, err
	}

	if validated.Empty() {
		l.logger.Debug("no records this cycle", "cursor", validated.Cursor)
		return outcome{cursor: validated.Cursor}, nil
	}

	change, err := Detect(validated.Records, l.observed)
	if err != nil {
		return outcome{}, err
	}

	if change == nil {
		l.logger.Debug("status unchanged", "status", l.observed, "cursor", validated.Cursor)
		return outcome{cursor: validated.Cursor}, nil
	}

	// startup policy: adopt the first observed status silently
	if l.observed == statusUnknown && !l.notifyOnFirst {
		l.logger.Info("initial status adopted without notification",
			"homework", change.Name,
			"status", change.Status,
		)
		return outcome{cursor: validated.Cursor, change: change}, nil
	}

	event := notify.Event{
		Kind:      notify.KindStatusChange,
		Name:      change.Name,
		Status:    change.Status,
		Verdict:   change.Verdict,
		Timestamp: time.Now(),
	}
	if err := l.notifier.Send(ctx, event); err != nil {
		return outcome{}, wrapError(KindNotification, err, "deliver status change for %q", change.Name)
	}

	l.logger.Info("status change notified", "homework", change.Name, "status", change.Status)
	return outcome{cursor: validated.Cursor, change: change, notified: true}, nil
}

// containFailure classifies a cycle failure and alerts a human exactly
// once per distinct failure signature.
//
// A notification-channel failure is logged but never alerted: the channel
// that would carry the alert is the thing that is down.
func (l *Loop) containFailure(ctx context.Context, perr *Error) {
	if perr.Kind == KindNotification {
		l.logger.Error("notification channel unreachable", "error", perr)
		return
	}

	sig := perr.Signature()
	if sig == l.lastSig {
		l.logger.Warn("cycle failed, alert suppressed (already informed)",
			"kind", string(perr.Kind),
			"error", perr,
		)
		return
	}

	correlationID := uuid.NewString()
	l.logger.Error("cycle failed",
		"kind", string(perr.Kind),
		"error", perr,
		"correlation_id", correlationID,
	)

	event := notify.Event{
		Kind:          notify.KindFailure,
		Reason:        perr.Error(),
		CorrelationID: correlationID,
		Timestamp:     time.Now(),
	}
	if err := l.notifier.Send(ctx, event); err != nil {
		l.logger.Error("failure alert not delivered", "error", err, "correlation_id", correlationID)
	}
	l.lastSig = sig
}

// emit delivers a cycle result without blocking shutdown.
func (l *Loop) emit(ctx context.Context, res CycleResult) {
	select {
	case l.results <- res:
	case <-ctx.Done():
	}
}
