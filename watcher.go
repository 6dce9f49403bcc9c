package gradepulse

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jpalmerr/gradepulse/internal/poller"
	"github.com/jpalmerr/gradepulse/internal/server"
	"github.com/jpalmerr/gradepulse/internal/store"
	"github.com/jpalmerr/gradepulse/notify"
)

const (
	defaultEndpoint       = "https://practicum.yandex.ru/api/user_api/homework_statuses/"
	defaultPollInterval   = 600 * time.Second
	defaultRequestTimeout = 10 * time.Second
	defaultPort           = 8080
)

// Notification is the record of a delivered status-change message.
type Notification struct {
	// Name is the homework's display name.
	Name string

	// Status is the verdict value that was announced.
	Status Status

	// Verdict is the human-readable verdict text.
	Verdict string

	// SentAt is when the notification was delivered.
	SentAt time.Time
}

// CycleResult holds the outcome of one poll cycle.
//
// CycleResult is immutable after creation. It reflects the loop state
// after the cycle committed: on a failed cycle neither State nor Cursor
// has advanced.
type CycleResult struct {
	// State is the observed status after the cycle.
	State Status

	// Cursor is the fetch cursor after the cycle.
	Cursor int64

	// ChangedTo is the newly observed status if this cycle detected a
	// change; empty otherwise.
	ChangedTo Status

	// Name is the homework whose status changed; empty if no change.
	Name string

	// Notified reports whether a status-change notification was
	// delivered. False for a silently adopted initial status.
	Notified bool

	// Err is the classified failure if the cycle did not complete.
	Err error

	// CheckedAt is when the cycle started.
	CheckedAt time.Time

	// Duration is how long the cycle took, excluding the sleep.
	Duration time.Duration
}

// Watcher is the main orchestrator for homework status monitoring.
//
// Watcher wires the poll loop, the notification channels, and the status
// server together. It is created using [New] with functional options and
// started with [Watcher.Start].
//
// The typical lifecycle is:
//
//	w, err := gradepulse.New(
//	    gradepulse.WithToken(token),
//	    gradepulse.WithNotifier(notify.NewTelegramNotifier(botToken, chatID)),
//	)
//	if err != nil {
//	    slog.Error("failed to create watcher", "error", err)
//	    os.Exit(1)
//	}
//
//	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer cancel()
//
//	w.Start(ctx) // blocks until context cancelled
//
// The caller controls the lifecycle via the context. Cancel the context
// to trigger graceful shutdown.
type Watcher struct {
	endpoint       string
	token          string
	pollInterval   time.Duration
	requestTimeout time.Duration
	port           int
	serverEnabled  bool
	notifyOnFirst  bool
	logger         *slog.Logger
	notifiers      []notify.Notifier
	cycleCallbacks []func(CycleResult)
}

// New creates a new [Watcher] instance with the given options.
//
// An API token ([WithToken]) and at least one notification channel
// ([WithNotifier]) are required. Other options have sensible defaults:
//   - Endpoint: the homework status API
//   - Poll interval: 600 seconds
//   - Request timeout: 10 seconds
//   - Status server: enabled on port 8080
//
// Returns an error if required options are missing or any notifier
// configuration is invalid.
func New(opts ...Option) (*Watcher, error) {
	cfg := &watcherConfig{
		endpoint:       defaultEndpoint,
		pollInterval:   defaultPollInterval,
		requestTimeout: defaultRequestTimeout,
		port:           defaultPort,
		serverEnabled:  true,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.token == "" {
		return nil, errors.New("an API token is required")
	}
	if len(cfg.notifiers) == 0 {
		return nil, errors.New("at least one notifier is required")
	}
	for _, n := range cfg.notifiers {
		if err := n.Validate(); err != nil {
			return nil, fmt.Errorf("invalid %s notifier: %w", n.Type(), err)
		}
	}

	// default to slog.Default() if no logger provided
	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Watcher{
		endpoint:       cfg.endpoint,
		token:          cfg.token,
		pollInterval:   cfg.pollInterval,
		requestTimeout: cfg.requestTimeout,
		port:           cfg.port,
		serverEnabled:  cfg.serverEnabled,
		notifyOnFirst:  cfg.notifyOnFirst,
		logger:         logger,
		notifiers:      cfg.notifiers,
		cycleCallbacks: cfg.cycleCallbacks,
	}, nil
}

// Start begins polling and serving monitor state.
//
// Start is a blocking call that runs until the provided context is
// cancelled. During execution:
//
//   - A startup announcement is sent to all notification channels
//   - The status API is polled immediately, then at the configured interval
//   - Detected verdict changes are pushed to the notification channels
//   - The status server answers on /healthz and /api/status
//
// Returns nil on graceful shutdown. Returns an error if the status
// server fails to start.
func (w *Watcher) Start(ctx context.Context) error {
	w.logger.Info("gradepulse starting",
		"endpoint", w.endpoint,
		"poll_interval", w.pollInterval.String(),
		"notifiers", len(w.notifiers),
	)

	// check if context already cancelled
	if ctx.Err() != nil {
		return nil
	}

	statusStore := store.NewMemoryStore()
	router := notify.NewRouter(w.logger, w.notifiers...)
	client := poller.NewClient(w.endpoint, w.token, w.requestTimeout)

	loop := poller.NewLoop(client, w.pollInterval, router, w.logger, w.notifyOnFirst)
	loop.Start(ctx)

	// track the results consumer goroutine to ensure clean shutdown
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for result := range loop.Results() {
			// store update first (callbacks fire after data is recorded)
			statusStore.RecordCycle(loopResultToStoreResult(result))
			if result.Notified {
				statusStore.RecordNotification(store.Notification{
					Name:   result.Name,
					Status: result.ChangedTo,
					SentAt: result.CheckedAt,
				})
			}

			if len(w.cycleCallbacks) > 0 {
				publicResult := loopResultToPublicResult(result)
				for _, cb := range w.cycleCallbacks {
					w.invokeCallbackSafe(cb, publicResult)
				}
			}
		}
	}()

	// cleanup function ensures loop is stopped and all results are processed
	cleanup := func() {
		loop.Stop() // closes results channel
		wg.Wait()   // wait for all results to be processed
	}

	if w.serverEnabled {
		httpServer := server.NewServer(statusStore, w.port, w.logger)
		if err := httpServer.Start(ctx); err != nil {
			cleanup()
			return fmt.Errorf("failed to start status server: %w", err)
		}
		w.logger.Info("status server listening", "port", w.port)
	}

	<-ctx.Done()
	cleanup()
	w.logger.Info("gradepulse stopped")
	return nil
}

// PollInterval returns the configured interval between poll cycles.
func (w *Watcher) PollInterval() time.Duration {
	return w.pollInterval
}

// Port returns the configured status server port.
func (w *Watcher) Port() int {
	return w.port
}

// Notifiers returns a copy of the configured notification channels.
func (w *Watcher) Notifiers() []notify.Notifier {
	cp := make([]notify.Notifier, len(w.notifiers))
	copy(cp, w.notifiers)
	return cp
}

// invokeCallbackSafe calls a cycle callback with panic recovery.
// A panicking callback is logged with a correlation ID and a full stack
// trace; it never crashes the results consumer.
func (w *Watcher) invokeCallbackSafe(cb func(CycleResult), result CycleResult) {
	defer func() {
		if r := recover(); r != nil {
			correlationID := uuid.NewString()
			w.logger.Error("cycle callback panic",
				"correlation_id", correlationID,
				"panic", fmt.Sprintf("%v", r),
				"stack", string(debug.Stack()),
			)
		}
	}()
	cb(result)
}

// loopResultToStoreResult converts a loop result to a store result.
func loopResultToStoreResult(r poller.CycleResult) store.CycleResult {
	var errStr *string
	if r.Err != nil {
		s := r.Err.Error()
		errStr = &s
	}

	return store.CycleResult{
		State:      r.State,
		Cursor:     r.Cursor,
		ChangedTo:  r.ChangedTo,
		DurationMs: r.Duration.Milliseconds(),
		CheckedAt:  r.CheckedAt,
		Error:      errStr,
	}
}

// loopResultToPublicResult converts an internal loop result to the public
// API type.
func loopResultToPublicResult(r poller.CycleResult) CycleResult {
	return CycleResult{
		State:     Status(r.State),
		Cursor:    r.Cursor,
		ChangedTo: Status(r.ChangedTo),
		Name:      r.Name,
		Notified:  r.Notified,
		Err:       r.Err,
		CheckedAt: r.CheckedAt,
		Duration:  r.Duration,
	}
}
