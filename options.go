package gradepulse

import (
	"errors"
	"log/slog"
	"net/url"
	"time"

	"github.com/jpalmerr/gradepulse/notify"
)

// watcherConfig holds mutable state during Watcher construction.
type watcherConfig struct {
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

// Option is a function that configures a [Watcher] instance during construction.
//
// Option implements the functional options pattern, allowing optional
// configuration to be passed to [New] in a type-safe, extensible way.
// Options return an error if validation fails.
type Option func(*watcherConfig) error

// WithToken sets the API token sent with every fetch as
// "Authorization: OAuth <token>". Required.
func WithToken(token string) Option {
	return func(cfg *watcherConfig) error {
		if token == "" {
			return errors.New("token cannot be empty")
		}
		cfg.token = token
		return nil
	}
}

// WithEndpoint overrides the homework status API URL.
//
// Returns an error if the URL is not a valid http(s) URL.
func WithEndpoint(endpoint string) Option {
	return func(cfg *watcherConfig) error {
		parsed, err := url.Parse(endpoint)
		if err != nil {
			return errors.New("invalid endpoint URL: " + err.Error())
		}
		if parsed.Scheme != "http" && parsed.Scheme != "https" {
			return errors.New("endpoint URL must have an http or https scheme")
		}
		cfg.endpoint = endpoint
		return nil
	}
}

// WithPollInterval sets the fixed sleep between poll cycles.
//
// The sleep is applied unconditionally after every cycle regardless of
// outcome; it is the sole backoff mechanism. Defaults to 600 seconds.
//
// Returns an error if the duration is zero or negative.
func WithPollInterval(d time.Duration) Option {
	return func(cfg *watcherConfig) error {
		if d <= 0 {
			return errors.New("poll interval must be positive")
		}
		cfg.pollInterval = d
		return nil
	}
}

// WithRequestTimeout sets the per-fetch timeout against the status API.
// Defaults to 10 seconds.
//
// Returns an error if the duration is zero or negative.
func WithRequestTimeout(d time.Duration) Option {
	return func(cfg *watcherConfig) error {
		if d <= 0 {
			return errors.New("request timeout must be positive")
		}
		cfg.requestTimeout = d
		return nil
	}
}

// WithPort sets the status server port. Defaults to 8080.
//
// Returns an error if the port is outside the valid range (1-65535).
func WithPort(port int) Option {
	return func(cfg *watcherConfig) error {
		if port < 1 || port > 65535 {
			return errors.New("port must be between 1 and 65535")
		}
		cfg.port = port
		return nil
	}
}

// WithoutServer disables the status HTTP server entirely.
// The poll loop is unaffected.
func WithoutServer() Option {
	return func(cfg *watcherConfig) error {
		cfg.serverEnabled = false
		return nil
	}
}

// WithNotifyOnFirstStatus controls the startup policy.
//
// When enabled, the very first successfully observed status triggers a
// notification even though there is no prior state to compare against.
// Disabled by default: the first status is adopted silently and only
// subsequent changes are announced.
func WithNotifyOnFirstStatus(enabled bool) Option {
	return func(cfg *watcherConfig) error {
		cfg.notifyOnFirst = enabled
		return nil
	}
}

// WithNotifier adds a notification channel.
//
// Can be called multiple times; every channel receives every event. At
// least one notifier must be configured for [New] to succeed. The
// notifier's Validate method is called during construction.
//
// Example:
//
//	w, err := gradepulse.New(
//	    gradepulse.WithToken(token),
//	    gradepulse.WithNotifier(notify.NewTelegramNotifier(botToken, chatID)),
//	)
func WithNotifier(n notify.Notifier) Option {
	return func(cfg *watcherConfig) error {
		if n == nil {
			return errors.New("notifier cannot be nil")
		}
		cfg.notifiers = append(cfg.notifiers, n)
		return nil
	}
}

// WithLogger sets a custom [slog.Logger] for the Watcher instance.
//
// This allows SDK consumers to control where logs are written and in what
// format. If not specified, [slog.Default] is used.
//
// Returns an error if the logger is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *watcherConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithCycleCallback registers a function to be called after every poll cycle.
//
// The callback receives a [CycleResult] containing the cycle outcome,
// including the observed state, cursor, and any classified error.
//
// Multiple callbacks may be registered by calling WithCycleCallback
// multiple times; they execute in registration order.
//
// IMPORTANT: Callbacks must be non-blocking. Long-running operations
// should dispatch work to a separate goroutine. Callbacks are invoked
// synchronously from a single goroutine; panics within callbacks are
// recovered and logged, they do not crash the loop.
//
// Nil callbacks are silently ignored.
func WithCycleCallback(cb func(CycleResult)) Option {
	return func(cfg *watcherConfig) error {
		if cb == nil {
			return nil // no-op for nil callback (safe to call)
		}
		cfg.cycleCallbacks = append(cfg.cycleCallbacks, cb)
		return nil
	}
}
