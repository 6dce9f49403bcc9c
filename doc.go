// Package gradepulse provides a long-running monitor for homework review
// statuses, pushing human-readable notifications on every verdict change.
//
// GradePulse is designed as an SDK-first library: developers configure a
// [Watcher] programmatically with functional options and run it as part of
// their application, or use the cmd/gradepulse binary with a YAML file.
// The watcher polls the homework status API on a fixed interval, detects
// verdict changes against the last observed state, and delivers messages
// through one or more notification channels.
//
// # Quick Start
//
// Create a watcher and run it with graceful shutdown:
//
//	w, _ := gradepulse.New(
//	    gradepulse.WithToken(os.Getenv("PRACTICUM_TOKEN")),
//	    gradepulse.WithNotifier(notify.NewTelegramNotifier(botToken, chatID)),
//	)
//
//	// Set up graceful shutdown on SIGINT/SIGTERM
//	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer stop()
//
//	w.Start(ctx) // blocks until context is cancelled
//
// # Configuration
//
// GradePulse uses the functional options pattern for configuration:
//
//	w, err := gradepulse.New(
//	    gradepulse.WithToken(token),
//	    gradepulse.WithNotifier(telegram),
//	    gradepulse.WithNotifier(webhook),
//	    gradepulse.WithPollInterval(10 * time.Minute),
//	    gradepulse.WithNotifyOnFirstStatus(true),
//	    gradepulse.WithPort(9090),
//	)
//
// # Failure containment
//
// No polling failure is fatal. Every error is classified into a tagged
// kind (transport, wrong status code, malformed payload, missing cursor,
// unknown status, incomplete record, notification failure), alerted to
// the configured channels exactly once per distinct failure signature,
// and retried on the next scheduled cycle. The only fatal condition is
// missing startup configuration.
//
// # Architecture
//
// GradePulse consists of several internal packages (under internal/):
//
//   - internal/poller: the fetch/validate/detect/notify loop
//   - internal/store: in-memory monitor state for the status server
//   - internal/server: HTTP server with /healthz and /api/status
//
// plus the public notify package with the channel implementations. The
// internal packages are not part of the public API and may change
// without notice.
package gradepulse
