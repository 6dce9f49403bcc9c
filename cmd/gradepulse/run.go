package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jpalmerr/gradepulse"
	"github.com/jpalmerr/gradepulse/config"
	"github.com/spf13/cobra"
)

const (
	shutdownTimeout = 10 * time.Second
)

// newLogger creates a JSON logger for CLI use.
func newLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

// runCmd starts the monitor.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start monitoring homework statuses",
	Long: `Start the GradePulse monitor.

The monitor will:
  - Read credentials from the environment (PRACTICUM_TOKEN required;
    TELEGRAM_TOKEN and TELEGRAM_CHAT_ID for the default Telegram channel)
  - Optionally load a YAML config file for interval, port, and notifiers
  - Announce startup, then poll the status API at the configured interval
  - Notify the configured channels on every verdict change

Missing required credentials abort the process before the first poll.
The monitor runs until interrupted (Ctrl+C) or receives SIGTERM.

Example:
  gradepulse run
  gradepulse run -c gradepulse.yaml`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("config", "c", "", "path to config file (optional)")
}

func runRun(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	// fail fast: no credentials, no loop
	secrets, err := config.ParseSecrets()
	if err != nil {
		return fmt.Errorf("missing required configuration: %w", err)
	}

	cfg := config.Default()
	if configFile, _ := cmd.Flags().GetString("config"); configFile != "" {
		cfg, err = config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		logger.Info("config loaded", "path", configFile)
	}

	opts, err := config.BuildOptions(cfg, secrets)
	if err != nil {
		return fmt.Errorf("failed to build options: %w", err)
	}
	opts = append(opts, gradepulse.WithLogger(logger))

	w, err := gradepulse.New(opts...)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	logger.Info("starting monitor",
		"poll_interval", cfg.PollInterval.Duration().String(),
		"port", cfg.Port,
		"notifiers", len(w.Notifiers()),
	)

	// set up context with signal handling - cancel on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// start monitor - blocks until context cancelled
	errChan := make(chan error, 1)
	go func() {
		errChan <- w.Start(ctx)
	}()

	// wait for the monitor to finish
	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("monitor error: %w", err)
		}
		logger.Info("shutdown complete")
		return nil

	case <-ctx.Done():
		// signal received, wait for graceful shutdown with timeout
		select {
		case err := <-errChan:
			if err != nil {
				return fmt.Errorf("monitor error: %w", err)
			}
			logger.Info("shutdown complete")
			return nil
		case <-time.After(shutdownTimeout):
			logger.Warn("shutdown timed out",
				"timeout", shutdownTimeout.String(),
				"action", "forcing exit",
			)
			return nil
		}
	}
}
