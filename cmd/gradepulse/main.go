// Package main is the entry point for the gradepulse CLI.
//
// GradePulse can be run either as a library (SDK) or as a standalone
// binary configured from the environment and an optional YAML file.
// This CLI provides the standalone binary approach.
//
// Usage:
//
//	gradepulse run                     # Start monitoring (env-only config)
//	gradepulse run -c gradepulse.yaml  # Start with a config file
//	gradepulse validate -c gradepulse.yaml
//	gradepulse version
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information - set by GoReleaser at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCmd is the base command when called without subcommands.
// It just displays help - actual functionality is in subcommands.
var rootCmd = &cobra.Command{
	Use:   "gradepulse",
	Short: "A homework review status monitor",
	Long: `GradePulse watches your homework review status and notifies you
the moment the verdict changes.

It polls the homework status API at a fixed interval, compares the newest
record against the last observed verdict, and pushes a message to the
configured channels (Telegram, webhooks) on every change. Polling failures
are alerted once per distinct problem instead of once per cycle.

Quick start:
  1. Export PRACTICUM_TOKEN, TELEGRAM_TOKEN, and TELEGRAM_CHAT_ID
  2. Run: gradepulse run
  3. Check http://localhost:8080/api/status for the monitor state

Example config (optional):
  poll_interval: 10m
  notify_on_first_status: false
  notifiers:
    - type: telegram
      bot_token: ${TELEGRAM_TOKEN}
      chat_id: ${TELEGRAM_CHAT_ID}`,
	// No Run/RunE means this just shows help when called without subcommands
}

// Execute runs the root command.
// This is the main entry point called from main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error, just exit with code 1
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit hash, and build date of this gradepulse binary.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("gradepulse %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	},
}

func init() {
	// Register subcommands with root
	rootCmd.AddCommand(versionCmd)
}
