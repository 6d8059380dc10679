// Package cmd implements axctl, a demo CLI driving the axeberg kernel
// core's syscall-shaped API.
package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"axeberg-kernel/logging"
)

// Version information set at build time.
var (
	Version   = "0.1.0"
	BootspecVer = "1.0.0"
	BuildTime = "unknown"
)

// Global flags.
var (
	globalRoot      string
	globalLog       string
	globalLogFormat string
	globalDebug     bool
)

// rootCmd is the base command for axctl.
var rootCmd = &cobra.Command{
	Use:   "axctl",
	Short: "Drive a simulated kernel core",
	Long: `axctl drives axeberg's simulated kernel core: it boots a kernel
instance from a bootspec, exercises its process/mount syscall-shaped
surface, and persists the result to a YAML snapshot between invocations.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogging()
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// GetContext returns a context that cancels on SIGINT/SIGTERM.
func GetContext() context.Context {
	ctx, _ := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	return ctx
}

// GetSnapshotPath returns the snapshot file axctl reads and writes
// between invocations.
func GetSnapshotPath() string {
	if globalRoot != "" {
		return globalRoot
	}
	return "axeberg.snapshot.yaml"
}

func init() {
	rootCmd.PersistentFlags().StringVar(&globalRoot, "root", "", "snapshot file path (default: ./axeberg.snapshot.yaml)")
	rootCmd.PersistentFlags().StringVar(&globalLog, "log", "", "set the log file path")
	rootCmd.PersistentFlags().StringVar(&globalLogFormat, "log-format", "text", "set the format for log output (text or json)")
	rootCmd.PersistentFlags().BoolVar(&globalDebug, "debug", false, "enable debug logging")
}

func setupLogging() {
	logOutput := os.Stderr
	if globalLog != "" {
		if f, err := os.OpenFile(globalLog, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600); err == nil {
			logOutput = f
		}
	}

	logLevel := slog.LevelInfo
	if globalDebug {
		logLevel = slog.LevelDebug
	}

	if globalLogFormat == "json" || globalLog != "" {
		logger := logging.NewLogger(logging.Config{
			Level:  logLevel,
			Format: globalLogFormat,
			Output: logOutput,
		})
		logging.SetDefault(logger)
	}
}
