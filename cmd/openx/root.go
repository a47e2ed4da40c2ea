package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"openx-hq/openx/pkg/cli"
	"openx-hq/openx/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgFile   string
	verbose   bool
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "openx",
	Short: "Openx - exchange configuration pipeline",
	Long: `Openx validates and manages configuration for a white-label crypto
options exchange.

A configuration document flows through a pipeline: environment
variable substitution, default filling, and semantic validation.
Problems are collected into a single report rather than failing on
the first one, so a whole document can be fixed in one pass.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging()
	},
}

// Execute runs the root command and maps errors onto process exit codes.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)

		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// setupLogging installs the process-wide logger. Commands log to
// stderr so report output on stdout stays machine-readable.
func setupLogging() error {
	level := "warn"
	if verbose {
		level = "debug"
	}

	logger, err := logging.New(logging.Config{
		Level:         level,
		Format:        logFormat,
		RedactSecrets: true,
	})
	if err != nil {
		return err
	}

	slog.SetDefault(logger.Slog())
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format: text, json")
}
