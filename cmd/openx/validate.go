package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"openx-hq/openx/pkg/cli"
	"openx-hq/openx/pkg/config"
	"openx-hq/openx/pkg/history"
	"openx-hq/openx/pkg/history/storage"
	"openx-hq/openx/pkg/watch"
)

// defaultHistoryPath is where validation runs are recorded unless
// overridden. The history command reads the same file.
const defaultHistoryPath = "openx-history.db"

var validateFlags struct {
	format    string
	watch     bool
	historyDB string
	noHistory bool
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate an exchange configuration",
	Long: `Validate an exchange configuration document.

The document is loaded, environment placeholders are substituted,
missing defaultable fields are filled, and the result is checked
against the exchange's semantic rules. All problems are collected into
one report; only an unreadable or unparseable file stops the pipeline.

Each run is recorded in a local history database unless --no-history
is given.

Exit codes:
  0  valid (warnings allowed)
  1  validation errors found
  2  file could not be read or parsed

Examples:
  # Validate the default config.yaml
  openx validate

  # Machine-readable report
  openx validate --config exchange.yaml --format json

  # Revalidate on every save
  openx validate --watch`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&validateFlags.format, "format", "text", "output format: text, json, csv")
	validateCmd.Flags().BoolVarP(&validateFlags.watch, "watch", "w", false, "revalidate whenever the file changes")
	validateCmd.Flags().StringVar(&validateFlags.historyDB, "history-db", defaultHistoryPath, "validation history database path")
	validateCmd.Flags().BoolVar(&validateFlags.noHistory, "no-history", false, "do not record this run in the history database")
}

func runValidate(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(validateFlags.format)
	if err != nil {
		return err
	}

	recorder, closeStore, err := openRecorder()
	if err != nil {
		return cli.NewCommandError("validate", err)
	}
	defer closeStore()

	if !validateFlags.watch {
		return validateOnce(cmd.Context(), format, recorder)
	}

	ctx := cli.SetupSignalHandler()

	// First pass before watching. Validation failures wait for the
	// next save; load failures and command errors are fatal since
	// there is nothing sensible to wait for.
	if err := validateOnce(ctx, format, recorder); watchFatal(err) {
		return err
	}

	watcher, err := watch.NewFileWatcher(watch.DefaultConfig(cfgFile), slog.Default())
	if err != nil {
		return cli.NewCommandError("validate", err)
	}

	return watcher.Watch(ctx, func() error {
		err := validateOnce(ctx, format, recorder)
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			// Keep watching; the next save may fix it. This covers
			// load failures too, since saves are not atomic.
			return nil
		}
		return err
	})
}

// watchFatal reports whether a first-pass error should abort watch
// mode. Exit-coded validation failures are not fatal; everything else,
// including formatter and recorder failures, is.
func watchFatal(err error) bool {
	if err == nil {
		return false
	}
	var exitErr *cli.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code == cli.ExitLoadFailed
	}
	return true
}

// validateOnce runs the pipeline a single time, renders the report,
// and records the run.
func validateOnce(ctx context.Context, format cli.OutputFormat, recorder *history.Recorder) error {
	res, err := config.Run(cfgFile, config.SnapshotEnv())
	if err != nil {
		return cli.Exit(cli.ExitLoadFailed, err)
	}

	view := cli.NewReportView(cfgFile, res.Report)
	if res.Resolved != nil {
		view.WithConfig(res.Resolved.Config)
	}
	if err := cli.NewFormatter(format).FormatTo(os.Stdout, view); err != nil {
		return cli.NewCommandError("validate", err)
	}

	if recorder != nil {
		if _, err := recorder.Record(ctx, cfgFile, res.Report); err != nil {
			slog.Warn("failed to record validation run", "error", err)
		}
	}

	if !res.Valid() {
		return cli.Exitf(cli.ExitValidationFailed,
			"configuration invalid: %d errors", len(res.Report.Errors()))
	}
	return nil
}

// openRecorder opens the history store, honoring --no-history.
func openRecorder() (*history.Recorder, func(), error) {
	if validateFlags.noHistory || validateFlags.historyDB == "" {
		return nil, func() {}, nil
	}

	store, err := storage.NewSQLiteStore(storage.DefaultSQLiteConfig(validateFlags.historyDB))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open history database: %w", err)
	}
	return history.NewRecorder(store), func() { _ = store.Close() }, nil
}
