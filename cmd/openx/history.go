package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"openx-hq/openx/pkg/cli"
	"openx-hq/openx/pkg/history"
	"openx-hq/openx/pkg/history/retention"
	"openx-hq/openx/pkg/history/storage"
)

var historyFlags struct {
	db     string
	limit  int
	failed bool
	format string
	prune  bool
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past validation runs",
	Long: `List validation runs recorded by the validate and start commands.

Runs are shown newest first with their outcome and diagnostic counts.

Examples:
  # Show the last 20 runs
  openx history

  # Only failed runs, as JSON
  openx history --failed --format json

  # Apply the retention policy now
  openx history --prune`,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().StringVar(&historyFlags.db, "history-db", defaultHistoryPath, "validation history database path")
	historyCmd.Flags().IntVar(&historyFlags.limit, "limit", 20, "maximum number of runs to show")
	historyCmd.Flags().BoolVar(&historyFlags.failed, "failed", false, "only show runs with validation errors")
	historyCmd.Flags().StringVar(&historyFlags.format, "format", "text", "output format: text, json, csv")
	historyCmd.Flags().BoolVar(&historyFlags.prune, "prune", false, "delete runs past the retention policy and exit")
}

func runHistory(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(historyFlags.format)
	if err != nil {
		return err
	}

	store, err := storage.NewSQLiteStore(storage.DefaultSQLiteConfig(historyFlags.db))
	if err != nil {
		return cli.NewCommandError("history", fmt.Errorf("failed to open history database: %w", err))
	}
	defer store.Close()

	if historyFlags.prune {
		pruner := retention.NewPruner(store, retention.DefaultConfig())
		deleted, err := pruner.Prune(cmd.Context())
		if err != nil {
			return cli.NewCommandError("history", err)
		}
		fmt.Printf("Pruned %d runs\n", deleted)
		return nil
	}

	runs, err := store.List(cmd.Context(), &history.Query{
		OnlyInvalid: historyFlags.failed,
		Limit:       historyFlags.limit,
	})
	if err != nil {
		return cli.NewCommandError("history", err)
	}

	return cli.NewFormatter(format).FormatTo(os.Stdout, &runListView{Runs: runs})
}

// runListView renders a list of validation runs.
type runListView struct {
	Runs []*history.Run `json:"runs"`
}

func (v *runListView) String() string {
	if len(v.Runs) == 0 {
		return "No validation runs recorded."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-36s  %-20s  %-8s  %6s  %8s  %s\n",
		"ID", "RECORDED", "RESULT", "ERRORS", "WARNINGS", "FILE")
	for _, run := range v.Runs {
		result := "valid"
		if !run.Valid {
			result = "invalid"
		}
		fmt.Fprintf(&b, "%-36s  %-20s  %-8s  %6d  %8d  %s\n",
			run.ID,
			run.RecordedAt.Format(time.RFC3339),
			result,
			run.ErrorCount,
			run.WarningCount,
			run.ConfigPath,
		)
	}
	return strings.TrimRight(b.String(), "\n")
}

// Headers implements cli.Tabular.
func (v *runListView) Headers() []string {
	return []string{"id", "recorded_at", "config_path", "valid", "errors", "warnings", "defaults"}
}

// Rows implements cli.Tabular.
func (v *runListView) Rows() [][]string {
	rows := make([][]string, 0, len(v.Runs))
	for _, run := range v.Runs {
		rows = append(rows, []string{
			run.ID,
			run.RecordedAt.Format(time.RFC3339),
			run.ConfigPath,
			strconv.FormatBool(run.Valid),
			strconv.Itoa(run.ErrorCount),
			strconv.Itoa(run.WarningCount),
			strconv.Itoa(run.DefaultCount),
		})
	}
	return rows
}
