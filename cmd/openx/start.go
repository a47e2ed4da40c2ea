package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"openx-hq/openx/pkg/catalog"
	"openx-hq/openx/pkg/cli"
	"openx-hq/openx/pkg/config"
	"openx-hq/openx/pkg/history"
	"openx-hq/openx/pkg/history/retention"
	"openx-hq/openx/pkg/history/storage"
	"openx-hq/openx/pkg/telemetry/health"
	"openx-hq/openx/pkg/telemetry/metrics"
	"openx-hq/openx/pkg/watch"
)

var startFlags struct {
	metricsAddr string
	catalogDB   string
	historyDB   string
	noHistory   bool
}

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Validate, seed the instrument catalog, and serve",
	Long: `Validate the configuration, seed the instrument catalog from it,
and stay up serving health and metrics endpoints.

The catalog database holds the validated tradeable universe (assets,
settlement currencies, expiry cadences) for downstream services. While
running, the configuration file is watched: each change is revalidated
and, when valid, reseeded into the catalog. An invalid edit leaves the
previous catalog contents in place.

Endpoints on --metrics-addr:
  /metrics   Prometheus exposition
  /healthz   liveness probe
  /readyz    readiness probe (checks catalog and history databases)
  /version   build information

Example:
  openx start --config exchange.yaml --metrics-addr :9090`,
	RunE: runStart,
}

func init() {
	rootCmd.AddCommand(startCmd)

	startCmd.Flags().StringVar(&startFlags.metricsAddr, "metrics-addr", ":9090", "listen address for health and metrics endpoints")
	startCmd.Flags().StringVar(&startFlags.catalogDB, "catalog-db", "openx-catalog.db", "instrument catalog database path")
	startCmd.Flags().StringVar(&startFlags.historyDB, "history-db", defaultHistoryPath, "validation history database path")
	startCmd.Flags().BoolVar(&startFlags.noHistory, "no-history", false, "do not record validation runs")
}

func runStart(cmd *cobra.Command, args []string) error {
	ctx := cli.SetupSignalHandler()
	logger := slog.Default().With("component", "start")

	collector := metrics.NewCollector(&metrics.Config{Enabled: true}, nil)

	// Initial validation must succeed before anything is served.
	res, err := runPipeline(collector)
	if err != nil {
		return err
	}

	view := cli.NewReportView(cfgFile, res.Report)
	if res.Resolved != nil {
		view.WithConfig(res.Resolved.Config)
	}
	fmt.Fprintln(os.Stdout, view.String())
	if !res.Valid() {
		return cli.Exitf(cli.ExitValidationFailed,
			"configuration invalid: %d errors", len(res.Report.Errors()))
	}

	// History store and retention.
	var historyStore history.Store
	var recorder *history.Recorder
	if !startFlags.noHistory && startFlags.historyDB != "" {
		store, err := storage.NewSQLiteStore(storage.DefaultSQLiteConfig(startFlags.historyDB))
		if err != nil {
			return cli.NewCommandError("start", fmt.Errorf("failed to open history database: %w", err))
		}
		defer store.Close()
		historyStore = store
		recorder = history.NewRecorder(store)

		scheduler := retention.NewScheduler(retention.NewPruner(store, retention.DefaultConfig()))
		if err := scheduler.Start(ctx); err != nil {
			return cli.NewCommandError("start", err)
		}
		defer scheduler.Stop()
	}
	recordRun(ctx, recorder, res.Report)

	// Instrument catalog.
	store, err := catalog.Open(catalog.DefaultStoreConfig(startFlags.catalogDB))
	if err != nil {
		return cli.NewCommandError("start", err)
	}
	defer store.Close()

	if err := store.Seed(ctx, res.Resolved.Config); err != nil {
		return cli.NewCommandError("start", err)
	}

	// Health and metrics endpoints.
	checker := health.New(0)
	checker.RegisterDB("catalog", store.DB())
	if sqliteStore, ok := historyStore.(*storage.SQLiteStore); ok {
		checker.RegisterDB("history", sqliteStore.DB())
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())
	mux.HandleFunc("/healthz", checker.LivenessHandler())
	mux.HandleFunc("/readyz", checker.ReadinessHandler())
	mux.HandleFunc("/version", health.VersionHandler(Version, GitCommit, BuildDate))

	server := &http.Server{
		Addr:              startFlags.metricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("serving health and metrics", "addr", startFlags.metricsAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Revalidate and reseed on configuration changes.
	watcher, err := watch.NewFileWatcher(watch.DefaultConfig(cfgFile), slog.Default())
	if err != nil {
		return cli.NewCommandError("start", err)
	}
	watchDone := make(chan struct{})
	go func() {
		defer close(watchDone)
		_ = watcher.Watch(ctx, func() error {
			return reseed(ctx, collector, recorder, store, logger)
		})
	}()

	select {
	case err := <-serverErr:
		return cli.NewCommandError("start", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}
	<-watchDone
	return nil
}

// runPipeline executes one pipeline run and feeds the outcome into the
// metrics collector.
func runPipeline(collector *metrics.Collector) (*config.Result, error) {
	started := time.Now()
	res, err := config.Run(cfgFile, config.SnapshotEnv())
	if err != nil {
		collector.RecordLoadFailure(time.Since(started))
		return nil, cli.Exit(cli.ExitLoadFailed, err)
	}
	collector.RecordRun(res.Report, time.Since(started))
	return res, nil
}

// reseed revalidates after a file change and, when valid, replaces the
// catalog contents. Invalid edits keep the previous catalog.
func reseed(ctx context.Context, collector *metrics.Collector, recorder *history.Recorder, store *catalog.Store, logger *slog.Logger) error {
	collector.RecordReload()

	res, err := runPipeline(collector)
	if err != nil {
		return fmt.Errorf("configuration no longer loads: %w", err)
	}
	recordRun(ctx, recorder, res.Report)

	if !res.Valid() {
		logger.Warn("configuration change is invalid, keeping previous catalog",
			"errors", len(res.Report.Errors()),
		)
		return nil
	}
	return store.Seed(ctx, res.Resolved.Config)
}

func recordRun(ctx context.Context, recorder *history.Recorder, report *config.Report) {
	if recorder == nil {
		return
	}
	if _, err := recorder.Record(ctx, cfgFile, report); err != nil {
		slog.Warn("failed to record validation run", "error", err)
	}
}
