package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PipelineMetrics tracks configuration pipeline runs.
//
// Metrics:
//   - openx_config_runs_total: run count by outcome (valid, invalid, load_failed)
//   - openx_config_run_duration_seconds: pipeline run duration histogram
//   - openx_config_diagnostics_total: diagnostics by severity and code
type PipelineMetrics struct {
	runsTotal        *prometheus.CounterVec
	runDuration      prometheus.Histogram
	diagnosticsTotal *prometheus.CounterVec
}

// NewPipelineMetrics creates and registers pipeline metrics with the
// provided registry.
func NewPipelineMetrics(cfg *Config, registry *prometheus.Registry) *PipelineMetrics {
	pm := &PipelineMetrics{
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "runs_total",
				Help:      "Total number of configuration pipeline runs",
			},
			[]string{"outcome"},
		),

		runDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "run_duration_seconds",
				Help:      "Duration of configuration pipeline runs in seconds",
				Buckets:   cfg.RunDurationBuckets,
			},
		),

		diagnosticsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "diagnostics_total",
				Help:      "Total diagnostics emitted, by severity and code",
			},
			[]string{"severity", "code"},
		),
	}

	registry.MustRegister(
		pm.runsTotal,
		pm.runDuration,
		pm.diagnosticsTotal,
	)

	return pm
}

// RecordRun records one pipeline run with its outcome and duration.
func (pm *PipelineMetrics) RecordRun(outcome string, duration time.Duration) {
	pm.runsTotal.WithLabelValues(outcome).Inc()
	pm.runDuration.Observe(duration.Seconds())
}

// RecordDiagnostic records one emitted diagnostic.
func (pm *PipelineMetrics) RecordDiagnostic(severity, code string) {
	pm.diagnosticsTotal.WithLabelValues(severity, code).Inc()
}

// WatchMetrics tracks watch-mode activity.
//
// Metrics:
//   - openx_config_watch_reloads_total: revalidations triggered by file changes
type WatchMetrics struct {
	reloadsTotal prometheus.Counter
}

// NewWatchMetrics creates and registers watch metrics with the
// provided registry.
func NewWatchMetrics(cfg *Config, registry *prometheus.Registry) *WatchMetrics {
	wm := &WatchMetrics{
		reloadsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "watch_reloads_total",
				Help:      "Total revalidations triggered by configuration file changes",
			},
		),
	}

	registry.MustRegister(wm.reloadsTotal)
	return wm
}

// RecordReload records one watch-triggered revalidation.
func (wm *WatchMetrics) RecordReload() {
	wm.reloadsTotal.Inc()
}
