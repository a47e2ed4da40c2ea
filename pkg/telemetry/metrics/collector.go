package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"openx-hq/openx/pkg/config"
)

// Run outcomes recorded by the collector.
const (
	OutcomeValid      = "valid"
	OutcomeInvalid    = "invalid"
	OutcomeLoadFailed = "load_failed"
)

// Config contains configuration for the metrics collector.
type Config struct {
	// Enabled turns metric recording on. When false every Record
	// method is a no-op.
	Enabled bool

	// Namespace is the Prometheus metric namespace (default "openx").
	Namespace string

	// Subsystem is the Prometheus metric subsystem (default "config").
	Subsystem string

	// RunDurationBuckets are the histogram buckets for pipeline run
	// durations in seconds.
	RunDurationBuckets []float64
}

// Collector registers and records all Prometheus metrics for the
// configuration pipeline. One collector owns one registry; the start
// command exposes it on /metrics.
type Collector struct {
	config   *Config
	registry *prometheus.Registry

	pipeline *PipelineMetrics
	watch    *WatchMetrics
}

// NewCollector creates a metrics collector backed by the given
// registry. A nil registry gets a fresh private one.
func NewCollector(cfg *Config, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "openx"
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = "config"
	}
	if len(cfg.RunDurationBuckets) == 0 {
		// Pipeline runs are file-sized: sub-millisecond to a few seconds.
		cfg.RunDurationBuckets = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0}
	}

	return &Collector{
		config:   cfg,
		registry: registry,
		pipeline: NewPipelineMetrics(cfg, registry),
		watch:    NewWatchMetrics(cfg, registry),
	}
}

// RecordRun records a completed pipeline run: its outcome, duration,
// and every diagnostic in the report broken down by severity and code.
func (c *Collector) RecordRun(report *config.Report, duration time.Duration) {
	if !c.config.Enabled {
		return
	}

	outcome := OutcomeValid
	if report.HasErrors() {
		outcome = OutcomeInvalid
	}
	c.pipeline.RecordRun(outcome, duration)

	for _, d := range report.Diagnostics {
		c.pipeline.RecordDiagnostic(d.Severity.String(), d.Code)
	}
}

// RecordLoadFailure records a run that never produced a report because
// the file could not be read or parsed.
func (c *Collector) RecordLoadFailure(duration time.Duration) {
	if !c.config.Enabled {
		return
	}
	c.pipeline.RecordRun(OutcomeLoadFailed, duration)
}

// RecordReload records a revalidation triggered by a file change in
// watch mode.
func (c *Collector) RecordReload() {
	if !c.config.Enabled {
		return
	}
	c.watch.RecordReload()
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
