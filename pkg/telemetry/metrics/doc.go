// Package metrics provides Prometheus metrics for the configuration
// pipeline.
//
// The Collector registers run counters, a run duration histogram, and
// per-severity/per-code diagnostic counters against a private registry.
// The start command mounts Collector.Handler on /metrics; watch mode
// additionally counts file-change reloads.
//
// All Record methods are no-ops when the collector is created with
// Enabled: false, so call sites never need their own guards.
package metrics
