// Package telemetry provides observability for the configuration
// pipeline and its long-running commands.
//
// # Components
//
//   - logging: structured logging with secret redaction
//   - metrics: Prometheus metrics for pipeline runs
//   - health: liveness and readiness endpoints for the start command
//
// Short-lived commands (validate, init) only use logging. The start
// command and validate --watch additionally expose metrics and health
// endpoints over HTTP.
package telemetry
