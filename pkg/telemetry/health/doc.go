// Package health provides liveness and readiness endpoints for the
// start command.
//
// Liveness answers as long as the process runs. Readiness runs every
// registered component check (the catalog and history databases) and
// degrades to 503 when any fails.
package health
