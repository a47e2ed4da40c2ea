// Package history records configuration validation runs so operators can
// audit what was checked, when, and with what outcome.
//
// A Recorder converts pipeline reports into Run entries identified by a
// random UUID. Runs persist to a Store: an in-memory backend for tests
// and short-lived invocations, or SQLite for durable history (see the
// storage subpackage). The retention subpackage prunes old runs on a
// cron schedule.
package history
