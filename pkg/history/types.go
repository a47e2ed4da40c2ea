package history

import (
	"context"
	"time"
)

// Run is one recorded validation run: which document was checked, when,
// and what the pipeline found. Diagnostics are snapshotted as plain
// strings so stored runs stay readable across schema changes.
type Run struct {
	// ID is a random UUID assigned at record time.
	ID string `json:"id"`

	RecordedAt time.Time `json:"recorded_at"`
	ConfigPath string    `json:"config_path"`

	// Valid is true when the run produced zero errors.
	Valid bool `json:"valid"`

	ErrorCount   int `json:"error_count"`
	WarningCount int `json:"warning_count"`
	DefaultCount int `json:"default_count"`

	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

// Diagnostic is the stored form of one pipeline diagnostic.
type Diagnostic struct {
	Severity string `json:"severity"`
	Path     string `json:"path"`
	Message  string `json:"message"`
	Code     string `json:"code,omitempty"`
}

// Query filters stored runs. Zero fields match everything.
type Query struct {
	// Before matches runs recorded strictly before the given time.
	Before *time.Time

	// After matches runs recorded at or after the given time.
	After *time.Time

	// OnlyInvalid restricts results to runs with errors.
	OnlyInvalid bool

	// Limit caps the number of returned runs; 0 means no cap.
	Limit int
}

// Store persists validation runs. Implementations must be safe for
// concurrent use.
type Store interface {
	// Save persists a run.
	Save(ctx context.Context, run *Run) error

	// List returns runs matching the query, newest first.
	List(ctx context.Context, q *Query) ([]*Run, error)

	// Delete removes runs matching the query and returns the count.
	Delete(ctx context.Context, q *Query) (int64, error)

	// DeleteOldest removes runs beyond the newest keep, returning the
	// count removed.
	DeleteOldest(ctx context.Context, keep int64) (int64, error)

	// Count returns the total number of stored runs.
	Count(ctx context.Context) (int64, error)

	// Close releases backend resources.
	Close() error
}
