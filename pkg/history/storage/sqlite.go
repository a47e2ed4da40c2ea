package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"openx-hq/openx/pkg/history"
)

// schemaVersion is the current run-history schema version.
const schemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    recorded_at TIMESTAMP NOT NULL,
    config_path TEXT NOT NULL,
    valid BOOLEAN NOT NULL,
    error_count INTEGER NOT NULL,
    warning_count INTEGER NOT NULL,
    default_count INTEGER NOT NULL,
    diagnostics TEXT
);

CREATE INDEX IF NOT EXISTS idx_runs_recorded_at ON runs(recorded_at);
CREATE INDEX IF NOT EXISTS idx_runs_valid ON runs(valid);

CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY
);
`

// SQLiteConfig configures the SQLite history backend.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// MaxOpenConns is the maximum number of open connections.
	// Default: 10
	MaxOpenConns int

	// WALMode enables write-ahead logging for better concurrency.
	// Default: true
	WALMode bool

	// BusyTimeout is how long to wait for locks before failing.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default history database configuration.
func DefaultSQLiteConfig(path string) *SQLiteConfig {
	return &SQLiteConfig{
		Path:         path,
		MaxOpenConns: 10,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStore implements history.Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStore opens (creating if needed) the history database at the
// configured path and initializes its schema.
func NewSQLiteStore(cfg *SQLiteConfig) (*SQLiteStore, error) {
	if cfg == nil || cfg.Path == "" {
		return nil, fmt.Errorf("history database path cannot be empty")
	}
	if cfg.MaxOpenConns <= 0 {
		cfg.MaxOpenConns = 10
	}
	if cfg.BusyTimeout <= 0 {
		cfg.BusyTimeout = 5 * time.Second
	}

	db, err := sql.Open("sqlite3", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)

	s := &SQLiteStore{
		db:     db,
		config: cfg,
		logger: slog.Default().With("component", "history.storage.sqlite"),
	}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	s.logger.Debug("history database initialized", "path", cfg.Path, "wal_mode", cfg.WALMode)
	return s, nil
}

func (s *SQLiteStore) initialize() error {
	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", s.config.BusyTimeout.Milliseconds())); err != nil {
		return fmt.Errorf("failed to set busy timeout: %w", err)
	}
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if _, err := s.db.Exec("INSERT OR IGNORE INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("failed to record schema version: %w", err)
	}
	return nil
}

// Save persists a run.
func (s *SQLiteStore) Save(ctx context.Context, run *history.Run) error {
	diagnostics, err := json.Marshal(run.Diagnostics)
	if err != nil {
		return fmt.Errorf("failed to encode diagnostics: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (id, recorded_at, config_path, valid, error_count, warning_count, default_count, diagnostics)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.RecordedAt, run.ConfigPath, run.Valid,
		run.ErrorCount, run.WarningCount, run.DefaultCount, string(diagnostics),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

// List returns runs matching the query, newest first.
func (s *SQLiteStore) List(ctx context.Context, q *history.Query) ([]*history.Run, error) {
	query := "SELECT id, recorded_at, config_path, valid, error_count, warning_count, default_count, diagnostics FROM runs"
	where, args := buildWhere(q)
	query += where + " ORDER BY recorded_at DESC"
	if q != nil && q.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", q.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var out []*history.Run
	for rows.Next() {
		var run history.Run
		var diagnostics string
		if err := rows.Scan(&run.ID, &run.RecordedAt, &run.ConfigPath, &run.Valid,
			&run.ErrorCount, &run.WarningCount, &run.DefaultCount, &diagnostics); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if diagnostics != "" {
			if err := json.Unmarshal([]byte(diagnostics), &run.Diagnostics); err != nil {
				return nil, fmt.Errorf("failed to decode diagnostics for run %s: %w", run.ID, err)
			}
		}
		out = append(out, &run)
	}
	return out, rows.Err()
}

// Delete removes runs matching the query.
func (s *SQLiteStore) Delete(ctx context.Context, q *history.Query) (int64, error) {
	where, args := buildWhere(q)
	res, err := s.db.ExecContext(ctx, "DELETE FROM runs"+where, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete runs: %w", err)
	}
	return res.RowsAffected()
}

// DeleteOldest removes runs beyond the newest keep.
func (s *SQLiteStore) DeleteOldest(ctx context.Context, keep int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM runs WHERE id NOT IN (
			SELECT id FROM runs ORDER BY recorded_at DESC LIMIT ?
		)`, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to delete oldest runs: %w", err)
	}
	return res.RowsAffected()
}

// Count returns the total number of stored runs.
func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM runs").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count runs: %w", err)
	}
	return n, nil
}

// DB exposes the underlying handle for health checks.
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func buildWhere(q *history.Query) (string, []interface{}) {
	if q == nil {
		return "", nil
	}
	var clauses []string
	var args []interface{}
	if q.Before != nil {
		clauses = append(clauses, "recorded_at < ?")
		args = append(args, *q.Before)
	}
	if q.After != nil {
		clauses = append(clauses, "recorded_at >= ?")
		args = append(args, *q.After)
	}
	if q.OnlyInvalid {
		clauses = append(clauses, "valid = 0")
	}
	if len(clauses) == 0 {
		return "", nil
	}
	where := " WHERE " + clauses[0]
	for _, c := range clauses[1:] {
		where += " AND " + c
	}
	return where, args
}
