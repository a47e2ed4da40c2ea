package retention

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"openx-hq/openx/pkg/history"
)

// Config controls how long validation runs are retained.
type Config struct {
	// RetentionDays is how many days of runs to keep.
	// 0 means keep runs forever.
	RetentionDays int

	// MaxRuns caps the total number of stored runs.
	// 0 means unlimited.
	MaxRuns int64

	// PruneSchedule is a cron expression for scheduled pruning,
	// e.g. "0 3 * * *" for daily at 3 AM. Empty disables the scheduler.
	PruneSchedule string
}

// DefaultConfig returns the default retention configuration.
func DefaultConfig() *Config {
	return &Config{
		RetentionDays: 90,
		MaxRuns:       0,
		PruneSchedule: "0 3 * * *",
	}
}

// Pruner enforces the retention policy on a run store.
type Pruner struct {
	store  history.Store
	config *Config
	logger *slog.Logger
}

// NewPruner creates a pruner over the given store.
func NewPruner(store history.Store, config *Config) *Pruner {
	if config == nil {
		config = DefaultConfig()
	}
	return &Pruner{
		store:  store,
		config: config,
		logger: slog.Default().With("component", "history.retention"),
	}
}

// Prune deletes runs older than the retention period, then trims the
// store down to MaxRuns if a cap is set. Returns the total deleted.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	var total int64

	if p.config.RetentionDays > 0 {
		cutoff := time.Now().AddDate(0, 0, -p.config.RetentionDays)
		deleted, err := p.store.Delete(ctx, &history.Query{Before: &cutoff})
		if err != nil {
			return total, fmt.Errorf("prune by age failed: %w", err)
		}
		total += deleted
	}

	if p.config.MaxRuns > 0 {
		deleted, err := p.store.DeleteOldest(ctx, p.config.MaxRuns)
		if err != nil {
			return total, fmt.Errorf("prune by count failed: %w", err)
		}
		total += deleted
	}

	if total > 0 {
		p.logger.Info("run history pruned",
			"deleted", total,
			"retention_days", p.config.RetentionDays,
			"max_runs", p.config.MaxRuns,
		)
	}
	return total, nil
}
