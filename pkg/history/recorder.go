package history

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"openx-hq/openx/pkg/config"
)

// Recorder turns pipeline reports into stored runs.
type Recorder struct {
	store  Store
	logger *slog.Logger
}

// NewRecorder creates a recorder over the given store.
func NewRecorder(store Store) *Recorder {
	return &Recorder{
		store:  store,
		logger: slog.Default().With("component", "history.recorder"),
	}
}

// Record persists the outcome of one pipeline run and returns the stored
// entry.
func (r *Recorder) Record(ctx context.Context, configPath string, report *config.Report) (*Run, error) {
	run := &Run{
		ID:         uuid.NewString(),
		RecordedAt: time.Now().UTC(),
		ConfigPath: configPath,
		Valid:      !report.HasErrors(),
	}

	for _, d := range report.Diagnostics {
		switch {
		case d.Severity == config.SeverityError:
			run.ErrorCount++
		case d.Code == config.CodeDefaultApplied:
			run.DefaultCount++
		default:
			run.WarningCount++
		}
		run.Diagnostics = append(run.Diagnostics, Diagnostic{
			Severity: d.Severity.String(),
			Path:     d.Path,
			Message:  d.Message,
			Code:     d.Code,
		})
	}

	if err := r.store.Save(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to record run: %w", err)
	}

	r.logger.Debug("validation run recorded",
		"run_id", run.ID,
		"config_path", run.ConfigPath,
		"valid", run.Valid,
		"errors", run.ErrorCount,
		"warnings", run.WarningCount,
	)
	return run, nil
}
