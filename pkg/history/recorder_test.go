package history_test

import (
	"bytes"
	"context"
	"testing"

	"openx-hq/openx/pkg/config"
	"openx-hq/openx/pkg/history"
	"openx-hq/openx/pkg/history/storage"
)

func TestRecorder_RecordsReportOutcome(t *testing.T) {
	tree := config.GenerateDefault()
	res := validateTree(t, tree, config.EnvSnapshot{
		"POSTGRES_HOST":     "db.internal",
		"POSTGRES_DB":       "exchange",
		"POSTGRES_USER":     "app",
		"POSTGRES_PASSWORD": "hunter2",
	})

	store := storage.NewMemoryStore()
	recorder := history.NewRecorder(store)

	run, err := recorder.Record(context.Background(), "config.yaml", res.Report)
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if run.ID == "" {
		t.Error("expected a run ID")
	}
	if !run.Valid {
		t.Errorf("expected valid run, got %d errors", run.ErrorCount)
	}

	stored, err := store.List(context.Background(), nil)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(stored) != 1 || stored[0].ID != run.ID {
		t.Errorf("run not persisted: %v", stored)
	}
}

func TestRecorder_CountsBySeverity(t *testing.T) {
	tree := config.GenerateDefault()
	// Break the version and leave credentials unresolved.
	tree.Lookup("exchange").Set("version", config.Str("1.2"))
	res := validateTree(t, tree, config.EnvSnapshot{})

	store := storage.NewMemoryStore()
	recorder := history.NewRecorder(store)

	run, err := recorder.Record(context.Background(), "config.yaml", res.Report)
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if run.Valid {
		t.Error("expected invalid run")
	}
	if run.ErrorCount == 0 {
		t.Error("expected error count > 0")
	}
	if run.ErrorCount+run.WarningCount+run.DefaultCount != len(run.Diagnostics) {
		t.Errorf("counts do not add up: %d+%d+%d != %d",
			run.ErrorCount, run.WarningCount, run.DefaultCount, len(run.Diagnostics))
	}
}

func validateTree(t *testing.T, tree *config.RawValue, env config.EnvSnapshot) *config.Result {
	t.Helper()
	data, err := config.Marshal(tree)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	res, err := config.RunReader(bytes.NewReader(data), env)
	if err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}
	return res
}
