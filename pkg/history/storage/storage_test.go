package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"openx-hq/openx/pkg/history"
)

// storeFactories builds each backend fresh per test so both implement
// the same contract.
func storeFactories(t *testing.T) map[string]func() history.Store {
	return map[string]func() history.Store{
		"memory": func() history.Store {
			return NewMemoryStore()
		},
		"sqlite": func() history.Store {
			store, err := NewSQLiteStore(DefaultSQLiteConfig(filepath.Join(t.TempDir(), "history.db")))
			if err != nil {
				t.Fatalf("failed to create sqlite store: %v", err)
			}
			return store
		},
	}
}

func makeRun(id string, recordedAt time.Time, valid bool) *history.Run {
	return &history.Run{
		ID:         id,
		RecordedAt: recordedAt,
		ConfigPath: "config.yaml",
		Valid:      valid,
		ErrorCount: map[bool]int{true: 0, false: 2}[valid],
		Diagnostics: []history.Diagnostic{
			{Severity: "warning", Path: "storage.postgres.port", Message: "field not specified, using default 5432", Code: "DEFAULT_APPLIED"},
		},
	}
}

func TestStore_SaveAndList(t *testing.T) {
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			store := factory()
			defer store.Close()
			ctx := context.Background()

			base := time.Now().UTC().Truncate(time.Second)
			for i, run := range []*history.Run{
				makeRun("run-1", base.Add(-2*time.Hour), true),
				makeRun("run-2", base.Add(-1*time.Hour), false),
				makeRun("run-3", base, true),
			} {
				if err := store.Save(ctx, run); err != nil {
					t.Fatalf("save %d failed: %v", i, err)
				}
			}

			runs, err := store.List(ctx, nil)
			if err != nil {
				t.Fatalf("list failed: %v", err)
			}
			if len(runs) != 3 {
				t.Fatalf("expected 3 runs, got %d", len(runs))
			}
			if runs[0].ID != "run-3" {
				t.Errorf("expected newest first, got %s", runs[0].ID)
			}
			if len(runs[0].Diagnostics) != 1 {
				t.Errorf("diagnostics not preserved: %v", runs[0].Diagnostics)
			}

			invalid, err := store.List(ctx, &history.Query{OnlyInvalid: true})
			if err != nil {
				t.Fatalf("filtered list failed: %v", err)
			}
			if len(invalid) != 1 || invalid[0].ID != "run-2" {
				t.Errorf("expected only run-2, got %v", invalid)
			}

			limited, err := store.List(ctx, &history.Query{Limit: 2})
			if err != nil {
				t.Fatalf("limited list failed: %v", err)
			}
			if len(limited) != 2 {
				t.Errorf("expected 2 runs, got %d", len(limited))
			}
		})
	}
}

func TestStore_DeleteByAge(t *testing.T) {
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			store := factory()
			defer store.Close()
			ctx := context.Background()

			base := time.Now().UTC().Truncate(time.Second)
			store.Save(ctx, makeRun("old", base.Add(-48*time.Hour), true))
			store.Save(ctx, makeRun("new", base, true))

			cutoff := base.Add(-24 * time.Hour)
			deleted, err := store.Delete(ctx, &history.Query{Before: &cutoff})
			if err != nil {
				t.Fatalf("delete failed: %v", err)
			}
			if deleted != 1 {
				t.Errorf("expected 1 deleted, got %d", deleted)
			}

			n, err := store.Count(ctx)
			if err != nil {
				t.Fatalf("count failed: %v", err)
			}
			if n != 1 {
				t.Errorf("expected 1 remaining, got %d", n)
			}
		})
	}
}

func TestStore_DeleteOldest(t *testing.T) {
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			store := factory()
			defer store.Close()
			ctx := context.Background()

			base := time.Now().UTC().Truncate(time.Second)
			for i := 0; i < 5; i++ {
				store.Save(ctx, makeRun(
					string(rune('a'+i)),
					base.Add(time.Duration(i)*time.Minute),
					true,
				))
			}

			deleted, err := store.DeleteOldest(ctx, 2)
			if err != nil {
				t.Fatalf("delete oldest failed: %v", err)
			}
			if deleted != 3 {
				t.Errorf("expected 3 deleted, got %d", deleted)
			}

			runs, _ := store.List(ctx, nil)
			if len(runs) != 2 {
				t.Fatalf("expected 2 remaining, got %d", len(runs))
			}
			if runs[0].ID != "e" || runs[1].ID != "d" {
				t.Errorf("expected newest runs kept, got %s, %s", runs[0].ID, runs[1].ID)
			}
		})
	}
}
