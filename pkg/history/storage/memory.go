package storage

import (
	"context"
	"sort"
	"sync"

	"openx-hq/openx/pkg/history"
)

// MemoryStore keeps runs in process memory. Intended for tests and for
// one-shot invocations where durable history is not wanted.
type MemoryStore struct {
	mu   sync.RWMutex
	runs []*history.Run
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Save persists a run.
func (m *MemoryStore) Save(ctx context.Context, run *history.Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, run)
	return nil
}

// List returns runs matching the query, newest first.
func (m *MemoryStore) List(ctx context.Context, q *history.Query) ([]*history.Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*history.Run
	for _, r := range m.runs {
		if matches(r, q) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].RecordedAt.After(out[j].RecordedAt)
	})
	if q != nil && q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

// Delete removes runs matching the query.
func (m *MemoryStore) Delete(ctx context.Context, q *history.Query) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var kept []*history.Run
	var deleted int64
	for _, r := range m.runs {
		if matches(r, q) {
			deleted++
			continue
		}
		kept = append(kept, r)
	}
	m.runs = kept
	return deleted, nil
}

// DeleteOldest removes runs beyond the newest keep.
func (m *MemoryStore) DeleteOldest(ctx context.Context, keep int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if int64(len(m.runs)) <= keep {
		return 0, nil
	}
	sort.Slice(m.runs, func(i, j int) bool {
		return m.runs[i].RecordedAt.After(m.runs[j].RecordedAt)
	})
	deleted := int64(len(m.runs)) - keep
	m.runs = m.runs[:keep]
	return deleted, nil
}

// Count returns the number of stored runs.
func (m *MemoryStore) Count(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.runs)), nil
}

// Close is a no-op for the memory store.
func (m *MemoryStore) Close() error {
	return nil
}

func matches(r *history.Run, q *history.Query) bool {
	if q == nil {
		return true
	}
	if q.Before != nil && !r.RecordedAt.Before(*q.Before) {
		return false
	}
	if q.After != nil && r.RecordedAt.Before(*q.After) {
		return false
	}
	if q.OnlyInvalid && r.Valid {
		return false
	}
	return true
}
