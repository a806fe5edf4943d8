package storage

import (
	"context"
	"sort"
	"sync"

	"GoalWatcher/internal/domain"
	"GoalWatcher/internal/ports"
)

// MemoryRepository keeps records in process memory with the same upsert
// semantics as the Postgres table. Used for dry runs and tests.
type MemoryRepository struct {
	mu      sync.RWMutex
	records map[string]domain.MatchRecord
	writes  int
}

var _ ports.MatchStore = (*MemoryRepository)(nil)

// NewMemoryRepository returns an empty store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{records: map[string]domain.MatchRecord{}}
}

// Find returns matching records in the same order as the Postgres store.
func (m *MemoryRepository) Find(_ context.Context, filter domain.MatchFilter) ([]domain.MatchRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var wanted map[string]bool
	if len(filter.IDs) > 0 {
		wanted = make(map[string]bool, len(filter.IDs))
		for _, id := range filter.IDs {
			wanted[id] = true
		}
	}

	var out []domain.MatchRecord
	for id, rec := range m.records {
		if wanted != nil && !wanted[id] {
			continue
		}
		if !filter.KickoffFrom.IsZero() && rec.KickoffAt.Before(filter.KickoffFrom) {
			continue
		}
		if !filter.KickoffTo.IsZero() && rec.KickoffAt.After(filter.KickoffTo) {
			continue
		}
		out = append(out, rec)
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if filter.OrderByLeague && a.League != b.League {
			return a.League < b.League
		}
		if !a.KickoffAt.Equal(b.KickoffAt) {
			return a.KickoffAt.Before(b.KickoffAt)
		}
		return a.ID < b.ID
	})

	return out, nil
}

// BulkUpsert applies ops atomically with respect to other callers.
func (m *MemoryRepository) BulkUpsert(_ context.Context, ops []domain.UpsertOp) (domain.UpsertResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var res domain.UpsertResult
	for _, op := range ops {
		var existing *domain.MatchRecord
		if rec, ok := m.records[op.ID]; ok {
			existing = &rec
		}

		next, applied := domain.Apply(existing, op)
		if !applied {
			continue
		}
		if existing == nil {
			res.Inserted++
		} else {
			res.Matched++
		}
		m.records[op.ID] = next
	}
	m.writes++

	return res, nil
}

// Get returns one record by identifier.
func (m *MemoryRepository) Get(id string) (domain.MatchRecord, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[id]
	return rec, ok
}

// Len reports how many records are stored.
func (m *MemoryRepository) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

// Writes reports how many bulk writes were applied.
func (m *MemoryRepository) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes
}
