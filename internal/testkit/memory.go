package testkit

import (
	"context"
	"sync"

	"qrnglab/domain/core"
	"qrnglab/domain/qrng"
)

// InMemoryRunRepository keeps run history in memory. Backs the UI and
// API when no database is configured, and the repository contract
// tests.
type InMemoryRunRepository struct {
	mu      sync.RWMutex
	records []qrng.RunRecord
}

// NewInMemoryRunRepository creates an empty in-memory history
func NewInMemoryRunRepository() *InMemoryRunRepository {
	return &InMemoryRunRepository{}
}

// SaveRun appends one record
func (r *InMemoryRunRepository) SaveRun(ctx context.Context, record qrng.RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, record)
	return nil
}

// GetRun returns a record by ID
func (r *InMemoryRunRepository) GetRun(ctx context.Context, id core.RunID) (*qrng.RunRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.records {
		if r.records[i].ID == id {
			record := r.records[i]
			return &record, nil
		}
	}
	return nil, core.ErrRunNotFound
}

// ListRuns returns up to limit records, newest first
func (r *InMemoryRunRepository) ListRuns(ctx context.Context, limit int) ([]qrng.RunRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if limit <= 0 || limit > len(r.records) {
		limit = len(r.records)
	}
	out := make([]qrng.RunRecord, 0, limit)
	for i := len(r.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.records[i])
	}
	return out, nil
}
