package storage

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"
)

// MemoryRepository keeps records in memory. Records are copied on the way
// in and out, so callers never share state with the repository.
type MemoryRepository struct {
	mu      sync.RWMutex
	records map[string]Record
	now     func() time.Time
}

// NewMemoryRepository creates an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{records: make(map[string]Record), now: time.Now}
}

// Save stores a copy of rec, assigning an ID and timestamps as needed.
func (r *MemoryRepository) Save(ctx context.Context, rec *Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rec != nil && rec.ID != "" {
		if old, ok := r.records[rec.ID]; ok && rec.CreatedAt.IsZero() {
			rec.CreatedAt = old.CreatedAt
		}
	}
	if err := prepare(rec, r.now().UTC()); err != nil {
		return err
	}
	r.records[rec.ID] = clone(*rec)
	return nil
}

// Get returns a copy of the record with the given ID.
func (r *MemoryRepository) Get(ctx context.Context, id string) (*Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[id]
	if !ok {
		return nil, notFound(id)
	}
	out := clone(rec)
	return &out, nil
}

// List returns all records, most recently updated first.
func (r *MemoryRepository) List(ctx context.Context) ([]*Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Record, 0, len(r.records))
	for _, rec := range r.records {
		c := clone(rec)
		out = append(out, &c)
	}
	slices.SortFunc(out, func(a, b *Record) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

// Delete removes the record with the given ID.
func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[id]; !ok {
		return notFound(id)
	}
	delete(r.records, id)
	return nil
}

// Close is a no-op for the in-memory repository.
func (r *MemoryRepository) Close(ctx context.Context) error { return nil }

func clone(rec Record) Record {
	rec.Document.Nodes = slices.Clone(rec.Document.Nodes)
	return rec
}

var _ Repository = (*MemoryRepository)(nil)
