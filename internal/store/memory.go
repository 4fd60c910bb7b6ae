package store

import (
	"context"
	"sync"
	"time"

	"github.com/platewise/nutrition-engine/internal/model"
)

// MemoryStore is an in-memory Store used in tests and for runs where no
// persistence is configured.
type MemoryStore struct {
	mu   sync.RWMutex
	recs map[string]model.ResolvedIngredient
}

// NewMemory creates an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{recs: make(map[string]model.ResolvedIngredient)}
}

func (s *MemoryStore) Get(_ context.Context, name string) (*model.ResolvedIngredient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.recs[name]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (s *MemoryStore) Upsert(_ context.Context, rec model.ResolvedIngredient) error {
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs[rec.Name] = rec
	return nil
}

func (s *MemoryStore) UpsertBatch(_ context.Context, recs []model.ResolvedIngredient) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	for _, rec := range recs {
		if rec.UpdatedAt.IsZero() {
			rec.UpdatedAt = now
		}
		s.recs[rec.Name] = rec
	}
	return len(recs), nil
}

func (s *MemoryStore) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.recs, name)
	return nil
}

func (s *MemoryStore) DeleteAll(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.recs)
	s.recs = make(map[string]model.ResolvedIngredient)
	return n, nil
}

func (s *MemoryStore) DeleteNames(_ context.Context, names []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, name := range names {
		if _, ok := s.recs[name]; ok {
			delete(s.recs, name)
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) Migrate(_ context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }
