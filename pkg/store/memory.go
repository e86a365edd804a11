package store

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore keeps renders in process memory. Intended for
// development and tests; contents vanish on restart.
type MemoryStore struct {
	mu      sync.RWMutex
	renders map[string]*Render
}

// NewMemoryStore creates an empty in-memory archive.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{renders: make(map[string]*Render)}
}

// Put records a render.
func (s *MemoryStore) Put(ctx context.Context, r *Render) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *r
	s.renders[r.ID] = &cp
	return nil
}

// Get retrieves a render by ID.
func (s *MemoryStore) Get(ctx context.Context, id string) (*Render, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.renders[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

// List returns render metadata, newest first.
func (s *MemoryStore) List(ctx context.Context, limit int) ([]*Render, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	s.mu.RLock()
	out := make([]*Render, 0, len(s.renders))
	for _, r := range s.renders {
		cp := *r
		cp.Data = nil
		out = append(out, &cp)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Close does nothing for the in-memory archive.
func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
