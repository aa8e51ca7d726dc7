package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/aretw0/regfsm/pkg/domain"
)

// Store implements ports.ResultStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Result
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Result),
	}
}

// Save keeps a deep copy of r.
func (s *Store) Save(ctx context.Context, r *domain.Result) error {
	copied := r.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[r.ID] = copied
	return nil
}

// Load returns a copy, so the caller can't mutate stored automata by pointer.
func (s *Store) Load(ctx context.Context, id string) (*domain.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.data[id]
	if !ok {
		return nil, domain.ErrResultNotFound
	}
	return r.Clone(), nil
}

// Delete removes the result.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[id]; !ok {
		return domain.ErrResultNotFound
	}
	delete(s.data, id)
	return nil
}

// List returns stored IDs, newest first.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]*domain.Result, 0, len(s.data))
	for _, r := range s.data {
		results = append(results, r)
	}
	slices.SortFunc(results, func(a, b *domain.Result) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})

	ids := make([]string, len(results))
	for i, r := range results {
		ids[i] = r.ID
	}
	return ids, nil
}
