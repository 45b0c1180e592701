// Package inmemory provides an in-memory invocation history store, useful
// for tests and for runs where persistence is disabled.
package inmemory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/spoolhq/spool/pkg/history"
)

// Store implements history.Store with a mutex-guarded map.
type Store struct {
	mu          sync.RWMutex
	invocations map[string]*history.Invocation
}

// NewStore creates an empty in-memory history store.
func NewStore() *Store {
	return &Store{
		invocations: make(map[string]*history.Invocation),
	}
}

func (s *Store) Put(_ context.Context, inv *history.Invocation) error {
	if inv == nil {
		return errors.New("cannot store nil invocation")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *inv
	s.invocations[inv.ID] = &cp

	return nil
}

func (s *Store) Get(_ context.Context, id string) (*history.Invocation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	inv, ok := s.invocations[id]
	if !ok {
		return nil, history.ErrNotFound{ID: id}
	}

	cp := *inv
	return &cp, nil
}

func (s *Store) List(_ context.Context, limit int) ([]*history.Invocation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*history.Invocation, 0, len(s.invocations))
	for _, inv := range s.invocations {
		cp := *inv
		result = append(result, &cp)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}

	return result, nil
}

func (s *Store) Close() error {
	return nil
}
