// Package memory provides an in-memory ExecutionStore.
package memory

import (
	"context"
	"sync"

	"github.com/KirtiJha/langgraph-mcp-studio-sub005/pkg/domain"
)

// Store implements ports.ExecutionStore in memory. Safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	data map[string]*domain.Execution
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Execution),
	}
}

// Save persists a deep copy of the execution, isolating the stored record
// from later caller mutation.
func (s *Store) Save(ctx context.Context, exec *domain.Execution) error {
	cp := exec.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[exec.ID] = cp
	return nil
}

// Load retrieves a copy of the execution record.
func (s *Store) Load(ctx context.Context, id string) (*domain.Execution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	exec, ok := s.data[id]
	if !ok {
		return nil, domain.ErrExecutionNotFound
	}
	return exec.Clone(), nil
}

// Delete removes the record.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

// List returns the stored execution ids.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	return ids, nil
}
