// Package memory provides an in-process storage.Store
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/wricardo/evolution-merge-game/storage"
)

// Store keeps values in a map
type Store struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// New creates an empty memory store
func New() *Store {
	return &Store{values: make(map[string][]byte)}
}

// Get returns a copy of the stored value
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return slices.Clone(value), nil
}

// Put stores a copy of value
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := storage.ValidateKey(key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = slices.Clone(value)
	return nil
}

// Delete removes key
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

// Close is a no-op
func (s *Store) Close() error {
	return nil
}
