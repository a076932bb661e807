package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/wolfeidau/adminconsole/internal/storage"
)

// Storage implements storage.Storage in memory.
// This implementation is for testing only - data is lost on restart.
type Storage struct {
	mu     sync.RWMutex
	values map[string]string
}

var _ storage.Storage = (*Storage)(nil)

// New creates an empty in-memory storage.
func New() *Storage {
	return &Storage{values: make(map[string]string)}
}

// Get returns the value for key.
func (s *Storage) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	return v, ok, nil
}

// Set writes all entries.
func (s *Storage) Set(ctx context.Context, entries map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	maps.Copy(s.values, entries)
	return nil
}

// Delete removes keys.
func (s *Storage) Delete(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, k := range keys {
		delete(s.values, k)
	}
	return nil
}

// Snapshot returns a copy of every stored entry.
func (s *Storage) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return maps.Clone(s.values)
}
