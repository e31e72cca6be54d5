// Package memory holds a process-local KV store for development and tests.
package memory

import (
	"context"
	"sync"

	"github.com/cellarhouse/storefront-cache/internal/core/ports"
)

// KVStore is a map guarded by a RWMutex. Nothing survives a restart.
type KVStore struct {
	mu   sync.RWMutex
	data map[string]string
}

var _ ports.KVStore = (*KVStore)(nil)

func NewKVStore() *KVStore { return &KVStore{data: make(map[string]string)} }

func (s *KVStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *KVStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *KVStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *KVStore) MultiRemove(_ context.Context, keys []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.data, k)
	}
	return nil
}

// Len returns the number of stored keys.
func (s *KVStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
