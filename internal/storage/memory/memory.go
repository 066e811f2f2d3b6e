// Package memory provides an in-process KeyValueStorage for tests and
// throwaway sessions. Nothing survives a restart.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/bobmcallan/stock-analyser/internal/common"
	"github.com/bobmcallan/stock-analyser/internal/interfaces"
)

// KVStorage implements interfaces.KeyValueStorage with a guarded map.
type KVStorage struct {
	mu    sync.RWMutex
	items map[string]string
}

// NewKVStorage creates an empty store.
func NewKVStorage() *KVStorage {
	return &KVStorage{items: make(map[string]string)}
}

func (s *KVStorage) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", interfaces.ErrNotFound, key)
	}
	return v, nil
}

func (s *KVStorage) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	s.items[key] = value
	s.mu.Unlock()
	return nil
}

func (s *KVStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.items, key)
	s.mu.Unlock()
	return nil
}

func (s *KVStorage) GetAll(_ context.Context) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.items))
	for k, v := range s.items {
		out[k] = v
	}
	return out, nil
}

// Manager implements interfaces.StorageManager over a KVStorage.
type Manager struct {
	kv     *KVStorage
	logger *common.Logger
}

// NewManager creates a memory-backed storage manager.
func NewManager(logger *common.Logger) *Manager {
	logger.Debug().Msg("memory storage manager initialized")
	return &Manager{kv: NewKVStorage(), logger: logger}
}

func (m *Manager) KeyValueStorage() interfaces.KeyValueStorage { return m.kv }
func (m *Manager) DB() interface{}                             { return nil }
func (m *Manager) Close() error                                { return nil }
