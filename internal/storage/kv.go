// Package storage persists the register's three collections as JSON blobs
// in a string key-value store. The store backend is pluggable; the
// collection keys and blob format are fixed.
package storage

import (
	"context"
	"sync"
)

// KV is a minimal string key-value store. Get reports presence explicitly
// so callers can tell an absent key from an empty value.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// MemoryKV is a map-backed KV for tests and throwaway runs. State is lost
// on process exit.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string]string)}
}

func (m *MemoryKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.data[key]
	return value, ok, nil
}

func (m *MemoryKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}
