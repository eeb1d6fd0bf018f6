package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/alnah/go-marksnap"
)

// Memory is a map-backed marksnap.Store. Safe for concurrent use.
type Memory struct {
	mu   sync.RWMutex
	data map[string]string
}

var _ marksnap.Store = (*Memory)(nil)

// NewMemory creates an empty Memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

// Get returns the value stored under key, or marksnap.ErrKeyNotFound.
func (m *Memory) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", marksnap.ErrKeyNotFound, key)
	}
	return v, nil
}

// Set stores value under key.
func (m *Memory) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}
