package storage

import (
	"context"
	"fmt"
	"sync"
)

// Memory is an in-process KV. Values are lost when the process exits.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
	fail   error
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

// FailWith makes every subsequent operation return err wrapped in
// ErrUnavailable, emulating a disabled or full backend. Passing nil restores
// normal behavior.
func (m *Memory) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail = err
}

func (m *Memory) unavailable() error {
	if m.fail == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, m.fail)
}

func (m *Memory) Get(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.unavailable(); err != nil {
		return "", err
	}
	v, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *Memory) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.unavailable(); err != nil {
		return err
	}
	m.values[key] = value
	return nil
}

func (m *Memory) Remove(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.unavailable(); err != nil {
		return err
	}
	delete(m.values, key)
	return nil
}

// Compile-time interface check
var _ KV = (*Memory)(nil)
