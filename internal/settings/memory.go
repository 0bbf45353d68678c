package settings

import (
	"context"
	"sync"
	"time"
)

// Memory is an in-process Settings backend. Values are lost on exit.
type Memory struct {
	mu     sync.RWMutex
	values map[string]time.Duration
}

// NewMemory creates an empty Memory backend.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]time.Duration)}
}

func (m *Memory) ReadDuration(_ context.Context, key string) (time.Duration, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.values[key]
	if !ok {
		return 0, ErrNotFound
	}
	return d, nil
}

func (m *Memory) WriteDuration(_ context.Context, key string, d time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = d
	return nil
}

// LoadAll returns a copy of every stored value.
func (m *Memory) LoadAll(_ context.Context) (map[string]time.Duration, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]time.Duration, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out, nil
}
