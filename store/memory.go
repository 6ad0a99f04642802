package store

import (
	"context"
	"sync"
)

// Memory keeps the token in process memory. Useful for tests and for hosts
// that must not write to disk.
type Memory struct {
	mu    sync.Mutex
	key   string
	token string
	set   bool
}

// NewMemory returns an empty Memory store.
func NewMemory(opts ...Option) *Memory {
	o := buildOptions(opts)
	return &Memory{key: o.key}
}

func (m *Memory) Save(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	m.set = true
	return nil
}

func (m *Memory) Load(_ context.Context) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, m.set, nil
}

func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	m.set = false
	return nil
}

// Key returns the entry name.
func (m *Memory) Key() string {
	return m.key
}
