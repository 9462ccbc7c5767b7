// Package store provides Store implementations.
package store

import (
	"context"
	"sync"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory keeps documents in a map. Values are copied in and out so callers
// cannot alias stored bytes.
type Memory struct {
	mu   sync.RWMutex
	docs map[string][]byte

	// FailReads / FailWrites make every Get / Set return the error.
	// Used to exercise fail-soft behavior.
	FailReads  error
	FailWrites error
}

func NewMemory() *Memory {
	return &Memory{docs: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.FailReads != nil {
		return nil, false, m.FailReads
	}
	doc, ok := m.docs[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), doc...), true, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailWrites != nil {
		return m.FailWrites
	}
	m.docs[key] = append([]byte(nil), value...)
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.docs, key)
	return nil
}

// Keys returns the stored keys in no particular order.
func (m *Memory) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.docs))
	for k := range m.docs {
		keys = append(keys, k)
	}
	return keys
}
