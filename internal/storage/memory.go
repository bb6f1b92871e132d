package storage

import (
	"context"
	"slices"
	"sync"
)

// MemorySlot keeps values in process memory. Nothing survives a restart.
type MemorySlot struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemorySlot creates an empty in-memory slot.
func NewMemorySlot() *MemorySlot {
	return &MemorySlot{values: make(map[string][]byte)}
}

// Get implements Slot.
func (m *MemorySlot) Get(_ context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.values[key]
	if !ok {
		return nil, ErrNotFound
	}

	return slices.Clone(value), nil
}

// Set implements Slot.
func (m *MemorySlot) Set(_ context.Context, key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = slices.Clone(value)

	return nil
}

// Ping implements Slot.
func (m *MemorySlot) Ping(context.Context) error { return nil }

// Close implements Slot.
func (m *MemorySlot) Close() error { return nil }
