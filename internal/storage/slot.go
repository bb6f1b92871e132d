// Package storage provides durable key-value slots the comment store persists into.
// A slot holds one opaque blob per key; every write replaces the whole value.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Common storage errors.
var (
	ErrNotFound        = errors.New("storage key not found")
	ErrInvalidKey      = errors.New("invalid storage key")
	ErrUnsupportedType = errors.New("unsupported storage type")
)

// Slot is a durable key-value store. Implementations must make a single Set
// atomic with respect to concurrent Get calls on the same key.
type Slot interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set replaces the value stored under key.
	Set(ctx context.Context, key string, value []byte) error
	// Ping checks that the backing medium is reachable.
	Ping(ctx context.Context) error
	// Close releases the resources held by the slot.
	Close() error
}

func validateKey(key string) error {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}

	return nil
}
