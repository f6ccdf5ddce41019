// Package storage provides the string key-value capability the profile store
// persists through. Backends hold opaque values; they never interpret them.
package storage

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by Get when the key holds no value.
	ErrNotFound = errors.New("storage: key not found")
	// ErrUnavailable wraps any backend failure: quota, I/O, network, or a
	// backend that was disabled.
	ErrUnavailable = errors.New("storage: unavailable")
)

// KV is a string key-value store. Implementations are safe for concurrent use.
type KV interface {
	// Get returns the value stored under key or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
	// Remove deletes key. Removing an absent key succeeds.
	Remove(ctx context.Context, key string) error
}
