package core

import (
	"context"
	"strings"
)

// KV defines the contract for the local key-value storage that backs the board.
// It mirrors the shape of browser local storage: opaque values under string keys.
// Adhering to this interface keeps the board independent of the underlying
// storage mechanism (memory, filesystem, SQLite).
type KV interface {
	// GetItem returns the value stored under key.
	// ok is false when the key has never been written (or was removed).
	GetItem(ctx context.Context, key string) (value []byte, ok bool, err error)

	// SetItem replaces the value under key.
	// A failed SetItem must leave the previous value intact.
	SetItem(ctx context.Context, key string, value []byte) error

	// RemoveItem deletes key. Removing a missing key is not an error.
	RemoveItem(ctx context.Context, key string) error

	// Initialize ensures the underlying storage is ready (directories, schema).
	Initialize(ctx context.Context) error
}

// Lister is implemented by backends able to enumerate their keys.
type Lister interface {
	Keys(ctx context.Context, pattern string) ([]string, error)
}

// Watchable is implemented by backends that can report external changes.
// The returned channel is closed when ctx is cancelled.
type Watchable interface {
	Watch(ctx context.Context, pattern string) (<-chan Event, error)
}

// LiteralPattern escapes glob metacharacters so key matches only itself
// when passed to Lister.Keys or Watchable.Watch.
func LiteralPattern(key string) string {
	var b strings.Builder
	b.Grow(len(key))
	for _, r := range key {
		switch r {
		case '*', '?', '[', ']', '{', '}', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Closer is implemented by backends holding resources (file handles, DB pools).
type Closer interface {
	Close() error
}
