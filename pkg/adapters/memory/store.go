// Package memory provides an in-process KV backend, the moral equivalent of
// browser local storage, with an optional byte quota.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/memowall/pkg/core"
)

// Store is an in-memory implementation of core.KV.
type Store struct {
	mu     sync.RWMutex
	items  map[string][]byte
	quota  int // total bytes across keys and values; zero means unlimited
	writes uint64
}

// NewStore creates an empty store. quota limits the total size of keys plus
// values in bytes; zero disables the limit.
func NewStore(quota int) *Store {
	return &Store{items: make(map[string][]byte), quota: quota}
}

// Initialize implements core.KV.
func (s *Store) Initialize(_ context.Context) error {
	return nil
}

// GetItem implements core.KV.
func (s *Store) GetItem(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.items[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// SetItem implements core.KV. The previous value survives a quota error.
func (s *Store) SetItem(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.quota > 0 {
		used := s.usedLocked() - s.sizeLocked(key) + len(key) + len(value)
		if used > s.quota {
			return fmt.Errorf("%w: %d bytes over a %d byte quota", core.ErrQuotaExceeded, used, s.quota)
		}
	}
	s.items[key] = append([]byte(nil), value...)
	s.writes++
	return nil
}

// RemoveItem implements core.KV.
func (s *Store) RemoveItem(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
	return nil
}

// Keys implements core.Lister. An empty pattern matches everything.
func (s *Store) Keys(_ context.Context, pattern string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if pattern != "" && !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid key pattern: %q", pattern)
	}
	keys := make([]string, 0, len(s.items))
	for k := range s.items {
		if pattern != "" {
			if ok, _ := doublestar.Match(pattern, k); !ok {
				continue
			}
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Writes returns the number of successful SetItem calls.
func (s *Store) Writes() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "memory"
}

func (s *Store) usedLocked() int {
	total := 0
	for k, v := range s.items {
		total += len(k) + len(v)
	}
	return total
}

func (s *Store) sizeLocked(key string) int {
	v, ok := s.items[key]
	if !ok {
		return 0
	}
	return len(key) + len(v)
}
