package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var fixedNow = time.UnixMilli(1700000000000)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fixedRand returns the given values in turn, then repeats the last one.
func fixedRand(values ...float64) func() float64 {
	i := 0
	return func() float64 {
		v := values[min(i, len(values)-1)]
		i++
		return v
	}
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("note-%d", n)
	}
}

func testCollectionConfig() CollectionConfig {
	return CollectionConfig{
		Viewport: Viewport{Width: 1280, Height: 800},
		Rand:     fixedRand(0.5),
		Now:      func() time.Time { return fixedNow },
		NewID:    sequentialIDs(),
	}
}

// mapKV is a minimal in-memory KV with failure injection.
type mapKV struct {
	mu     sync.Mutex
	items  map[string][]byte
	sets   int
	getErr error
	setErr error
	closed bool
}

func newMapKV() *mapKV {
	return &mapKV{items: make(map[string][]byte)}
}

func (m *mapKV) Initialize(context.Context) error { return nil }

func (m *mapKV) GetItem(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	v, ok := m.items[key]
	return v, ok, nil
}

func (m *mapKV) SetItem(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.items[key] = append([]byte(nil), value...)
	m.sets++
	return nil
}

func (m *mapKV) RemoveItem(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

func (m *mapKV) Close() error {
	m.closed = true
	return nil
}

func (m *mapKV) setCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sets
}

func (m *mapKV) failWrites(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setErr = err
}

func newTestBoard(t *testing.T, kv KV) *Board {
	t.Helper()
	b, err := NewBoard(BoardConfig{
		Store:      NewStore(kv, StoreConfig{Logger: discardLogger()}),
		Collection: testCollectionConfig(),
		Logger:     discardLogger(),
	})
	require.NoError(t, err)
	b.Open(context.Background())
	return b
}
