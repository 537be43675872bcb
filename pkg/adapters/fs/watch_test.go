package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/memowall/pkg/core"
)

func nextEvent(t *testing.T, events <-chan core.Event) core.Event {
	t.Helper()
	select {
	case e, ok := <-events:
		require.True(t, ok, "events closed")
		return e
	case <-time.After(3 * time.Second):
		t.Fatal("timeout waiting for event")
		return core.Event{}
	}
}

func TestWatch(t *testing.T) {
	t.Run("Reports External Writes", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		s := newTestStore(t, Config{})

		events, err := s.Watch(ctx, core.DefaultStorageKey)
		require.NoError(t, err)

		file := filepath.Join(s.Path, core.DefaultStorageKey+".json")
		require.NoError(t, os.WriteFile(file, []byte(`[{"id":"note-x"}]`), 0644))

		e := nextEvent(t, events)
		assert.Equal(t, core.DefaultStorageKey, e.ID)
		assert.Contains(t, []core.EventType{core.EventCreate, core.EventModify}, e.Type)
		assert.NotZero(t, e.Timestamp)

		require.NoError(t, os.Remove(file))
		e = nextEvent(t, events)
		assert.Equal(t, core.EventDelete, e.Type)

		state := s.State().(StoreState)
		assert.True(t, state.WatcherActive)
		assert.NotNil(t, state.LastEvent)
	})

	t.Run("Skips Own Writes", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		s := newTestStore(t, Config{})

		events, err := s.Watch(ctx, "**")
		require.NoError(t, err)

		require.NoError(t, s.SetItem(ctx, "wall", []byte("[]")))
		select {
		case e := <-events:
			t.Fatalf("unexpected event for own write: %s", e)
		case <-time.After(4 * DebounceDelay):
		}

		// A different payload from outside is reported.
		require.NoError(t, os.WriteFile(filepath.Join(s.Path, "wall.json"), []byte("[1]"), 0644))
		e := nextEvent(t, events)
		assert.Equal(t, "wall", e.ID)
	})

	t.Run("Filters By Pattern", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		s := newTestStore(t, Config{})

		events, err := s.Watch(ctx, "boards/*")
		require.NoError(t, err)

		require.NoError(t, os.WriteFile(filepath.Join(s.Path, "other.json"), []byte("[]"), 0644))
		require.NoError(t, os.MkdirAll(filepath.Join(s.Path, "boards"), 0755))
		// Give the watcher a moment to pick up the new directory.
		time.Sleep(2 * DebounceDelay)
		require.NoError(t, os.WriteFile(filepath.Join(s.Path, "boards", "team.json"), []byte("[]"), 0644))

		e := nextEvent(t, events)
		assert.Equal(t, "boards/team", e.ID)
	})

	t.Run("Closes On Cancel", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		s := newTestStore(t, Config{})

		events, err := s.Watch(ctx, "")
		require.NoError(t, err)
		cancel()

		assert.Eventually(t, func() bool {
			select {
			case _, ok := <-events:
				return !ok
			default:
				return false
			}
		}, 2*time.Second, 10*time.Millisecond)
	})

	t.Run("Invalid Pattern", func(t *testing.T) {
		s := newTestStore(t, Config{})
		_, err := s.Watch(context.Background(), "[")
		assert.Error(t, err)
	})
}
