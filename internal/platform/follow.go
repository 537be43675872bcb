package platform

import (
	"context"
	"log/slog"

	"github.com/aretw0/lifecycle"

	lcadapter "github.com/aretw0/memowall/pkg/adapters/lifecycle"
	"github.com/aretw0/memowall/pkg/core"
)

// Follow reloads board whenever another process rewrites its storage key.
// It returns false when the backend cannot be watched.
// The watch ends when ctx is cancelled.
func Follow(ctx context.Context, board *core.Board, logger *slog.Logger) (bool, error) {
	store := board.Store()
	if logger == nil {
		logger = slog.Default()
	}
	w, ok := store.Backend().(core.Watchable)
	if !ok {
		return false, nil
	}

	changes, err := w.Watch(ctx, core.LiteralPattern(store.Key()))
	if err != nil {
		return false, err
	}

	src := lcadapter.NewSource(changes, core.EventCreate, core.EventModify, core.EventDelete)
	if err := src.Start(ctx); err != nil {
		return false, err
	}

	lifecycle.Go(ctx, func(ctx context.Context) error {
		for e := range src.Events() {
			logger.Debug("storage changed externally", "event", e.String())
			board.Reload(ctx)
		}
		return nil
	}, lifecycle.WithErrorHandler(func(err error) {
		logger.Error("follow failed", "error", err)
	}))
	return true, nil
}
