package platform

import (
	"context"

	"github.com/aretw0/memowall/pkg/core"
)

// New opens a board on the selected backend and loads its notes.
//
//	board, err := memowall.New(ctx, "./data", memowall.WithAdapter("fs"))
func New(ctx context.Context, uri string, opts ...Option) (*core.Board, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	kv, err := initKV(ctx, uri, o)
	if err != nil {
		return nil, err
	}

	store := core.NewStore(kv, core.StoreConfig{
		Key:          o.key,
		Logger:       o.log(),
		ErrorHandler: o.errorHandler,
	})

	eventBuffer, _ := o.config["event_buffer"].(int)
	board, err := core.NewBoard(core.BoardConfig{
		Store:       store,
		Collection:  o.collection,
		Logger:      o.log(),
		EventBuffer: eventBuffer,
	})
	if err != nil {
		return nil, err
	}

	board.Open(ctx)
	return board, nil
}
