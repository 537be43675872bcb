// Package memowall is the Composition Root for the memowall board.
//
// It connects the core board logic (pkg/core) with the storage adapters
// (pkg/adapters/...) the same way a browser page connects a sticky-note wall
// to local storage.
//
// Features:
//
//   - **Fail-soft persistence**: the whole board is one JSON array under one key;
//     load and save errors are logged, never raised.
//   - **Single drag owner**: pointer events are serialized and only one note moves at a time.
//   - **Write on drag end**: pointer moves never hit storage, the final position does.
//   - **Pluggable storage**: memory (with quota), filesystem (atomic writes, change
//     watching) and SQLite backends via `core.KV`.
//
// Usage:
//
//	board, err := memowall.New(ctx, "./data",
//		memowall.WithAdapter("fs"),
//		memowall.WithLogger(logger),
//	)
//
//	note, err := board.Add(ctx, "Hello", "", core.ColorMint)
package memowall
