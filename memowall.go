package memowall

import (
	"context"
	"log/slog"

	"github.com/aretw0/memowall/internal/platform"
	"github.com/aretw0/memowall/pkg/core"
)

// --- Types ---

// Board is a public alias for the core board.
type Board = core.Board

// Note is a public alias for a single memo.
type Note = core.Note

// Color is a public alias for the note palette.
type Color = core.Color

// --- Configuration ---

// Option defines a functional option for configuring a board.
type Option = platform.Option

// Adapter names accepted by WithAdapter.
const (
	AdapterMemory = platform.AdapterMemory
	AdapterFS     = platform.AdapterFS
	AdapterSQLite = platform.AdapterSQLite
)

// WithLogger sets the logger for the board and its storage.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithKV allows injecting a custom storage backend.
func WithKV(kv core.KV) Option {
	return platform.WithKV(kv)
}

// WithAdapter selects the storage backend by name.
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithStorageKey overrides the storage key (default "simple-memo-wall").
func WithStorageKey(key string) Option {
	return platform.WithStorageKey(key)
}

// WithViewport sets the initial placement area for new notes.
func WithViewport(v core.Viewport) Option {
	return platform.WithViewport(v)
}

// WithCollection overrides randomness, clock and id generation.
func WithCollection(c core.CollectionConfig) Option {
	return platform.WithCollection(c)
}

// WithErrorHandler receives storage errors the board swallows.
func WithErrorHandler(fn func(error)) Option {
	return platform.WithErrorHandler(fn)
}

// WithQuota limits stored value size in bytes.
func WithQuota(bytes int64) Option {
	return platform.WithQuota(bytes)
}

// WithReadOnly makes every write fail softly.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithMustExist ensures the storage directory must already exist.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithDevSafety controls the `go run` sandbox for file-backed storage.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// WithEventBuffer sets the per-subscriber event buffer size.
func WithEventBuffer(size int) Option {
	return platform.WithEventBuffer(size)
}

// --- Factory ---

// New opens a board and loads its persisted notes.
func New(ctx context.Context, uri string, opts ...Option) (*core.Board, error) {
	return platform.New(ctx, uri, opts...)
}

// Init prepares a storage backend without opening a board.
func Init(ctx context.Context, uri string, opts ...Option) (core.KV, error) {
	return platform.Init(ctx, uri, opts...)
}

// --- Safety & Utils ---

// ResolveStorePath determines the actual storage path based on safety rules.
func ResolveStorePath(userPath string, forceTemp bool) string {
	return platform.ResolveStorePath(userPath, forceTemp)
}

// IsDevRun checks if the current process is running via `go run` or `go test`.
func IsDevRun() bool {
	return platform.IsDevRun()
}

// FindRoot looks upwards for a directory holding .memowall or memowall.yaml.
func FindRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}

// Follow reloads the board whenever its storage key changes on disk.
// It reports false for backends that cannot be watched.
func Follow(ctx context.Context, board *core.Board, logger *slog.Logger) (bool, error) {
	return platform.Follow(ctx, board, logger)
}
