package platform

import (
	"log/slog"

	"github.com/aretw0/memowall/pkg/core"
)

// Adapter names.
const (
	AdapterMemory = "memory"
	AdapterFS     = "fs"
	AdapterSQLite = "sqlite"
)

// options holds the internal configuration for a board.
type options struct {
	kv           core.KV
	logger       *slog.Logger
	adapter      string
	key          string
	collection   core.CollectionConfig
	errorHandler func(error)
	config       map[string]interface{}
}

// Option defines a functional option for configuring a board.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		adapter: AdapterFS,
		key:     core.DefaultStorageKey,
		config:  make(map[string]interface{}),
	}
}

func (o *options) log() *slog.Logger {
	if o.logger == nil {
		return slog.Default()
	}
	return o.logger
}

// WithLogger sets the logger shared by the board and its backend.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithKV allows injecting a custom storage backend (e.g. a mock).
// If provided, the adapter selection is skipped.
func WithKV(kv core.KV) Option {
	return func(o *options) {
		o.kv = kv
	}
}

// WithAdapter selects the storage backend by name ("memory", "fs", "sqlite").
// Defaults to "fs".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithStorageKey overrides the key the snapshot is stored under.
func WithStorageKey(key string) Option {
	return func(o *options) {
		if key != "" {
			o.key = key
		}
	}
}

// WithViewport sets the initial placement area for new notes.
func WithViewport(v core.Viewport) Option {
	return func(o *options) {
		o.collection.Viewport = v
	}
}

// WithCollection overrides the collection's randomness, clock and id source.
// Zero fields keep their defaults; a zero Viewport keeps the one set by WithViewport.
func WithCollection(c core.CollectionConfig) Option {
	return func(o *options) {
		if c.Viewport.Width == 0 && c.Viewport.Height == 0 {
			c.Viewport = o.collection.Viewport
		}
		o.collection = c
	}
}

// WithErrorHandler registers a callback for storage errors that the board
// swallows (failed loads and saves, watcher failures).
func WithErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.errorHandler = fn
	}
}

// WithQuota limits the size of stored values in bytes. Zero means unlimited.
func WithQuota(bytes int64) Option {
	return func(o *options) {
		o.config["quota"] = bytes
	}
}

// WithReadOnly enables read-only mode: every write fails (and is logged),
// initialization never creates directories or tables.
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.config["read_only"] = enabled
	}
}

// WithMustExist ensures the storage directory must already exist.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.config["must_exist"] = must
	}
}

// WithForceTemp forces storage into a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.config["temp_dir"] = force
	}
}

// WithDevSafety controls the sandbox used when running via `go run`/`go test`.
// By default (true) file-backed storage is re-rooted into a temporary directory.
//
// CAUTION: Only disable this if you are sure your code is safe.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.config["dev_safety"] = enabled
	}
}

// WithEventBuffer sets the per-subscriber event buffer.
// Zero means default (100).
func WithEventBuffer(size int) Option {
	return func(o *options) {
		o.config["event_buffer"] = size
	}
}
