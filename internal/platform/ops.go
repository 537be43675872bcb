package platform

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/memowall/pkg/adapters/fs"
	"github.com/aretw0/memowall/pkg/adapters/memory"
	"github.com/aretw0/memowall/pkg/adapters/sqlite"
	"github.com/aretw0/memowall/pkg/core"
)

// DefaultDBFile is the database name used when the sqlite URI is a directory or empty.
const DefaultDBFile = "memowall.db"

// Init prepares the storage backend selected by the options.
// The 'uri' argument is adapter-specific: a directory for "fs", a database
// file for "sqlite", ignored for "memory".
func Init(ctx context.Context, uri string, opts ...Option) (core.KV, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return initKV(ctx, uri, o)
}

func initKV(ctx context.Context, uri string, o *options) (core.KV, error) {
	// 1. Check for injected backend
	if o.kv != nil {
		return o.kv, nil
	}

	quota, _ := o.config["quota"].(int64)

	// 2. Initialize based on Adapter
	var kv core.KV
	switch o.adapter {
	case AdapterMemory:
		kv = memory.NewStore(int(quota))
	case AdapterFS:
		kv = fs.NewStore(fs.Config{
			Path:         resolvePath(uri, o),
			MustExist:    boolOpt(o, "must_exist"),
			ReadOnly:     boolOpt(o, "read_only"),
			Quota:        quota,
			Logger:       o.log(),
			ErrorHandler: o.errorHandler,
		})
	case AdapterSQLite:
		dsn := uri
		if !strings.HasPrefix(uri, "file:") && uri != ":memory:" {
			dsn = resolvePath(uri, o)
			if dsn == "." || filepath.Ext(dsn) == "" {
				dsn = filepath.Join(dsn, DefaultDBFile)
			}
			if !boolOpt(o, "read_only") {
				if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
					return nil, fmt.Errorf("failed to create database directory: %w", err)
				}
			}
		}
		store, err := sqlite.Open(sqlite.Config{
			DSN:      dsn,
			ReadOnly: boolOpt(o, "read_only"),
			Quota:    quota,
			Logger:   o.log(),
		})
		if err != nil {
			return nil, err
		}
		kv = store
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}

	// 3. Run Initialization
	if err := kv.Initialize(ctx); err != nil {
		if c, ok := kv.(core.Closer); ok {
			_ = c.Close()
		}
		return nil, err
	}
	o.log().Debug("storage initialized", "adapter", o.adapter, "uri", uri)
	return kv, nil
}

// resolvePath applies the dev sandbox to file-backed URIs.
func resolvePath(path string, o *options) string {
	tempDir := boolOpt(o, "temp_dir")
	readOnly := boolOpt(o, "read_only")

	// Default to true (safe) if not present.
	devSafety := true
	if val, ok := o.config["dev_safety"].(bool); ok {
		devSafety = val
	}
	bypassSafety := readOnly || !devSafety

	useTemp := tempDir || (IsDevRun() && !bypassSafety)
	resolved := ResolveStorePath(path, useTemp)

	if useTemp && resolved != filepath.Clean(path) {
		o.log().Warn("running in SAFE MODE (Dev/Test)", "original_path", path, "resolved_path", resolved)
	}
	return resolved
}

func boolOpt(o *options, key string) bool {
	v, _ := o.config[key].(bool)
	return v
}
