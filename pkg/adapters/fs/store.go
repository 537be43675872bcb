package fs

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/memowall/pkg/core"
)

// DefaultExt is appended to every key to form its filename.
const DefaultExt = ".json"

// Config holds the configuration for the filesystem store.
type Config struct {
	Path         string
	MustExist    bool
	ReadOnly     bool
	Ext          string // e.g. ".json"
	Quota        int64  // max bytes per value; zero means unlimited
	Logger       *slog.Logger
	ErrorHandler func(error) // receives watcher failures
}

// Store implements core.KV on top of a directory: one file per key.
// Writes go through a temp file and a rename.
type Store struct {
	Path   string
	config Config

	mu            sync.RWMutex
	written       map[string][32]byte // last content hash this process wrote, per key
	watcherActive bool
	lastEvent     *time.Time
}

// NewStore creates a new filesystem-backed store.
func NewStore(config Config) *Store {
	if config.Ext == "" {
		config.Ext = DefaultExt
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Store{
		Path:    config.Path,
		config:  config,
		written: make(map[string][32]byte),
	}
}

// Initialize creates the storage directory unless it must already exist.
func (s *Store) Initialize(ctx context.Context) error {
	if s.config.MustExist || s.config.ReadOnly {
		info, err := os.Stat(s.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("store path does not exist: %s", s.Path)
		}
		if err != nil {
			return fmt.Errorf("failed to stat store path: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("store path is not a directory: %s", s.Path)
		}
		return nil
	}

	if err := os.MkdirAll(s.Path, 0755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}
	return nil
}

// GetItem reads the file backing key.
func (s *Store) GetItem(ctx context.Context, key string) ([]byte, bool, error) {
	filename, err := s.filename(key)
	if err != nil {
		return nil, false, err
	}
	data, err := os.ReadFile(filename)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, true, nil
}

// SetItem atomically replaces the file backing key.
func (s *Store) SetItem(ctx context.Context, key string, value []byte) error {
	if s.config.ReadOnly {
		return core.ErrReadOnly
	}
	if s.config.Quota > 0 && int64(len(value)) > s.config.Quota {
		return fmt.Errorf("%w: %d bytes over a %d byte quota", core.ErrQuotaExceeded, len(value), s.config.Quota)
	}
	filename, err := s.filename(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}

	// Record before the rename so the watcher recognizes its own write.
	s.mu.Lock()
	s.written[key] = sha256.Sum256(value)
	s.mu.Unlock()

	if err := replaceSnapshot(filename, value, 0644); err != nil {
		s.mu.Lock()
		delete(s.written, key)
		s.mu.Unlock()
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// RemoveItem deletes the file backing key.
func (s *Store) RemoveItem(ctx context.Context, key string) error {
	if s.config.ReadOnly {
		return core.ErrReadOnly
	}
	filename, err := s.filename(key)
	if err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.written, key)
	s.mu.Unlock()

	if err := os.Remove(filename); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

// Keys lists stored keys matching a doublestar pattern ("" or "**" for all).
func (s *Store) Keys(ctx context.Context, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = "**"
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid key pattern: %q", pattern)
	}

	var keys []string
	err := filepath.WalkDir(s.Path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			return nil
		}
		key, ok := s.keyFor(p)
		if !ok {
			return nil
		}
		if match, _ := doublestar.Match(pattern, key); match {
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	sort.Strings(keys)
	return keys, nil
}

// filename maps a key to its file, refusing keys that escape the store.
func (s *Store) filename(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("empty storage key")
	}
	clean := path.Clean(key)
	if clean != key || path.IsAbs(key) || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("invalid storage key: %q", key)
	}
	return filepath.Join(s.Path, filepath.FromSlash(key)+s.config.Ext), nil
}

// keyFor maps a file path back to its key.
// Temporary files and files with a foreign extension are not keys.
func (s *Store) keyFor(p string) (string, bool) {
	if strings.HasPrefix(filepath.Base(p), TempFilePrefix) {
		return "", false
	}
	if filepath.Ext(p) != s.config.Ext {
		return "", false
	}
	rel, err := filepath.Rel(s.Path, p)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	return strings.TrimSuffix(rel, s.config.Ext), true
}

// isOwnWrite reports whether data is exactly what this process last wrote under key.
func (s *Store) isOwnWrite(key string, data []byte) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sum, ok := s.written[key]
	return ok && sum == sha256.Sum256(data)
}
