package core

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// DefaultStorageKey is the key the board snapshot is stored under.
const DefaultStorageKey = "simple-memo-wall"

// StoreConfig holds the configuration for the persistent store adapter.
type StoreConfig struct {
	Key          string
	Logger       *slog.Logger
	ErrorHandler func(error) // Optional. Receives every swallowed storage error.
}

// Store is the persistence boundary between the in-memory collection and a KV backend.
// Both Load and Save fail soft: errors are logged and reported to the
// ErrorHandler but never returned.
type Store struct {
	kv     KV
	config StoreConfig
}

// NewStore creates a store adapter over kv.
func NewStore(kv KV, config StoreConfig) *Store {
	if config.Key == "" {
		config.Key = DefaultStorageKey
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Store{kv: kv, config: config}
}

// Key returns the storage key in use.
func (s *Store) Key() string {
	return s.config.Key
}

// Backend returns the underlying KV.
func (s *Store) Backend() KV {
	return s.kv
}

// Load reads the persisted snapshot.
// A missing key, unreadable storage or corrupted data all yield an empty slice.
func (s *Store) Load(ctx context.Context) []Note {
	data, ok, err := s.kv.GetItem(ctx, s.config.Key)
	if err != nil {
		s.fail("failed to load notes", fmt.Errorf("load %s: %w", s.config.Key, err))
		return []Note{}
	}
	if !ok || len(data) == 0 {
		return []Note{}
	}

	var notes []Note
	if err := json.Unmarshal(data, &notes); err != nil {
		s.fail("failed to parse stored notes", fmt.Errorf("parse %s: %w", s.config.Key, err))
		return []Note{}
	}
	if notes == nil {
		notes = []Note{}
	}
	return notes
}

// Save re-serializes the full collection under the storage key.
// On failure the previously persisted snapshot stays in place.
func (s *Store) Save(ctx context.Context, notes []Note) {
	if notes == nil {
		notes = []Note{}
	}
	data, err := json.Marshal(notes)
	if err != nil {
		s.fail("failed to serialize notes", fmt.Errorf("serialize %s: %w", s.config.Key, err))
		return
	}
	if err := s.kv.SetItem(ctx, s.config.Key, data); err != nil {
		s.fail("failed to save notes", fmt.Errorf("save %s: %w", s.config.Key, err))
		return
	}
	s.config.Logger.Debug("notes saved", "key", s.config.Key, "count", len(notes), "bytes", len(data))
}

func (s *Store) fail(msg string, err error) {
	s.config.Logger.Warn(msg, "key", s.config.Key, "error", err)
	if s.config.ErrorHandler != nil {
		s.config.ErrorHandler(err)
	}
}
