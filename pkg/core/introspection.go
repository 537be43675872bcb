package core

import (
	"github.com/aretw0/introspection"
)

// BoardState exposes internal state for observability.
type BoardState struct {
	StorageKey  string   `json:"storage_key"`
	BackendType string   `json:"backend_type"`
	Notes       int      `json:"notes"`
	Version     uint64   `json:"version"`
	DragOwner   string   `json:"drag_owner,omitempty"`
	Dirty       bool     `json:"dirty"`
	Saves       uint64   `json:"saves"`
	Subscribers int      `json:"subscribers"`
	Viewport    Viewport `json:"viewport"`
}

// State implements introspection.Introspectable.
func (b *Board) State() any {
	b.mu.Lock()
	defer b.mu.Unlock()

	backendType := "kv"
	// Try to get component type if the backend implements introspection.Component
	if comp, ok := b.store.Backend().(introspection.Component); ok {
		backendType = comp.ComponentType()
	}

	b.subMu.Lock()
	subscribers := len(b.subs)
	b.subMu.Unlock()

	return BoardState{
		StorageKey:  b.store.Key(),
		BackendType: backendType,
		Notes:       b.notes.Len(),
		Version:     b.notes.Version(),
		DragOwner:   b.drag.Owner(),
		Dirty:       b.dirty,
		Saves:       b.saves,
		Subscribers: subscribers,
		Viewport:    b.notes.Viewport(),
	}
}

// ComponentType implements introspection.Component.
func (b *Board) ComponentType() string {
	return "board"
}

var _ introspection.Introspectable = (*Board)(nil)
var _ introspection.Component = (*Board)(nil)
