package core

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"
)

// BoardConfig holds the collaborators of a Board.
type BoardConfig struct {
	Store       *Store
	Collection  CollectionConfig
	Logger      *slog.Logger
	EventBuffer int // Per-subscriber buffer. Zero means default (100).
}

// Board composes the store adapter, the note collection and the drag controller.
//
// All operations are serialized behind a single lock, which stands in for the
// single-threaded event loop a UI would provide: callers never observe a
// half-applied event, and at most one note is dragged at a time.
//
// Persistence policy: add, remove and drag end write the full snapshot.
// Pointer moves only mark the board dirty; the final position is written
// once when the drag ends.
type Board struct {
	mu     sync.Mutex
	store  *Store
	notes  *Collection
	drag   *DragController
	logger *slog.Logger
	now    func() time.Time
	dirty  bool
	saves  uint64
	opened bool

	subMu       sync.Mutex
	subs        map[uint64]chan Event
	nextSub     uint64
	eventBuffer int
	closed      bool
}

// NewBoard creates a board. Call Open to load the persisted notes.
func NewBoard(config BoardConfig) (*Board, error) {
	if config.Store == nil {
		return nil, fmt.Errorf("board requires a store")
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.EventBuffer <= 0 {
		config.EventBuffer = 100
	}
	notes := NewCollection(config.Collection)
	return &Board{
		store:       config.Store,
		notes:       notes,
		drag:        NewDragController(),
		logger:      config.Logger,
		now:         notes.config.Now,
		subs:        make(map[uint64]chan Event),
		eventBuffer: config.EventBuffer,
	}, nil
}

// Open loads the persisted snapshot into the collection.
// Storage errors leave the board empty.
func (b *Board) Open(ctx context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()

	notes := b.store.Load(ctx)
	b.notes.Replace(notes)
	b.opened = true
	b.logger.Debug("board opened", "key", b.store.Key(), "count", b.notes.Len())
}

// Store returns the persistence adapter the board writes through.
func (b *Board) Store() *Store {
	return b.store
}

// Notes returns a copy of the current snapshot, newest first.
func (b *Board) Notes() []Note {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.notes.Notes())
}

// Get returns a single note.
func (b *Board) Get(id string) (Note, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.notes.Get(id)
}

// Version returns the collection version.
func (b *Board) Version() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.notes.Version()
}

// Viewport returns the placement area for new notes.
func (b *Board) Viewport() Viewport {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.notes.Viewport()
}

// SetViewport records the client's viewport size.
func (b *Board) SetViewport(v Viewport) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.notes.SetViewport(v)
}

// DragOwner returns the id of the note being dragged, or "".
func (b *Board) DragOwner() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.drag.Owner()
}

// Dragging reports whether a note is being dragged.
func (b *Board) Dragging() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.drag.Dragging()
}

// DragState returns the drag state of a note.
func (b *Board) DragState(id string) DragState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.drag.State(id)
}

// Add posts a new note and persists the board.
func (b *Board) Add(ctx context.Context, text, author string, color Color) (Note, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	note, ok := b.notes.Add(text, author, color)
	if !ok {
		return Note{}, ErrEmptyText
	}
	b.persist(ctx)
	b.publish(newEvent(EventCreate, note.ID, b.now()))
	return note, nil
}

// Remove deletes a note and persists the board. Removing an absent note is a no-op.
func (b *Board) Remove(ctx context.Context, id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.notes.Remove(id) {
		return false
	}
	if b.drag.Cancel(id) {
		b.logger.Debug("drag cancelled, note removed", "id", id)
	}
	b.persist(ctx)
	b.publish(newEvent(EventDelete, id, b.now()))
	return true
}

// PointerDown grabs a note at the given pointer position.
// It fails with ErrNotFound for unknown notes, ErrDragBusy while
// another note is being dragged and ErrBadPosition for NaN or infinite pointers.
func (b *Board) PointerDown(id string, pointer Position) error {
	if !pointer.Finite() {
		return ErrBadPosition
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	note, ok := b.notes.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if b.drag.Owner() == id {
		return nil
	}
	if !b.drag.PointerDown(id, pointer, note.Position()) {
		return fmt.Errorf("%w: %s", ErrDragBusy, b.drag.Owner())
	}
	return nil
}

// PointerMove moves the drag owner under the pointer.
// ok is false when nothing is being dragged or the resulting position
// is not finite; the note then stays where it was.
func (b *Board) PointerMove(pointer Position) (Note, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id, pos, ok := b.drag.PointerMove(pointer)
	if !ok {
		return Note{}, false
	}
	if !pos.Finite() {
		b.logger.Warn("ignoring non-finite drag position", "id", id, "x", pos.X, "y", pos.Y)
		return Note{}, false
	}
	if !b.notes.UpdatePosition(id, pos.X, pos.Y) {
		b.drag.Cancel(id)
		return Note{}, false
	}
	b.dirty = true
	return b.notes.Get(id)
}

// PointerUp releases the drag and persists the final position.
func (b *Board) PointerUp(ctx context.Context) (Note, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.endDrag(ctx, b.drag.PointerUp())
}

// PointerLeave releases the drag when the pointer leaves the board.
func (b *Board) PointerLeave(ctx context.Context) (Note, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.endDrag(ctx, b.drag.PointerLeave())
}

func (b *Board) endDrag(ctx context.Context, id string) (Note, bool) {
	if id == "" {
		return Note{}, false
	}
	if b.dirty {
		b.persist(ctx)
		b.publish(newEvent(EventMove, id, b.now()))
	}
	return b.notes.Get(id)
}

// Flush persists the board if a drag left unsaved positions.
func (b *Board) Flush(ctx context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.dirty {
		b.persist(ctx)
	}
}

// Reload replaces the collection with the persisted snapshot, e.g. after
// another process wrote the storage key. It is skipped while a note is being
// dragged; the drag end overwrites storage anyway.
func (b *Board) Reload(ctx context.Context) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.drag.Dragging() {
		b.logger.Debug("reload skipped during drag", "owner", b.drag.Owner())
		return false
	}
	b.notes.Replace(b.store.Load(ctx))
	b.dirty = false
	b.publish(newEvent(EventReload, "", b.now()))
	return true
}

// persist must be called with b.mu held.
func (b *Board) persist(ctx context.Context) {
	b.store.Save(ctx, b.notes.Notes())
	b.saves++
	b.dirty = false
}

// Subscribe returns a feed of board events. The channel is closed when ctx
// is cancelled or the board is closed. Slow subscribers miss events rather
// than blocking the board.
func (b *Board) Subscribe(ctx context.Context) <-chan Event {
	b.subMu.Lock()
	defer b.subMu.Unlock()

	ch := make(chan Event, b.eventBuffer)
	if b.closed {
		close(ch)
		return ch
	}
	id := b.nextSub
	b.nextSub++
	b.subs[id] = ch

	context.AfterFunc(ctx, func() {
		b.subMu.Lock()
		defer b.subMu.Unlock()
		if c, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(c)
		}
	})
	return ch
}

func (b *Board) publish(e Event) {
	b.subMu.Lock()
	defer b.subMu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
			b.logger.Debug("event dropped, subscriber is full", "event", e.String())
		}
	}
}

// Close flushes pending positions and closes every subscription.
func (b *Board) Close(ctx context.Context) error {
	b.Flush(ctx)

	b.subMu.Lock()
	defer b.subMu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
	if c, ok := b.store.Backend().(Closer); ok {
		return c.Close()
	}
	return nil
}
