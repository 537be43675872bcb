package core

import (
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Placement constants for freshly added notes.
const (
	noteHalfWidth  = 128 // notes are 256px wide
	noteHalfHeight = 100
	placeJitter    = 100 // total spread around the centre, in pixels
	rotationSpread = 8   // degrees; rotation lands in [-4, 4)
)

// Viewport is the visible board area in pixels.
type Viewport struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// DefaultViewport is used until a client reports its real size.
var DefaultViewport = Viewport{Width: 1280, Height: 800}

// CollectionConfig holds the injectable sources of a Collection.
type CollectionConfig struct {
	Viewport Viewport
	Rand     func() float64 // uniform in [0, 1)
	Now      func() time.Time
	NewID    func() string
}

// Collection is the ordered in-memory list of notes, newest first.
//
// Every successful mutation installs a brand new slice and bumps Version,
// so a snapshot returned by Notes is never modified afterwards and observers
// can diff by comparing versions.
// Collection is not safe for concurrent use; Board serializes access.
type Collection struct {
	notes   []Note
	version uint64
	config  CollectionConfig
}

// NewCollection creates an empty collection.
func NewCollection(config CollectionConfig) *Collection {
	if config.Viewport.Width <= 0 || config.Viewport.Height <= 0 {
		config.Viewport = DefaultViewport
	}
	if config.Rand == nil {
		config.Rand = rand.Float64
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	if config.NewID == nil {
		config.NewID = newNoteID
	}
	return &Collection{notes: []Note{}, config: config}
}

func newNoteID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return "note-" + strconv.FormatInt(time.Now().UnixNano(), 10)
	}
	return "note-" + id.String()
}

// Notes returns the current snapshot.
func (c *Collection) Notes() []Note {
	return c.notes
}

// Len returns the number of notes.
func (c *Collection) Len() int {
	return len(c.notes)
}

// Version increases on every successful mutation.
func (c *Collection) Version() uint64 {
	return c.version
}

// Viewport returns the dimensions used to place new notes.
func (c *Collection) Viewport() Viewport {
	return c.config.Viewport
}

// SetViewport updates the placement area. Non-positive sizes are ignored.
func (c *Collection) SetViewport(v Viewport) {
	if v.Width <= 0 || v.Height <= 0 {
		return
	}
	c.config.Viewport = v
}

// Get returns the note with the given id.
func (c *Collection) Get(id string) (Note, bool) {
	i := c.indexOf(id)
	if i < 0 {
		return Note{}, false
	}
	return c.notes[i], true
}

// Add builds a new note near the viewport centre and prepends it.
// Whitespace-only text is rejected and leaves the collection untouched.
// An unknown color falls back to DefaultColor.
func (c *Collection) Add(text, author string, color Color) (Note, bool) {
	text, ok := normalizeText(text)
	if !ok {
		return Note{}, false
	}
	if !color.Valid() {
		color = DefaultColor
	}

	vp := c.config.Viewport
	note := Note{
		ID:        c.uniqueID(),
		Text:      text,
		Author:    normalizeAuthor(author),
		Color:     color,
		X:         vp.Width/2 - noteHalfWidth + (c.config.Rand()-0.5)*placeJitter,
		Y:         vp.Height/2 - noteHalfHeight + (c.config.Rand()-0.5)*placeJitter,
		Rotation:  (c.config.Rand() - 0.5) * rotationSpread,
		Timestamp: c.config.Now().UnixMilli(),
	}

	next := make([]Note, 0, len(c.notes)+1)
	next = append(next, note)
	next = append(next, c.notes...)
	c.install(next)
	return note, true
}

// Remove deletes the note with the given id. Absent ids are a no-op.
func (c *Collection) Remove(id string) bool {
	i := c.indexOf(id)
	if i < 0 {
		return false
	}
	next := make([]Note, 0, len(c.notes)-1)
	next = append(next, c.notes[:i]...)
	next = append(next, c.notes[i+1:]...)
	c.install(next)
	return true
}

// UpdatePosition replaces the position of a note. Absent ids are a no-op.
// Nothing but X and Y changes.
func (c *Collection) UpdatePosition(id string, x, y float64) bool {
	i := c.indexOf(id)
	if i < 0 {
		return false
	}
	next := make([]Note, len(c.notes))
	copy(next, c.notes)
	next[i].X = x
	next[i].Y = y
	c.install(next)
	return true
}

// Replace installs notes as the whole collection, keeping the first
// occurrence of any duplicated id.
func (c *Collection) Replace(notes []Note) {
	seen := make(map[string]struct{}, len(notes))
	next := make([]Note, 0, len(notes))
	for _, n := range notes {
		if _, dup := seen[n.ID]; dup {
			continue
		}
		seen[n.ID] = struct{}{}
		next = append(next, n)
	}
	c.install(next)
}

func (c *Collection) install(next []Note) {
	c.notes = next
	c.version++
}

func (c *Collection) indexOf(id string) int {
	for i := range c.notes {
		if c.notes[i].ID == id {
			return i
		}
	}
	return -1
}

func (c *Collection) uniqueID() string {
	id := c.config.NewID()
	if c.indexOf(id) < 0 {
		return id
	}
	for n := 2; ; n++ {
		candidate := id + "-" + strconv.Itoa(n)
		if c.indexOf(candidate) < 0 {
			return candidate
		}
	}
}
