package core

import (
	"fmt"
	"time"
)

// EventType represents the type of change on the board or in storage.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventMove   EventType = "MOVE"
	EventDelete EventType = "DELETE"
	EventReload EventType = "RELOAD"
	EventModify EventType = "MODIFY" // raised by storage watchers
)

// Event represents a change on the board.
type Event struct {
	Type      EventType
	ID        string
	Timestamp int64 // Unix milliseconds
}

// String implements fmt.Stringer (and lifecycle.Event).
func (e Event) String() string {
	if e.ID == "" {
		return string(e.Type)
	}
	return fmt.Sprintf("%s %s", e.Type, e.ID)
}

func newEvent(t EventType, id string, now time.Time) Event {
	return Event{Type: t, ID: id, Timestamp: now.UnixMilli()}
}
