package core

import "errors"

// Common errors.
var (
	ErrReadOnly      = errors.New("store is in read-only mode")
	ErrNotFound      = errors.New("note not found")
	ErrEmptyText     = errors.New("note text cannot be empty")
	ErrUnknownColor  = errors.New("unknown note color")
	ErrQuotaExceeded = errors.New("storage quota exceeded")
	ErrDragBusy      = errors.New("another note is being dragged")
	ErrBadPosition   = errors.New("position must be finite")
)
