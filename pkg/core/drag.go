package core

// DragState is the per-note state of the drag interaction.
type DragState string

const (
	DragIdle     DragState = "IDLE"
	DragDragging DragState = "DRAGGING"
)

// DragController turns pointer events into note positions.
//
// Every note is IDLE except, at most, the single drag owner. A pointer-down
// on a second note while the owner is still dragging is ignored.
type DragController struct {
	owner  string
	offset Position
}

// NewDragController creates an idle controller.
func NewDragController() *DragController {
	return &DragController{}
}

// PointerDown starts dragging id. origin is the note's current position; the
// grab offset (pointer - origin) is kept for the rest of the drag.
// It returns false when another note already owns the drag.
func (d *DragController) PointerDown(id string, pointer, origin Position) bool {
	if id == "" {
		return false
	}
	if d.owner != "" {
		return false
	}
	d.owner = id
	d.offset = pointer.Sub(origin)
	return true
}

// PointerMove computes the owner's new position for the pointer.
// ok is false while idle.
func (d *DragController) PointerMove(pointer Position) (id string, pos Position, ok bool) {
	if d.owner == "" {
		return "", Position{}, false
	}
	return d.owner, pointer.Sub(d.offset), true
}

// PointerUp ends the drag wherever the pointer is released.
// It returns the released note id, or "" if nothing was dragging.
func (d *DragController) PointerUp() string {
	return d.release()
}

// PointerLeave ends the drag when the pointer leaves the tracking surface.
func (d *DragController) PointerLeave() string {
	return d.release()
}

// Cancel drops the drag if id is the owner (e.g. the note was deleted).
func (d *DragController) Cancel(id string) bool {
	if d.owner == "" || d.owner != id {
		return false
	}
	d.release()
	return true
}

// Owner returns the note being dragged, or "".
func (d *DragController) Owner() string {
	return d.owner
}

// Dragging reports whether any note is being dragged.
func (d *DragController) Dragging() bool {
	return d.owner != ""
}

// State returns the drag state of a note.
func (d *DragController) State(id string) DragState {
	if id != "" && id == d.owner {
		return DragDragging
	}
	return DragIdle
}

// Offset returns the grab offset of the current drag.
func (d *DragController) Offset() Position {
	return d.offset
}

func (d *DragController) release() string {
	id := d.owner
	d.owner = ""
	d.offset = Position{}
	return id
}
