package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/aretw0/memowall/pkg/core"
)

type createNoteInput struct {
	Text   string `json:"text" form:"text"`
	Author string `json:"author" form:"author"`
	Color  string `json:"color" form:"color"`
}

type pointerInput struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p pointerInput) position() core.Position {
	return core.Position{X: p.X, Y: p.Y}
}

// bindPointer decodes a pointer payload and rejects non-finite coordinates.
func bindPointer(c *gin.Context) (core.Position, bool) {
	var payload pointerInput
	if err := c.ShouldBindJSON(&payload); err != nil {
		fail(c, http.StatusBadRequest, errors.New("invalid payload"))
		return core.Position{}, false
	}
	pos := payload.position()
	if !pos.Finite() {
		fail(c, http.StatusBadRequest, core.ErrBadPosition)
		return core.Position{}, false
	}
	return pos, true
}

func fail(c *gin.Context, status int, err error) {
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func (s *Server) handleListNotes(c *gin.Context) {
	notes := s.board.Notes()
	c.JSON(http.StatusOK, gin.H{
		"data": notes,
		"meta": gin.H{
			"count":      len(notes),
			"version":    s.board.Version(),
			"drag_owner": s.board.DragOwner(),
		},
	})
}

func (s *Server) handleCreateNote(c *gin.Context) {
	var payload createNoteInput
	if err := c.ShouldBind(&payload); err != nil {
		fail(c, http.StatusBadRequest, errors.New("invalid payload"))
		return
	}
	color, err := core.ParseColor(payload.Color)
	if err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}

	note, err := s.board.Add(c.Request.Context(), payload.Text, payload.Author, color)
	if err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}

	// The HTML form posts url-encoded and expects to land back on the board.
	if c.ContentType() != binding.MIMEJSON {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": note})
}

func (s *Server) handleDeleteNote(c *gin.Context) {
	id := c.Param("id")
	if !s.board.Remove(c.Request.Context(), id) {
		fail(c, http.StatusNotFound, core.ErrNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handlePointerDown(c *gin.Context) {
	pos, ok := bindPointer(c)
	if !ok {
		return
	}

	id := c.Param("id")
	if err := s.board.PointerDown(id, pos); err != nil {
		switch {
		case errors.Is(err, core.ErrBadPosition):
			fail(c, http.StatusBadRequest, err)
		case errors.Is(err, core.ErrNotFound):
			fail(c, http.StatusNotFound, err)
		case errors.Is(err, core.ErrDragBusy):
			fail(c, http.StatusConflict, err)
		default:
			fail(c, http.StatusInternalServerError, err)
		}
		return
	}
	note, _ := s.board.Get(id)
	c.JSON(http.StatusOK, gin.H{"data": note})
}

func (s *Server) handlePointerMove(c *gin.Context) {
	pos, ok := bindPointer(c)
	if !ok {
		return
	}
	note, ok := s.board.PointerMove(pos)
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": note})
}

func (s *Server) handlePointerUp(c *gin.Context) {
	s.respondRelease(c, s.board.PointerUp)
}

func (s *Server) handlePointerLeave(c *gin.Context) {
	s.respondRelease(c, s.board.PointerLeave)
}

func (s *Server) respondRelease(c *gin.Context, release func(ctx context.Context) (core.Note, bool)) {
	note, ok := release(c.Request.Context())
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": note})
}

func (s *Server) handleViewport(c *gin.Context) {
	var v core.Viewport
	if err := c.ShouldBindJSON(&v); err != nil {
		fail(c, http.StatusBadRequest, errors.New("invalid payload"))
		return
	}
	if v.Width <= 0 || v.Height <= 0 {
		fail(c, http.StatusBadRequest, errors.New("viewport must be positive"))
		return
	}
	s.board.SetViewport(v)
	c.JSON(http.StatusOK, gin.H{"data": s.board.Viewport()})
}
