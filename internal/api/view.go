package api

import (
	"embed"
	"html/template"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/aretw0/memowall/pkg/core"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	zIndexDragging = 100
	zIndexResting  = 10
)

// EmptyHint is shown when the board holds no notes.
const EmptyHint = "Fill the space..."

type noteView struct {
	core.Note
	Author   string
	Left     string
	Top      string
	Rotate   string
	ZIndex   int
	Dragging bool
}

type boardView struct {
	Notes     []noteView
	Colors    []core.Color
	Default   core.Color
	MaxLength int
	EmptyHint string
}

func parseTemplates() (*template.Template, error) {
	return template.New("").ParseFS(templateFS, "templates/*.html")
}

func px(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func (s *Server) handleBoard(c *gin.Context) {
	notes := s.board.Notes()
	owner := s.board.DragOwner()

	views := make([]noteView, 0, len(notes))
	for _, n := range notes {
		v := noteView{
			Note:   n,
			Author: n.DisplayAuthor(),
			Left:   px(n.X),
			Top:    px(n.Y),
			Rotate: px(n.Rotation),
			ZIndex: zIndexResting,
		}
		if n.ID == owner {
			v.ZIndex = zIndexDragging
			v.Dragging = true
		}
		views = append(views, v)
	}

	c.HTML(http.StatusOK, "board.html", boardView{
		Notes:     views,
		Colors:    core.Colors(),
		Default:   core.DefaultColor,
		MaxLength: core.MaxTextLength,
		EmptyHint: EmptyHint,
	})
}
