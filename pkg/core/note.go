package core

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

const (
	// MaxTextLength is the maximum number of runes kept from a note's text.
	MaxTextLength = 120

	// DefaultAuthor is shown when a note is posted without a name.
	DefaultAuthor = "Anonymous"
)

// Color is the visual variant of a note.
type Color string

const (
	ColorWhite Color = "white"
	ColorCream Color = "cream"
	ColorMint  Color = "mint"
	ColorRose  Color = "rose"
	ColorSky   Color = "sky"
)

// DefaultColor is preselected on the add form.
const DefaultColor = ColorWhite

// Colors returns the canonical palette in display order.
func Colors() []Color {
	return []Color{ColorWhite, ColorCream, ColorMint, ColorRose, ColorSky}
}

// Valid reports whether c belongs to the palette.
func (c Color) Valid() bool {
	switch c {
	case ColorWhite, ColorCream, ColorMint, ColorRose, ColorSky:
		return true
	}
	return false
}

// ParseColor converts user input into a Color.
// An empty string yields DefaultColor.
func ParseColor(s string) (Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultColor, nil
	}
	c := Color(s)
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownColor, s)
	}
	return c, nil
}

// Position is a point in viewport pixels.
type Position struct {
	X float64
	Y float64
}

// Finite reports whether both coordinates are real numbers.
func (p Position) Finite() bool {
	return !math.IsInf(p.X, 0) && !math.IsNaN(p.X) && !math.IsInf(p.Y, 0) && !math.IsNaN(p.Y)
}

// Sub returns p - q.
func (p Position) Sub(q Position) Position {
	return Position{X: p.X - q.X, Y: p.Y - q.Y}
}

// Note is a single memo pinned to the board.
// Its JSON form is the persisted layout: {id, text, author, color, x, y, rotation, timestamp}.
type Note struct {
	ID        string  `json:"id" yaml:"id"`
	Text      string  `json:"text" yaml:"text"`
	Author    string  `json:"author" yaml:"author"`
	Color     Color   `json:"color" yaml:"color"`
	X         float64 `json:"x" yaml:"x"`
	Y         float64 `json:"y" yaml:"y"`
	Rotation  float64 `json:"rotation" yaml:"rotation"`
	Timestamp int64   `json:"timestamp" yaml:"timestamp"` // Unix milliseconds
}

// Position returns the note's top-left corner.
func (n Note) Position() Position {
	return Position{X: n.X, Y: n.Y}
}

// DisplayAuthor returns the author, falling back to DefaultAuthor.
func (n Note) DisplayAuthor() string {
	if strings.TrimSpace(n.Author) == "" {
		return DefaultAuthor
	}
	return n.Author
}

// normalizeText bounds user text to MaxTextLength runes.
// It returns false when nothing but whitespace survives the cut.
func normalizeText(text string) (string, bool) {
	if utf8.RuneCountInString(text) > MaxTextLength {
		runes := []rune(text)
		text = string(runes[:MaxTextLength])
	}
	if strings.TrimSpace(text) == "" {
		return "", false
	}
	return text, true
}

func normalizeAuthor(author string) string {
	author = strings.TrimSpace(author)
	if author == "" {
		return DefaultAuthor
	}
	return author
}
