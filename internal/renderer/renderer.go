package renderer

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/dshills/galley/internal/engine"
	"github.com/dshills/galley/internal/engine/sort"
	"github.com/dshills/galley/internal/renderer/backend"
)

// placeholderRune stands in for glyphs with no codepoint.
const placeholderRune = '▢'

// Renderer draws editor frames onto a backend.
type Renderer struct {
	be       backend.Backend
	viewport Viewport

	styleDefault  tcell.Style
	styleActive   tcell.Style
	styleRoot     tcell.Style
	styleFreeform tcell.Style
	styleBreak    tcell.Style
	styleStatus   tcell.Style
}

// New creates a renderer on the given backend.
func New(be backend.Backend) *Renderer {
	base := tcell.StyleDefault
	return &Renderer{
		be:            be,
		viewport:      NewViewport(),
		styleDefault:  base,
		styleActive:   base.Reverse(true),
		styleRoot:     base.Underline(true),
		styleFreeform: base.Foreground(tcell.ColorTeal),
		styleBreak:    base.Dim(true),
		styleStatus:   base.Reverse(true),
	}
}

// Viewport returns the current projection.
func (r *Renderer) Viewport() Viewport {
	return r.viewport
}

// SetViewport replaces the projection, for panning.
func (r *Renderer) SetViewport(v Viewport) {
	r.viewport = v
}

// WorldAt converts a clicked screen cell to world coordinates.
func (r *Renderer) WorldAt(col, row int) sort.Point {
	return r.viewport.WorldAt(col, row)
}

// Frame draws one complete frame: every sort, the caret, and a status
// line along the bottom row.
func (r *Renderer) Frame(e *engine.Editor, status string) {
	r.be.Clear()
	width, height := r.be.Size()
	contentRows := height - 1

	n := e.Len()
	for i := 0; i < n; i++ {
		entry, err := e.Get(i)
		if err != nil {
			break
		}
		pos, ok := e.SortVisualPosition(i)
		if !ok {
			continue
		}
		col, row := r.viewport.CellFor(pos)
		if col < 0 || col >= width || row < 0 || row >= contentRows {
			continue
		}
		r.be.SetContent(col, row, runeFor(entry), r.styleFor(entry))
	}

	r.drawCaret(e, width, contentRows)
	r.drawStatus(e, status, width, height)
	r.be.Show()
}

func (r *Renderer) drawCaret(e *engine.Editor, width, contentRows int) {
	col, row := r.viewport.CellFor(e.CursorWorldPosition())
	if col < 0 || col >= width || row < 0 || row >= contentRows {
		r.be.HideCursor()
		return
	}
	r.be.ShowCursor(col, row)
}

func (r *Renderer) drawStatus(e *engine.Editor, status string, width, height int) {
	line := fmt.Sprintf(" %s  sorts:%d cursor:%d", status, e.Len(), e.CursorPosition())
	col := 0
	for _, ch := range line {
		w := runewidth.RuneWidth(ch)
		if col+w > width {
			break
		}
		r.be.SetContent(col, height-1, ch, r.styleStatus)
		col += w
	}
	for ; col < width; col++ {
		r.be.SetContent(col, height-1, ' ', r.styleStatus)
	}
}

// runeFor picks the rune drawn for an entry. Kinds are handled
// exhaustively.
func runeFor(entry engine.Entry) rune {
	switch entry.Kind {
	case sort.KindGlyph:
		if entry.Codepoint != 0 {
			return entry.Codepoint
		}
		return placeholderRune
	case sort.KindLineBreak:
		return '¶'
	default:
		return '?'
	}
}

func (r *Renderer) styleFor(entry engine.Entry) tcell.Style {
	switch {
	case entry.IsActive:
		return r.styleActive
	case entry.Kind == sort.KindLineBreak:
		return r.styleBreak
	case entry.LayoutMode == sort.Freeform:
		return r.styleFreeform
	case entry.IsBufferRoot:
		return r.styleRoot
	default:
		return r.styleDefault
	}
}
