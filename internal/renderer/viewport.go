// Package renderer projects the editor's font-unit world onto
// terminal cells and draws each frame.
package renderer

import (
	"math"

	"github.com/dshills/galley/internal/engine/sort"
)

// Default projection scale: one terminal column per half em, one row
// per line height of the nominal 1024-unit face.
const (
	DefaultUnitsPerCol = 512.0
	DefaultUnitsPerRow = 1280.0
)

// Viewport maps world coordinates to screen cells. Origin is the
// world position of cell (0, 0); world Y grows upward while rows grow
// downward.
type Viewport struct {
	Origin      sort.Point
	UnitsPerCol float64
	UnitsPerRow float64
}

// NewViewport returns a viewport with world (0, 0) a few cells in
// from the top-left corner.
func NewViewport() Viewport {
	return Viewport{
		Origin:      sort.Pt(-4*DefaultUnitsPerCol, 2*DefaultUnitsPerRow),
		UnitsPerCol: DefaultUnitsPerCol,
		UnitsPerRow: DefaultUnitsPerRow,
	}
}

// CellFor projects a world position to a screen cell.
func (v Viewport) CellFor(p sort.Point) (col, row int) {
	col = int(math.Round((p.X - v.Origin.X) / v.UnitsPerCol))
	row = int(math.Round((v.Origin.Y - p.Y) / v.UnitsPerRow))
	return col, row
}

// WorldAt inverts CellFor for the center of a screen cell.
func (v Viewport) WorldAt(col, row int) sort.Point {
	return sort.Pt(
		v.Origin.X+float64(col)*v.UnitsPerCol,
		v.Origin.Y-float64(row)*v.UnitsPerRow,
	)
}

// Pan shifts the viewport by whole cells.
func (v Viewport) Pan(dCol, dRow int) Viewport {
	v.Origin.X += float64(dCol) * v.UnitsPerCol
	v.Origin.Y -= float64(dRow) * v.UnitsPerRow
	return v
}
