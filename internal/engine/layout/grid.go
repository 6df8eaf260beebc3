// Package layout translates between linear buffer positions and world
// coordinates. Flowing entries derive their position from the nearest
// preceding run root; freeform entries use their stored anchor
// unconditionally.
package layout

import (
	"math"

	"github.com/dshills/galley/internal/engine/sort"
)

// Default grid constants, in font units.
const (
	DefaultSortsPerRow       = 16
	DefaultCellWidth         = 1000.0
	DefaultCellHeight        = 1200.0
	DefaultHorizontalSpacing = 64.0
	DefaultVerticalSpacing   = 400.0
)

// GridConfig holds the geometric constants used for cursor grid
// navigation and click-to-index quantization.
type GridConfig struct {
	// SortsPerRow is the wrap column count when a fixed grid is in
	// effect. Flowing runs with explicit line breaks ignore it.
	SortsPerRow int

	// CellWidth and CellHeight are the nominal extents of one sort
	// cell, in font units.
	CellWidth  float64
	CellHeight float64

	// HorizontalSpacing and VerticalSpacing pad between cells.
	HorizontalSpacing float64
	VerticalSpacing   float64

	// Origin is the world position of cell (0, 0). Rows grow
	// downward (negative Y).
	Origin sort.Point
}

// DefaultGrid returns the standard grid configuration.
func DefaultGrid() GridConfig {
	return GridConfig{
		SortsPerRow:       DefaultSortsPerRow,
		CellWidth:         DefaultCellWidth,
		CellHeight:        DefaultCellHeight,
		HorizontalSpacing: DefaultHorizontalSpacing,
		VerticalSpacing:   DefaultVerticalSpacing,
	}
}

// ColumnPitch returns the horizontal distance between cell origins.
func (g GridConfig) ColumnPitch() float64 {
	return g.CellWidth + g.HorizontalSpacing
}

// RowPitch returns the vertical distance between row origins.
func (g GridConfig) RowPitch() float64 {
	return g.CellHeight + g.VerticalSpacing
}

// CellOrigin returns the world position of the given grid cell.
func (g GridConfig) CellOrigin(row, col int) sort.Point {
	return sort.Pt(
		g.Origin.X+float64(col)*g.ColumnPitch(),
		g.Origin.Y-float64(row)*g.RowPitch(),
	)
}

// SnapToCell quantizes a world position to the origin of the grid
// cell containing it. New canvas placements land on cell origins so
// sorts line up on the composition grid.
func (g GridConfig) SnapToCell(p sort.Point) sort.Point {
	return g.CellOrigin(g.CellAt(p))
}

// WrapRows re-rows the boundaries of a run that has no explicit line
// breaks, wrapping every SortsPerRow entries. The returned x offsets
// are relative to each wrapped row's start so the desired-column
// memory of vertical movement works unchanged. bounds must be the
// contiguous output of RunBoundaries.
func (g GridConfig) WrapRows(bounds []Boundary) []Boundary {
	if g.SortsPerRow <= 0 || len(bounds) <= g.SortsPerRow {
		return bounds
	}
	out := make([]Boundary, len(bounds))
	for i, b := range bounds {
		row := i / g.SortsPerRow
		rowStart := bounds[row*g.SortsPerRow]
		out[i] = Boundary{Index: b.Index, Row: row, X: b.X - rowStart.X}
	}
	return out
}

// CellAt quantizes a world position to the grid cell containing it.
// Positions above the origin row quantize to row 0.
func (g GridConfig) CellAt(p sort.Point) (row, col int) {
	rel := p.Sub(g.Origin)
	col = int(math.Floor(rel.X / g.ColumnPitch()))
	if rel.Y <= 0 {
		row = int(math.Floor(-rel.Y / g.RowPitch()))
	}
	if col < 0 {
		col = 0
	}
	return row, col
}
