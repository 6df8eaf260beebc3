package renderer

import (
	"testing"

	"github.com/dshills/galley/internal/engine/sort"
)

func TestCellForOrigin(t *testing.T) {
	v := NewViewport()
	col, row := v.CellFor(v.Origin)
	if col != 0 || row != 0 {
		t.Errorf("expected (0, 0), got (%d, %d)", col, row)
	}
}

func TestCellForWorldAtRoundTrip(t *testing.T) {
	v := NewViewport()
	for _, cell := range [][2]int{{0, 0}, {5, 2}, {40, 20}} {
		p := v.WorldAt(cell[0], cell[1])
		col, row := v.CellFor(p)
		if col != cell[0] || row != cell[1] {
			t.Errorf("cell (%d, %d): round trip gave (%d, %d)", cell[0], cell[1], col, row)
		}
	}
}

func TestCellForRowsGrowDownward(t *testing.T) {
	v := NewViewport()
	_, row0 := v.CellFor(sort.Pt(0, 0))
	_, row1 := v.CellFor(sort.Pt(0, -DefaultUnitsPerRow))
	if row1 != row0+1 {
		t.Errorf("expected one row down, got rows %d and %d", row0, row1)
	}
}

func TestPan(t *testing.T) {
	v := NewViewport()
	p := sort.Pt(0, 0)
	col, row := v.CellFor(p)

	panned := v.Pan(3, 2)
	pCol, pRow := panned.CellFor(p)
	if pCol != col-3 || pRow != row-2 {
		t.Errorf("expected (%d, %d), got (%d, %d)", col-3, row-2, pCol, pRow)
	}
}
