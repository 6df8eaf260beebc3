package layout

import (
	"io"
	"log/slog"
	"math"

	"github.com/dshills/galley/internal/engine/sort"
)

// View is the read-only slice of the sort buffer the mapper consumes.
type View interface {
	Len() int
	Get(index int) (sort.Entry, error)
}

// Mapper computes world positions by accumulation rather than caching
// per-entry positions. The buffer stays the single source of truth and
// no cached position can go stale when an earlier advance changes.
type Mapper struct {
	grid       GridConfig
	lineHeight float64
	logger     *slog.Logger
}

// NewMapper creates a mapper. lineHeight is the vertical drop applied
// per line break, in font units. A nil logger disables logging.
func NewMapper(grid GridConfig, lineHeight float64, logger *slog.Logger) Mapper {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if lineHeight <= 0 {
		lineHeight = grid.RowPitch()
	}
	return Mapper{grid: grid, lineHeight: lineHeight, logger: logger}
}

// Grid returns the mapper's grid configuration.
func (m Mapper) Grid() GridConfig {
	return m.grid
}

// LineHeight returns the per-line vertical drop.
func (m Mapper) LineHeight() float64 {
	return m.lineHeight
}

// RunRootBefore scans backward from index for the nearest flowing
// buffer root, returning its index.
func RunRootBefore(view View, index int) (int, bool) {
	if index >= view.Len() {
		index = view.Len() - 1
	}
	for i := index; i >= 0; i-- {
		entry, err := view.Get(i)
		if err != nil {
			return 0, false
		}
		if entry.IsBufferRoot && entry.LayoutMode.IsText() {
			return i, true
		}
	}
	return 0, false
}

// RunEnd returns the index one past the last member of the run rooted
// at rootIndex. A run ends at the next buffer root or the buffer end.
func RunEnd(view View, rootIndex int) int {
	n := view.Len()
	for i := rootIndex + 1; i < n; i++ {
		entry, err := view.Get(i)
		if err != nil {
			return i
		}
		if entry.IsBufferRoot {
			return i
		}
	}
	return n
}

// flowOffset accumulates the pen offset from the run root up to (but
// not including) index. Freeform entries stored inside the span
// contribute nothing.
func (m Mapper) flowOffset(view View, rootIndex, index int) (x, y float64) {
	for i := rootIndex; i < index; i++ {
		entry, err := view.Get(i)
		if err != nil {
			break
		}
		if i != rootIndex && entry.IsBufferRoot {
			break
		}
		if i != rootIndex && !entry.LayoutMode.IsText() {
			continue
		}
		switch entry.Kind {
		case sort.KindLineBreak:
			x = 0
			y -= m.lineHeight
		case sort.KindGlyph:
			if entry.LayoutMode == sort.RTLText {
				x -= entry.AdvanceWidth
			} else {
				x += entry.AdvanceWidth
			}
		}
	}
	return x, y
}

// WorldPosition returns the world position for a buffer position.
// index may equal view.Len(), placing the caret past the last sort.
// For a freeform entry the stored anchor is returned unconditionally.
//
// A flowing entry with no preceding root is malformed state; the
// mapper recovers by treating the index as self-rooted at the grid
// origin and logs a consistency warning.
func (m Mapper) WorldPosition(view View, index int) sort.Point {
	n := view.Len()
	if index < 0 {
		index = 0
	}
	if index > n {
		index = n
	}
	if index < n {
		entry, err := view.Get(index)
		if err == nil && entry.LayoutMode == sort.Freeform {
			return entry.RootPosition
		}
	}
	if n == 0 {
		return m.grid.Origin
	}
	rootIndex, ok := RunRootBefore(view, index)
	if !ok {
		// The caret past a buffer of only freeform sorts is legal
		// and quiet; a flowing entry with no root is not.
		if index < n {
			m.logger.Warn("flowing entry with no preceding run root, treating as self-rooted",
				"index", index)
		}
		return m.grid.Origin
	}
	root, err := view.Get(rootIndex)
	if err != nil {
		return m.grid.Origin
	}
	x, y := m.flowOffset(view, rootIndex, index)
	return sort.Pt(root.RootPosition.X+x, root.RootPosition.Y+y)
}

// Boundary is one cursor-insertable position within a run: its buffer
// index, the row it sits on (counted in line breaks from the root),
// and its accumulated x offset from the run origin.
type Boundary struct {
	Index int
	Row   int
	X     float64
}

// RunBoundaries enumerates every boundary of the run rooted at
// rootIndex, including the caret position past its last member.
func (m Mapper) RunBoundaries(view View, rootIndex int) []Boundary {
	end := RunEnd(view, rootIndex)
	bounds := make([]Boundary, 0, end-rootIndex+1)
	x, row := 0.0, 0
	for i := rootIndex; i <= end; i++ {
		bounds = append(bounds, Boundary{Index: i, Row: row, X: x})
		if i == end {
			break
		}
		entry, err := view.Get(i)
		if err != nil {
			break
		}
		if !entry.LayoutMode.IsText() && i != rootIndex {
			continue
		}
		switch entry.Kind {
		case sort.KindLineBreak:
			x = 0
			row++
		case sort.KindGlyph:
			if entry.LayoutMode == sort.RTLText {
				x -= entry.AdvanceWidth
			} else {
				x += entry.AdvanceWidth
			}
		}
	}
	return bounds
}

// BufferPosition resolves a world position to the closest buffer
// position. The point is quantized against the run whose origin is
// nearest, picking the row by line-height pitch and then the boundary
// whose accumulated x is closest. Returns false when the buffer holds
// no flowing runs.
func (m Mapper) BufferPosition(view View, p sort.Point) (int, bool) {
	bestRoot, bestDist := -1, math.MaxFloat64
	n := view.Len()
	for i := 0; i < n; i++ {
		entry, err := view.Get(i)
		if err != nil {
			break
		}
		if !entry.IsBufferRoot || !entry.LayoutMode.IsText() {
			continue
		}
		if d := p.Distance(entry.RootPosition); d < bestDist {
			bestRoot, bestDist = i, d
		}
	}
	if bestRoot < 0 {
		return 0, false
	}
	root, err := view.Get(bestRoot)
	if err != nil {
		return 0, false
	}

	rel := p.Sub(root.RootPosition)
	row := int(math.Round(-rel.Y / m.lineHeight))
	bounds := m.RunBoundaries(view, bestRoot)
	maxRow := bounds[len(bounds)-1].Row
	if row < 0 {
		row = 0
	}
	if row > maxRow {
		row = maxRow
	}

	// Variable-width glyphs make this an approximation: resolve by
	// linear scan within the candidate row.
	bestIndex, bestDX := bounds[0].Index, math.MaxFloat64
	for _, b := range bounds {
		if b.Row != row {
			continue
		}
		if dx := math.Abs(b.X - rel.X); dx < bestDX {
			bestIndex, bestDX = b.Index, dx
		}
	}
	return bestIndex, true
}
