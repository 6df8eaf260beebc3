package engine

import (
	"math"

	"github.com/dshills/galley/internal/engine/sort"
	"github.com/dshills/galley/internal/font"
)

// distanceEpsilon is the slack within which two hit-test distances
// count as a tie.
const distanceEpsilon = 1e-6

// FindSortAtPosition resolves a canvas position to the sort it hits,
// if any. Flowing glyphs match when the point falls inside the
// advance-wide box between descender and ascender; freeform sorts and
// line breaks present a grab handle at their anchor within tolerance.
// Overlapping candidates resolve by smallest distance to the anchor,
// then the most recently activated sort, then the highest buffer
// index.
func (e *Editor) FindSortAtPosition(p Point, tolerance float64) (int, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	m := e.metrics.Metrics()
	best, bestDist := -1, math.MaxFloat64
	n := e.buf.Len()
	for i := 0; i < n; i++ {
		entry, err := e.buf.Get(i)
		if err != nil {
			break
		}
		anchor := e.mapper.WorldPosition(e.buf, i)
		if !hitsSort(entry, anchor, p, tolerance, m) {
			continue
		}
		d := p.Distance(anchor)
		switch {
		case d < bestDist-distanceEpsilon:
			best, bestDist = i, d
		case math.Abs(d-bestDist) <= distanceEpsilon:
			// Equidistant overlap: most recently activated wins,
			// otherwise the higher index (i is always > best here).
			if i == e.lastActivated || best != e.lastActivated {
				best, bestDist = i, d
			}
		}
	}
	if best < 0 {
		return 0, false
	}
	return best, true
}

// hitsSort tests whether p falls within the bounding region of a sort
// anchored at anchor. Every kind is handled explicitly so a new kind
// cannot silently fall through geometry.
func hitsSort(entry Entry, anchor, p Point, tolerance float64, m font.Metrics) bool {
	switch entry.Kind {
	case sort.KindGlyph:
		if entry.LayoutMode.IsText() {
			x0, x1 := anchor.X, anchor.X+entry.AdvanceWidth
			if entry.LayoutMode == sort.RTLText {
				x0, x1 = anchor.X-entry.AdvanceWidth, anchor.X
			}
			if p.X >= x0 && p.X <= x1 &&
				p.Y >= anchor.Y+m.Descender && p.Y <= anchor.Y+m.Ascender {
				return true
			}
		}
		// Freeform sorts are grabbed by their handle; flowing glyphs
		// keep one too so clicks near the pen origin still resolve.
		return p.Distance(anchor) <= tolerance
	case sort.KindLineBreak:
		return p.Distance(anchor) <= tolerance
	default:
		return false
	}
}
