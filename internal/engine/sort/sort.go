// Package sort defines the value types stored in the sort buffer:
// glyph instances and structural markers, together with their
// placement metadata.
package sort

import (
	"fmt"
	"math"
)

// NoCursor marks an entry that carries no remembered cursor slot.
const NoCursor = -1

// Point is a 2D position in font-unit world space. Y grows upward,
// matching font coordinate conventions.
type Point struct {
	X float64
	Y float64
}

// Pt is shorthand for constructing a Point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p minus q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Distance returns the Euclidean distance between p and q.
func (p Point) Distance(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// String returns a string representation of the point.
func (p Point) String() string {
	return fmt.Sprintf("(%.1f, %.1f)", p.X, p.Y)
}

// Kind discriminates the variants an entry can hold. It is a closed
// enum: every site that computes geometry or rendering must handle all
// values exhaustively.
type Kind uint8

const (
	// KindGlyph is a placed glyph instance.
	KindGlyph Kind = iota

	// KindLineBreak is a structural line break within a flowing run.
	KindLineBreak
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindGlyph:
		return "glyph"
	case KindLineBreak:
		return "linebreak"
	default:
		return "unknown"
	}
}

// LayoutMode selects the placement regime for an entry.
type LayoutMode uint8

const (
	// LTRText flows left-to-right from the run root.
	LTRText LayoutMode = iota

	// RTLText flows right-to-left from the run root.
	RTLText

	// Freeform is positioned absolutely, ignoring buffer order.
	Freeform
)

// String returns the layout mode name.
func (m LayoutMode) String() string {
	switch m {
	case LTRText:
		return "ltr"
	case RTLText:
		return "rtl"
	case Freeform:
		return "freeform"
	default:
		return "unknown"
	}
}

// IsText reports whether the mode flows within a run (LTR or RTL).
func (m LayoutMode) IsText() bool {
	return m == LTRText || m == RTLText
}

// Entry is one slot in the sort buffer: a glyph instance or a line
// break, plus the placement metadata that decides where it renders.
type Entry struct {
	// Kind selects the variant. Glyph fields below are meaningful
	// only when Kind is KindGlyph.
	Kind Kind

	// Codepoint is the Unicode codepoint backing the glyph, or 0
	// when the glyph has no direct codepoint.
	Codepoint rune

	// GlyphName identifies the glyph when no codepoint is known.
	GlyphName string

	// AdvanceWidth is the horizontal drawing space of the glyph in
	// font units.
	AdvanceWidth float64

	// LayoutMode decides which coordinate-mapping rule applies.
	LayoutMode LayoutMode

	// RootPosition is the absolute anchor for Freeform entries, and
	// the world-space origin of the run for buffer roots.
	RootPosition Point

	// IsBufferRoot is true exactly for the first entry of a flowing
	// run. The root owns the run's origin and direction.
	IsBufferRoot bool

	// BufferCursorPosition remembers the entry's slot when it is
	// detached into freeform mode, allowing a round trip back into
	// the flow. NoCursor when unset.
	BufferCursorPosition int

	// IsActive is true for at most one entry buffer-wide.
	IsActive bool
}

// NewGlyph creates a flowing glyph entry. The codepoint may be 0 when
// the glyph has no direct Unicode mapping.
func NewGlyph(glyphName string, codepoint rune, advanceWidth float64) Entry {
	return Entry{
		Kind:                 KindGlyph,
		Codepoint:            codepoint,
		GlyphName:            glyphName,
		AdvanceWidth:         advanceWidth,
		LayoutMode:           LTRText,
		BufferCursorPosition: NoCursor,
	}
}

// NewLineBreak creates a line break entry.
func NewLineBreak() Entry {
	return Entry{
		Kind:                 KindLineBreak,
		LayoutMode:           LTRText,
		BufferCursorPosition: NoCursor,
	}
}

// IsGlyph reports whether the entry holds a glyph.
func (e Entry) IsGlyph() bool {
	return e.Kind == KindGlyph
}

// IsLineBreak reports whether the entry is a line break.
func (e Entry) IsLineBreak() bool {
	return e.Kind == KindLineBreak
}

// Advance returns the horizontal advance contributed by the entry.
// Line breaks contribute no advance.
func (e Entry) Advance() float64 {
	switch e.Kind {
	case KindGlyph:
		return e.AdvanceWidth
	case KindLineBreak:
		return 0
	default:
		return 0
	}
}

// DisplayString returns a short identifier for the entry, preferring
// the codepoint over the glyph name.
func (e Entry) DisplayString() string {
	switch e.Kind {
	case KindGlyph:
		if e.Codepoint != 0 {
			return fmt.Sprintf("U+%04X", e.Codepoint)
		}
		return e.GlyphName
	case KindLineBreak:
		return "↵"
	default:
		return "?"
	}
}
