package layout

import (
	"context"
	"log/slog"
	"testing"

	"github.com/dshills/galley/internal/engine/buffer"
	"github.com/dshills/galley/internal/engine/sort"
)

const testLineHeight = 1280.0

func newTestMapper() Mapper {
	return NewMapper(DefaultGrid(), testLineHeight, nil)
}

func rootGlyph(name string, advance float64, origin sort.Point, mode sort.LayoutMode) sort.Entry {
	e := sort.NewGlyph(name, rune(name[0]), advance)
	e.LayoutMode = mode
	e.IsBufferRoot = true
	e.RootPosition = origin
	return e
}

func flowGlyph(name string, advance float64, mode sort.LayoutMode) sort.Entry {
	e := sort.NewGlyph(name, rune(name[0]), advance)
	e.LayoutMode = mode
	return e
}

func buildBuffer(t *testing.T, entries ...sort.Entry) *buffer.Buffer {
	t.Helper()
	b := buffer.New()
	for i, e := range entries {
		if err := b.Insert(i, e); err != nil {
			t.Fatalf("unexpected error inserting %d: %v", i, err)
		}
	}
	return b
}

// ============================================================================
// Run Scanning
// ============================================================================

func TestRunRootBefore(t *testing.T) {
	b := buildBuffer(t,
		rootGlyph("a", 500, sort.Pt(0, 0), sort.LTRText),
		flowGlyph("b", 500, sort.LTRText),
		rootGlyph("c", 500, sort.Pt(0, -3000), sort.LTRText),
		flowGlyph("d", 500, sort.LTRText),
	)

	tests := []struct {
		index    int
		wantRoot int
	}{
		{0, 0},
		{1, 0},
		{2, 2},
		{3, 2},
		{4, 2}, // caret past the end scans from the last entry
	}
	for _, tt := range tests {
		got, ok := RunRootBefore(b, tt.index)
		if !ok {
			t.Errorf("index %d: expected a root, found none", tt.index)
			continue
		}
		if got != tt.wantRoot {
			t.Errorf("index %d: expected root %d, got %d", tt.index, tt.wantRoot, got)
		}
	}
}

func TestRunRootBeforeNoRoot(t *testing.T) {
	free := sort.NewGlyph("a", 'a', 500)
	free.LayoutMode = sort.Freeform
	free.RootPosition = sort.Pt(100, 100)
	b := buildBuffer(t, free)

	if _, ok := RunRootBefore(b, 0); ok {
		t.Error("expected no run root among freeform entries")
	}
}

func TestRunEnd(t *testing.T) {
	b := buildBuffer(t,
		rootGlyph("a", 500, sort.Pt(0, 0), sort.LTRText),
		flowGlyph("b", 500, sort.LTRText),
		rootGlyph("c", 500, sort.Pt(0, -3000), sort.LTRText),
	)

	if got := RunEnd(b, 0); got != 2 {
		t.Errorf("expected run end 2, got %d", got)
	}
	if got := RunEnd(b, 2); got != 3 {
		t.Errorf("expected run end 3, got %d", got)
	}
}

// ============================================================================
// Forward Mapping
// ============================================================================

func TestWorldPositionLTR(t *testing.T) {
	m := newTestMapper()
	b := buildBuffer(t,
		rootGlyph("a", 500, sort.Pt(100, 0), sort.LTRText),
		flowGlyph("b", 600, sort.LTRText),
	)

	tests := []struct {
		index int
		want  sort.Point
	}{
		{0, sort.Pt(100, 0)},
		{1, sort.Pt(600, 0)},
		{2, sort.Pt(1200, 0)}, // caret past the last sort
	}
	for _, tt := range tests {
		if got := m.WorldPosition(b, tt.index); got != tt.want {
			t.Errorf("index %d: expected %v, got %v", tt.index, tt.want, got)
		}
	}
}

func TestWorldPositionRTL(t *testing.T) {
	m := newTestMapper()
	b := buildBuffer(t,
		rootGlyph("a", 500, sort.Pt(1000, 0), sort.RTLText),
		flowGlyph("b", 600, sort.RTLText),
	)

	tests := []struct {
		index int
		want  sort.Point
	}{
		{0, sort.Pt(1000, 0)},
		{1, sort.Pt(500, 0)},
		{2, sort.Pt(-100, 0)},
	}
	for _, tt := range tests {
		if got := m.WorldPosition(b, tt.index); got != tt.want {
			t.Errorf("index %d: expected %v, got %v", tt.index, tt.want, got)
		}
	}
}

func TestWorldPositionLineBreak(t *testing.T) {
	m := newTestMapper()
	b := buildBuffer(t,
		rootGlyph("a", 500, sort.Pt(100, 0), sort.LTRText),
		sort.NewLineBreak(),
		flowGlyph("b", 600, sort.LTRText),
	)

	// After the break the pen returns to the run origin x, one line
	// height down.
	if got, want := m.WorldPosition(b, 2), sort.Pt(100, -testLineHeight); got != want {
		t.Errorf("expected %v, got %v", want, got)
	}
	if got, want := m.WorldPosition(b, 3), sort.Pt(700, -testLineHeight); got != want {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestWorldPositionFreeform(t *testing.T) {
	m := newTestMapper()
	free := sort.NewGlyph("x", 'x', 500)
	free.LayoutMode = sort.Freeform
	free.RootPosition = sort.Pt(-250, 4000)

	b := buildBuffer(t,
		rootGlyph("a", 500, sort.Pt(0, 0), sort.LTRText),
		free,
		flowGlyph("b", 600, sort.LTRText),
	)

	// The freeform entry uses its stored anchor and contributes no
	// advance to the run flowing around it.
	if got := m.WorldPosition(b, 1); got != sort.Pt(-250, 4000) {
		t.Errorf("expected freeform anchor, got %v", got)
	}
	if got, want := m.WorldPosition(b, 2), sort.Pt(500, 0); got != want {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestWorldPositionNoRootRecovers(t *testing.T) {
	m := newTestMapper()
	b := buildBuffer(t, flowGlyph("a", 500, sort.LTRText))

	if got := m.WorldPosition(b, 0); got != m.Grid().Origin {
		t.Errorf("expected grid origin for rootless flowing entry, got %v", got)
	}
}

func TestWorldPositionEmptyBuffer(t *testing.T) {
	m := newTestMapper()
	b := buffer.New()
	if got := m.WorldPosition(b, 0); got != m.Grid().Origin {
		t.Errorf("expected grid origin for empty buffer, got %v", got)
	}
}

// warnCounter counts Warn-level records so tests can tell recovery
// logging apart from quiet handling of legal states.
type warnCounter struct {
	count int
}

func (w *warnCounter) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelWarn
}

func (w *warnCounter) Handle(_ context.Context, _ slog.Record) error {
	w.count++
	return nil
}

func (w *warnCounter) WithAttrs(_ []slog.Attr) slog.Handler { return w }
func (w *warnCounter) WithGroup(_ string) slog.Handler      { return w }

func TestWorldPositionCaretAfterFreeformIsQuiet(t *testing.T) {
	wc := &warnCounter{}
	m := NewMapper(DefaultGrid(), testLineHeight, slog.New(wc))

	free := sort.NewGlyph("x", 'x', 500)
	free.LayoutMode = sort.Freeform
	free.RootPosition = sort.Pt(125, 42)
	b := buildBuffer(t, free)

	// The caret past a buffer holding only freeform sorts is legal.
	if got := m.WorldPosition(b, b.Len()); got != m.Grid().Origin {
		t.Errorf("expected grid origin for the caret, got %v", got)
	}
	if wc.count != 0 {
		t.Fatalf("expected no warnings for a legal caret, got %d", wc.count)
	}

	// A flowing entry with no preceding root still warns.
	rootless := buildBuffer(t, flowGlyph("a", 500, sort.LTRText))
	m.WorldPosition(rootless, 0)
	if wc.count != 1 {
		t.Errorf("expected one warning for a rootless flowing entry, got %d", wc.count)
	}
}

// ============================================================================
// Inverse Mapping
// ============================================================================

func TestBufferPositionRoundTrip(t *testing.T) {
	m := newTestMapper()
	b := buildBuffer(t,
		rootGlyph("a", 500, sort.Pt(100, -200), sort.LTRText),
		flowGlyph("b", 600, sort.LTRText),
		sort.NewLineBreak(),
		flowGlyph("c", 450, sort.LTRText),
		flowGlyph("d", 700, sort.LTRText),
	)

	// Every boundary the forward mapping produces must come back to
	// the same index.
	for i := 0; i <= b.Len(); i++ {
		p := m.WorldPosition(b, i)
		got, ok := m.BufferPosition(b, p)
		if !ok {
			t.Fatalf("index %d: expected a position, found none", i)
		}
		if got != i {
			t.Errorf("index %d: round trip gave %d (world %v)", i, got, p)
		}
	}
}

func TestBufferPositionRoundTripRTL(t *testing.T) {
	m := newTestMapper()
	b := buildBuffer(t,
		rootGlyph("a", 500, sort.Pt(2000, 0), sort.RTLText),
		flowGlyph("b", 600, sort.RTLText),
		flowGlyph("c", 450, sort.RTLText),
	)

	for i := 0; i <= b.Len(); i++ {
		p := m.WorldPosition(b, i)
		got, ok := m.BufferPosition(b, p)
		if !ok {
			t.Fatalf("index %d: expected a position, found none", i)
		}
		if got != i {
			t.Errorf("index %d: round trip gave %d (world %v)", i, got, p)
		}
	}
}

func TestBufferPositionNearestRun(t *testing.T) {
	m := newTestMapper()
	b := buildBuffer(t,
		rootGlyph("a", 500, sort.Pt(0, 0), sort.LTRText),
		flowGlyph("b", 500, sort.LTRText),
		rootGlyph("c", 500, sort.Pt(10000, 0), sort.LTRText),
		flowGlyph("d", 500, sort.LTRText),
	)

	// A click near the second run's origin resolves into that run.
	got, ok := m.BufferPosition(b, sort.Pt(10200, 30))
	if !ok {
		t.Fatal("expected a position")
	}
	if got < 2 {
		t.Errorf("expected a position in the second run (>= 2), got %d", got)
	}
}

func TestBufferPositionNoRuns(t *testing.T) {
	m := newTestMapper()
	free := sort.NewGlyph("x", 'x', 500)
	free.LayoutMode = sort.Freeform
	b := buildBuffer(t, free)

	if _, ok := m.BufferPosition(b, sort.Pt(0, 0)); ok {
		t.Error("expected no position when the buffer holds no flowing runs")
	}
}

func TestBufferPositionRowClamping(t *testing.T) {
	m := newTestMapper()
	b := buildBuffer(t,
		rootGlyph("a", 500, sort.Pt(0, 0), sort.LTRText),
		sort.NewLineBreak(),
		flowGlyph("b", 500, sort.LTRText),
	)

	// Far above the run clamps to row 0, far below to the last row.
	got, ok := m.BufferPosition(b, sort.Pt(0, 50000))
	if !ok {
		t.Fatal("expected a position")
	}
	if got != 0 {
		t.Errorf("expected clamp to boundary 0, got %d", got)
	}

	got, ok = m.BufferPosition(b, sort.Pt(0, -50000))
	if !ok {
		t.Fatal("expected a position")
	}
	if got != 2 {
		t.Errorf("expected clamp to the last row's first boundary, got %d", got)
	}
}

// ============================================================================
// Run Boundaries
// ============================================================================

func TestRunBoundaries(t *testing.T) {
	m := newTestMapper()
	b := buildBuffer(t,
		rootGlyph("a", 500, sort.Pt(0, 0), sort.LTRText),
		flowGlyph("b", 600, sort.LTRText),
		sort.NewLineBreak(),
		flowGlyph("c", 450, sort.LTRText),
	)

	bounds := m.RunBoundaries(b, 0)
	want := []Boundary{
		{Index: 0, Row: 0, X: 0},
		{Index: 1, Row: 0, X: 500},
		{Index: 2, Row: 0, X: 1100},
		{Index: 3, Row: 1, X: 0},
		{Index: 4, Row: 1, X: 450},
	}
	if len(bounds) != len(want) {
		t.Fatalf("expected %d boundaries, got %d", len(want), len(bounds))
	}
	for i := range want {
		if bounds[i] != want[i] {
			t.Errorf("boundary %d: expected %+v, got %+v", i, want[i], bounds[i])
		}
	}
}
