package engine

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"sync"

	"github.com/dshills/galley/internal/engine/buffer"
	"github.com/dshills/galley/internal/engine/cursor"
	"github.com/dshills/galley/internal/engine/layout"
	"github.com/dshills/galley/internal/engine/sort"
	"github.com/dshills/galley/internal/font"
	"github.com/dshills/galley/internal/glyph"
)

// Re-export commonly used types for convenience.
type (
	// Entry is one stored sort.
	Entry = sort.Entry

	// Point is a 2D world position in font units.
	Point = sort.Point

	// LayoutMode selects the placement regime for an entry.
	LayoutMode = sort.LayoutMode

	// GridConfig holds the grid geometry constants.
	GridConfig = layout.GridConfig

	// RevisionID uniquely identifies a buffer revision.
	RevisionID = buffer.RevisionID
)

// Re-export constants.
const (
	LTRText  = sort.LTRText
	RTLText  = sort.RTLText
	Freeform = sort.Freeform
)

// Editor is the orchestrating state for the sort buffer: it owns the
// gap buffer, the cursor, and the grid configuration, and exposes all
// cursor-navigation, insertion/deletion, activation, and
// coordinate-mapping operations. It is the only entry point other
// subsystems use.
//
// All operations are safe for concurrent use.
type Editor struct {
	mu sync.RWMutex

	buf    *buffer.Buffer
	cur    cursor.Cursor
	grid   layout.GridConfig
	mapper layout.Mapper

	metrics font.Provider
	logger  *slog.Logger

	// defaultRootPos is where typing with no run to extend plants a
	// fresh text root.
	defaultRootPos sort.Point

	// lastActivated breaks hit-test ties; -1 when nothing has been
	// activated yet.
	lastActivated int

	bufCapacity int
}

// New creates an empty editor with the given options.
func New(opts ...Option) *Editor {
	e := &Editor{
		grid:           layout.DefaultGrid(),
		metrics:        font.Static{Default: 600, Vert: font.DefaultMetrics()},
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		defaultRootPos: DefaultRootPosition,
		lastActivated:  -1,
	}
	for _, opt := range opts {
		opt(e)
	}

	var bufOpts []buffer.Option
	if e.bufCapacity > 0 {
		bufOpts = append(bufOpts, buffer.WithCapacity(e.bufCapacity))
	}
	e.buf = buffer.New(bufOpts...)
	e.mapper = layout.NewMapper(e.grid, e.metrics.Metrics().LineHeight(), e.logger)
	return e
}

// ============================================================================
// Read Operations
// ============================================================================

// Len returns the number of sorts in the buffer.
func (e *Editor) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.Len()
}

// IsEmpty reports whether the buffer holds no sorts.
func (e *Editor) IsEmpty() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.IsEmpty()
}

// Get returns the sort at the given buffer position.
func (e *Editor) Get(index int) (Entry, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.Get(index)
}

// CursorPosition returns the cursor's buffer position, in [0, Len()].
func (e *Editor) CursorPosition() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cur.Position()
}

// Revision returns the buffer's current revision ID.
func (e *Editor) Revision() RevisionID {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.Revision()
}

// Grid returns the grid configuration.
func (e *Editor) Grid() GridConfig {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.grid
}

// Metrics returns the editor's metrics provider.
func (e *Editor) Metrics() font.Provider {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.metrics
}

// Each calls fn for every sort in buffer order until fn returns false.
// fn must not call back into the editor.
func (e *Editor) Each(fn func(index int, entry Entry) bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	e.buf.Each(fn)
}

// ActiveSort returns the single active sort, if any.
func (e *Editor) ActiveSort() (int, Entry, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.activeSortLocked()
}

func (e *Editor) activeSortLocked() (int, Entry, bool) {
	n := e.buf.Len()
	for i := 0; i < n; i++ {
		entry, err := e.buf.Get(i)
		if err != nil {
			break
		}
		if entry.IsActive {
			return i, entry, true
		}
	}
	return 0, Entry{}, false
}

// ============================================================================
// Coordinate Mapping
// ============================================================================

// SortVisualPosition returns where the sort at index currently
// renders, or false when the index is out of range.
func (e *Editor) SortVisualPosition(index int) (Point, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if index < 0 || index >= e.buf.Len() {
		return Point{}, false
	}
	return e.mapper.WorldPosition(e.buf, index), true
}

// WorldPositionForBufferPosition returns the world position for any
// buffer position, including Len() (the caret past the last sort).
func (e *Editor) WorldPositionForBufferPosition(index int) Point {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.mapper.WorldPosition(e.buf, index)
}

// BufferPositionForWorldPosition resolves a world position to the
// closest buffer position, or false when no flowing run exists.
func (e *Editor) BufferPositionForWorldPosition(p Point) (int, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.mapper.BufferPosition(e.buf, p)
}

// CursorWorldPosition returns the world position of the caret.
func (e *Editor) CursorWorldPosition() Point {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.mapper.WorldPosition(e.buf, e.cur.Position())
}

// ============================================================================
// Cursor Navigation
// ============================================================================

// MoveCursorLeft steps the cursor one position left. No-op at 0.
func (e *Editor) MoveCursorLeft() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cur = e.cur.Left()
}

// MoveCursorRight steps the cursor one position right. No-op at Len().
func (e *Editor) MoveCursorRight() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cur = e.cur.Right(e.buf.Len())
}

// MoveCursorTo jumps the cursor to index, clamped to [0, Len()].
func (e *Editor) MoveCursorTo(index int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cur = e.cur.MoveTo(index, e.buf.Len())
}

// MoveCursorUp moves the cursor to the previous row of its run,
// preserving the visual column across rows of differing length. Rows
// come from line breaks, or from the grid's fixed column count when
// the run has none. No-op when no prior row exists.
func (e *Editor) MoveCursorUp() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.moveVerticalLocked(-1)
}

// MoveCursorDown moves the cursor to the next row of its run. No-op
// when no later row exists.
func (e *Editor) MoveCursorDown() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.moveVerticalLocked(+1)
}

func (e *Editor) moveVerticalLocked(delta int) {
	pos := e.cur.Position()
	rootIndex, ok := layout.RunRootBefore(e.buf, pos)
	if !ok {
		return
	}
	if pos > layout.RunEnd(e.buf, rootIndex) {
		return
	}
	bounds := e.mapper.RunBoundaries(e.buf, rootIndex)
	if bounds[len(bounds)-1].Row == 0 {
		// No explicit line breaks: the fixed column count supplies
		// the wrap rows.
		bounds = e.grid.WrapRows(bounds)
	}

	var current layout.Boundary
	found := false
	for _, b := range bounds {
		if b.Index == pos {
			current, found = b, true
			break
		}
	}
	if !found {
		return
	}

	targetRow := current.Row + delta
	if targetRow < 0 || targetRow > bounds[len(bounds)-1].Row {
		return
	}

	// Repeated vertical moves keep aiming at the column where the
	// traversal started, not wherever the previous row clamped to.
	desired := current.X
	if x, ok := e.cur.DesiredX(); ok {
		desired = x
	}

	bestIndex, bestDX := -1, math.MaxFloat64
	for _, b := range bounds {
		if b.Row != targetRow {
			continue
		}
		if dx := math.Abs(b.X - desired); dx < bestDX {
			bestIndex, bestDX = b.Index, dx
		}
	}
	if bestIndex < 0 {
		return
	}
	e.cur = e.cur.WithDesiredX(bestIndex, desired)
}

// ============================================================================
// Insertion and Deletion
// ============================================================================

// enclosingRunLocked returns the run covering insertion position pos,
// meaning a root exists at or before pos-1 and pos does not lie past
// the run's end.
func (e *Editor) enclosingRunLocked(pos int) (int, Entry, bool) {
	if pos <= 0 {
		return 0, Entry{}, false
	}
	rootIndex, found := layout.RunRootBefore(e.buf, pos-1)
	if !found {
		return 0, Entry{}, false
	}
	if pos > layout.RunEnd(e.buf, rootIndex) {
		return 0, Entry{}, false
	}
	root, err := e.buf.Get(rootIndex)
	if err != nil {
		return 0, Entry{}, false
	}
	return rootIndex, root, true
}

// InsertSortAtCursor inserts a glyph before the cursor and advances
// it. The new sort inherits the enclosing run's layout mode; when no
// run encloses the cursor, a fresh LTR text root is created at the
// default root position carrying this glyph.
func (e *Editor) InsertSortAtCursor(glyphName string, advanceWidth float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	codepoint, _ := glyph.RuneForName(glyphName)
	entry := sort.NewGlyph(glyphName, codepoint, advanceWidth)

	pos := e.cur.Position()
	if _, root, ok := e.enclosingRunLocked(pos); ok {
		entry.LayoutMode = root.LayoutMode
		e.insertAtLocked(pos, entry)
		e.cur = e.cur.MoveTo(pos+1, e.buf.Len())
		return
	}

	// No run to extend: this glyph starts a new run.
	e.logger.Debug("no enclosing run at cursor, creating text root",
		"glyph", glyphName, "position", e.defaultRootPos)
	entry.IsBufferRoot = true
	entry.RootPosition = e.defaultRootPos
	entry.IsActive = true
	e.clearActiveLocked()
	index := e.buf.Len()
	e.insertAtLocked(index, entry)
	e.lastActivated = index
	e.cur = e.cur.MoveTo(index+1, e.buf.Len())
}

// InsertLineBreakAtCursor inserts a line break before the cursor.
// No-op when no run encloses the cursor: a line break cannot start a
// run.
func (e *Editor) InsertLineBreakAtCursor() {
	e.mu.Lock()
	defer e.mu.Unlock()

	pos := e.cur.Position()
	_, root, ok := e.enclosingRunLocked(pos)
	if !ok {
		e.logger.Warn("cannot insert line break: no enclosing run at cursor", "cursor", pos)
		return
	}
	entry := sort.NewLineBreak()
	entry.LayoutMode = root.LayoutMode
	e.insertAtLocked(pos, entry)
	e.cur = e.cur.MoveTo(pos+1, e.buf.Len())
}

// insertAtLocked inserts and keeps the activation bookkeeping aligned
// with the shifted indices.
func (e *Editor) insertAtLocked(index int, entry Entry) {
	if err := e.buf.Insert(index, entry); err != nil {
		e.logger.Warn("insert failed", "index", index, "err", err)
		return
	}
	if e.lastActivated >= index {
		e.lastActivated++
	}
}

// DeleteSortAtCursor removes the sort before the cursor and steps the
// cursor back (backspace). No-op when the cursor is at 0. Deleting a
// run root promotes the next run member to root so the run keeps
// exactly one root.
func (e *Editor) DeleteSortAtCursor() {
	e.mu.Lock()
	defer e.mu.Unlock()

	pos := e.cur.Position()
	if pos == 0 {
		return
	}
	e.deleteAtLocked(pos - 1)
	e.cur = e.cur.MoveTo(pos-1, e.buf.Len())
}

// DeleteForwardAtCursor removes the sort at the cursor, leaving the
// cursor in place. No-op at end of buffer.
func (e *Editor) DeleteForwardAtCursor() {
	e.mu.Lock()
	defer e.mu.Unlock()

	pos := e.cur.Position()
	if pos >= e.buf.Len() {
		return
	}
	e.deleteAtLocked(pos)
	e.cur = e.cur.Clamp(e.buf.Len())
}

func (e *Editor) deleteAtLocked(index int) {
	deleted, err := e.buf.Delete(index)
	if err != nil {
		e.logger.Warn("delete failed", "index", index, "err", err)
		return
	}

	// Keep the one-root-per-run invariant: the next member inherits
	// the deleted root's origin.
	if deleted.IsBufferRoot && index < e.buf.Len() {
		next, err := e.buf.Get(index)
		if err == nil && next.LayoutMode.IsText() && !next.IsBufferRoot {
			_ = e.buf.Modify(index, func(s *sort.Entry) {
				s.IsBufferRoot = true
				s.RootPosition = deleted.RootPosition
			})
		}
	}

	switch {
	case e.lastActivated == index:
		e.lastActivated = -1
	case e.lastActivated > index:
		e.lastActivated--
	}
}

// ============================================================================
// Sort Placement
// ============================================================================

// AddFreeformSort places a glyph at an explicit world position,
// outside any text flow, and activates it. Returns the new sort's
// buffer index.
func (e *Editor) AddFreeformSort(glyphName string, position Point, advanceWidth float64) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.clearActiveLocked()

	codepoint, _ := glyph.RuneForName(glyphName)
	entry := sort.NewGlyph(glyphName, codepoint, advanceWidth)
	entry.LayoutMode = sort.Freeform
	entry.RootPosition = position
	entry.IsActive = true

	index := e.buf.Len()
	e.insertAtLocked(index, entry)
	e.lastActivated = index
	e.logger.Debug("added freeform sort", "glyph", glyphName, "index", index, "position", position)
	return index
}

// CreateTextRoot establishes a fresh flowing run anchored at the
// given world position, activates its root, and places the cursor
// after the root ready for typing. The root carries a visible
// placeholder glyph whose advance width comes from the metrics
// provider. Returns the root's buffer index.
func (e *Editor) CreateTextRoot(position Point, mode LayoutMode) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.createTextRootLocked(position, mode)
}

func (e *Editor) createTextRootLocked(position Point, mode LayoutMode) int {
	e.clearActiveLocked()

	advance := e.metrics.AdvanceWidth(placeholderGlyph)
	codepoint, _ := glyph.RuneForName(placeholderGlyph)
	entry := sort.NewGlyph(placeholderGlyph, codepoint, advance)
	entry.LayoutMode = mode
	entry.RootPosition = position
	entry.IsBufferRoot = true
	entry.IsActive = true

	index := e.buf.Len()
	e.insertAtLocked(index, entry)
	e.lastActivated = index

	// Buffer order is logical order for both directions; the mapper
	// flips x accumulation for RTL. Typing always continues after the
	// root.
	e.cur = e.cur.MoveTo(index+1, e.buf.Len())
	e.logger.Debug("created text root", "mode", mode, "index", index, "position", position)
	return index
}

// CreateTextSortAtPosition inserts a flowing glyph, establishing a new
// run at the given position first when the cursor has no run to
// extend. Used by the text tool's canvas clicks.
func (e *Editor) CreateTextSortAtPosition(glyphName string, position Point, advanceWidth float64, mode LayoutMode) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, _, ok := e.enclosingRunLocked(e.cur.Position()); !ok {
		e.createTextRootLocked(position, mode)
	}

	codepoint, _ := glyph.RuneForName(glyphName)
	entry := sort.NewGlyph(glyphName, codepoint, advanceWidth)
	pos := e.cur.Position()
	if _, root, ok := e.enclosingRunLocked(pos); ok {
		entry.LayoutMode = root.LayoutMode
	} else {
		entry.LayoutMode = mode
	}
	e.insertAtLocked(pos, entry)
	e.cur = e.cur.MoveTo(pos+1, e.buf.Len())
}

// ============================================================================
// Activation
// ============================================================================

// ActivateSort makes the sort at index the single active sort,
// deactivating any other. Readers never observe two active sorts,
// even across the call: the write lock spans both transitions.
func (e *Editor) ActivateSort(index int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if index < 0 || index >= e.buf.Len() {
		return fmt.Errorf("activating sort %d: %w", index, ErrIndexOutOfRange)
	}
	e.clearActiveLocked()
	_ = e.buf.Modify(index, func(s *sort.Entry) {
		s.IsActive = true
	})
	e.lastActivated = index
	return nil
}

// ClearActiveState deactivates every sort.
func (e *Editor) ClearActiveState() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.clearActiveLocked()
}

func (e *Editor) clearActiveLocked() {
	n := e.buf.Len()
	for i := 0; i < n; i++ {
		entry, err := e.buf.Get(i)
		if err != nil {
			break
		}
		if entry.IsActive {
			_ = e.buf.Modify(i, func(s *sort.Entry) {
				s.IsActive = false
			})
		}
	}
}

// ============================================================================
// Mode Detachment
// ============================================================================

// DetachSortToFreeform converts a flowing sort into a freeform sort
// anchored at the given position, remembering its buffer slot so it
// can round-trip back into the flow. Detaching a run root promotes
// the next run member to root.
func (e *Editor) DetachSortToFreeform(index int, position Point) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	entry, err := e.buf.Get(index)
	if err != nil {
		return fmt.Errorf("detaching sort %d: %w", index, err)
	}
	if !entry.LayoutMode.IsText() {
		return nil
	}

	if entry.IsBufferRoot && index+1 < e.buf.Len() {
		next, err := e.buf.Get(index + 1)
		if err == nil && next.LayoutMode.IsText() && !next.IsBufferRoot {
			_ = e.buf.Modify(index+1, func(s *sort.Entry) {
				s.IsBufferRoot = true
				s.RootPosition = entry.RootPosition
			})
		}
	}

	return e.buf.Modify(index, func(s *sort.Entry) {
		s.LayoutMode = sort.Freeform
		s.RootPosition = position
		s.IsBufferRoot = false
		s.BufferCursorPosition = index
	})
}

// ReattachSortToFlow moves a detached freeform sort back into the
// flow at its remembered slot. Sorts without a remembered slot stay
// freeform.
func (e *Editor) ReattachSortToFlow(index int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	entry, err := e.buf.Get(index)
	if err != nil {
		return fmt.Errorf("reattaching sort %d: %w", index, err)
	}
	if entry.LayoutMode != sort.Freeform || entry.BufferCursorPosition == sort.NoCursor {
		return nil
	}

	if _, err := e.buf.Delete(index); err != nil {
		return fmt.Errorf("reattaching sort %d: %w", index, err)
	}
	target := entry.BufferCursorPosition
	if target > e.buf.Len() {
		target = e.buf.Len()
	}

	entry.BufferCursorPosition = sort.NoCursor
	if _, root, ok := e.enclosingRunLocked(target); ok {
		entry.LayoutMode = root.LayoutMode
		entry.IsBufferRoot = false
	} else {
		// Nothing to rejoin: the sort becomes its own run, rooted
		// where it floated.
		entry.LayoutMode = sort.LTRText
		entry.IsBufferRoot = true
	}
	e.insertAtLocked(target, entry)
	e.cur = e.cur.Clamp(e.buf.Len())
	return nil
}

// ============================================================================
// Snapshots
// ============================================================================

// Clone returns a deep copy of the editor sharing no mutable state
// with the original. The undo stack treats editor states as opaque
// cloneable values.
func (e *Editor) Clone() *Editor {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return &Editor{
		buf:            e.buf.Clone(),
		cur:            e.cur,
		grid:           e.grid,
		mapper:         e.mapper,
		metrics:        e.metrics,
		logger:         e.logger,
		defaultRootPos: e.defaultRootPos,
		lastActivated:  e.lastActivated,
		bufCapacity:    e.bufCapacity,
	}
}
