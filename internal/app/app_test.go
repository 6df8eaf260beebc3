package app

import (
	"errors"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/galley/internal/config"
	"github.com/dshills/galley/internal/font"
	"github.com/dshills/galley/internal/input"
	"github.com/dshills/galley/internal/renderer/backend"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	settings := config.Default()
	settings.Editor.RootX = 0
	settings.Editor.RootY = 0
	a, err := New(Options{
		Settings: settings,
		Backend:  backend.NewSimulation(),
		Metrics:  font.Static{Default: 500, Vert: font.DefaultMetrics()},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return a
}

func mustApply(t *testing.T, a *App, action input.Action) {
	t.Helper()
	if err := a.apply(action); err != nil {
		t.Fatalf("unexpected error applying %v: %v", action.Kind, err)
	}
}

// ============================================================================
// Actions
// ============================================================================

func TestTypingInsertsGlyphs(t *testing.T) {
	a := newTestApp(t)

	mustApply(t, a, input.Action{Kind: input.InsertRune, Rune: 'h'})
	mustApply(t, a, input.Action{Kind: input.InsertRune, Rune: 'i'})

	e := a.Editor()
	if e.Len() != 2 {
		t.Fatalf("expected len 2, got %d", e.Len())
	}
	first, _ := e.Get(0)
	if first.GlyphName != "h" {
		t.Errorf("expected glyph %q, got %q", "h", first.GlyphName)
	}
	if first.Codepoint != 'h' {
		t.Errorf("expected codepoint 'h', got %q", first.Codepoint)
	}
}

func TestPunctuationResolvesToName(t *testing.T) {
	a := newTestApp(t)
	mustApply(t, a, input.Action{Kind: input.InsertRune, Rune: '!'})

	entry, _ := a.Editor().Get(0)
	if entry.GlyphName != "exclam" {
		t.Errorf("expected %q, got %q", "exclam", entry.GlyphName)
	}
}

func TestBackspaceAction(t *testing.T) {
	a := newTestApp(t)
	mustApply(t, a, input.Action{Kind: input.InsertRune, Rune: 'a'})
	mustApply(t, a, input.Action{Kind: input.DeleteBack})

	if a.Editor().Len() != 0 {
		t.Errorf("expected empty editor, got len %d", a.Editor().Len())
	}
}

func TestQuitAction(t *testing.T) {
	a := newTestApp(t)
	err := a.apply(input.Action{Kind: input.Quit})
	if !errors.Is(err, ErrQuit) {
		t.Errorf("expected ErrQuit, got %v", err)
	}
}

// ============================================================================
// Undo / Redo
// ============================================================================

func TestUndoRedoActions(t *testing.T) {
	a := newTestApp(t)
	mustApply(t, a, input.Action{Kind: input.InsertRune, Rune: 'a'})
	mustApply(t, a, input.Action{Kind: input.LineBreak})

	mustApply(t, a, input.Action{Kind: input.Undo})
	if a.Editor().Len() != 1 {
		t.Errorf("expected len 1 after undo, got %d", a.Editor().Len())
	}

	mustApply(t, a, input.Action{Kind: input.Redo})
	if a.Editor().Len() != 2 {
		t.Errorf("expected len 2 after redo, got %d", a.Editor().Len())
	}
}

func TestUndoAtBottomIsNoop(t *testing.T) {
	a := newTestApp(t)
	mustApply(t, a, input.Action{Kind: input.Undo})
	if a.Editor().Len() != 0 {
		t.Errorf("expected empty editor, got len %d", a.Editor().Len())
	}
}

func TestTypingBurstUndoesAsOneGroup(t *testing.T) {
	a := newTestApp(t)
	for _, r := range "hello" {
		mustApply(t, a, input.Action{Kind: input.InsertRune, Rune: r})
	}

	mustApply(t, a, input.Action{Kind: input.Undo})
	if a.Editor().Len() != 0 {
		t.Errorf("expected the whole burst undone, got len %d", a.Editor().Len())
	}
}

// ============================================================================
// Clicks
// ============================================================================

func TestClickActivatesSort(t *testing.T) {
	a := newTestApp(t)
	world := a.renderer.WorldAt(10, 5)
	a.Editor().AddFreeformSort("x", world, 500)
	a.Editor().ClearActiveState()

	mustApply(t, a, input.Action{Kind: input.Click, X: 10, Y: 5})

	_, entry, ok := a.Editor().ActiveSort()
	if !ok {
		t.Fatal("expected an active sort after the click")
	}
	if entry.GlyphName != "x" {
		t.Errorf("expected %q active, got %q", "x", entry.GlyphName)
	}
}

func TestClickInsideRunMovesCursor(t *testing.T) {
	a := newTestApp(t)
	for _, r := range "abc" {
		mustApply(t, a, input.Action{Kind: input.InsertRune, Rune: r})
	}
	a.Editor().ClearActiveState()

	// Click just above the run start, clear of every glyph body but
	// within snap range of boundary 0.
	world := a.Editor().WorldPositionForBufferPosition(0)
	col, row := a.renderer.Viewport().CellFor(world)
	mustApply(t, a, input.Action{Kind: input.Click, X: col, Y: row - 1})

	if got := a.Editor().CursorPosition(); got != 0 {
		t.Errorf("expected cursor 0, got %d", got)
	}
}

func TestClickEmptyCanvasCreatesRoot(t *testing.T) {
	a := newTestApp(t)
	mustApply(t, a, input.Action{Kind: input.Click, X: 20, Y: 10})

	e := a.Editor()
	if e.Len() != 1 {
		t.Fatalf("expected a new root, got len %d", e.Len())
	}
	root, _ := e.Get(0)
	if !root.IsBufferRoot || !root.IsActive {
		t.Error("expected an active buffer root")
	}
	want := a.Editor().Grid().SnapToCell(a.renderer.WorldAt(20, 10))
	if root.RootPosition != want {
		t.Errorf("expected root snapped to %v, got %v", want, root.RootPosition)
	}
}

func TestClickFreeformPlacement(t *testing.T) {
	settings := config.Default()
	settings.Editor.Placement = "freeform"
	a, err := New(Options{
		Settings: settings,
		Backend:  backend.NewSimulation(),
		Metrics:  font.Static{Default: 500, Vert: font.DefaultMetrics()},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mustApply(t, a, input.Action{Kind: input.Click, X: 20, Y: 10})
	entry, _ := a.Editor().Get(0)
	if entry.LayoutMode.IsText() {
		t.Errorf("expected a freeform sort, got %v", entry.LayoutMode)
	}
}

// ============================================================================
// Reload and lifecycle
// ============================================================================

func TestReloadSwapsKeymap(t *testing.T) {
	a := newTestApp(t)

	km := config.DefaultKeymap()
	km.Bindings["Ctrl+Z"] = config.ActionRedo
	if err := a.Reload(config.Default(), km); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestReloadRejectsBadPlacement(t *testing.T) {
	a := newTestApp(t)
	settings := config.Default()
	settings.Editor.Placement = "diagonal"
	if err := a.Reload(settings, config.DefaultKeymap()); err == nil {
		t.Error("expected an error for a bad placement")
	}
}

func TestRunQuitsCleanly(t *testing.T) {
	a := newTestApp(t)

	done := make(chan error, 1)
	go func() { done <- a.Run() }()

	// Give the loop a moment to initialize before injecting the quit
	// chord.
	time.Sleep(50 * time.Millisecond)
	a.PostQuit()

	select {
	case err := <-done:
		if !errors.Is(err, ErrQuit) {
			t.Errorf("expected ErrQuit, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("run loop did not exit")
	}
}

func TestReloadDuringEventTranslation(t *testing.T) {
	a := newTestApp(t)

	// A watcher goroutine reloads while the frame loop translates,
	// exactly the shape Run and the config watcher produce.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 500; i++ {
			km := config.DefaultKeymap()
			km.Bindings["Ctrl+Z"] = config.ActionRedo
			if err := a.Reload(config.Default(), km); err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
		}
	}()

	ev := tcell.NewEventKey(tcell.KeyCtrlZ, 0, tcell.ModCtrl)
	for i := 0; i < 500; i++ {
		action := a.translator.Translate(ev)
		mustApply(t, a, action)
	}
	<-done
}
