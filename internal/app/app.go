// Package app wires the editor, input translation, rendering, and
// undo history into the interactive frame loop.
package app

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/galley/internal/config"
	"github.com/dshills/galley/internal/engine"
	"github.com/dshills/galley/internal/engine/history"
	"github.com/dshills/galley/internal/engine/sort"
	"github.com/dshills/galley/internal/font"
	"github.com/dshills/galley/internal/glyph"
	"github.com/dshills/galley/internal/input"
	"github.com/dshills/galley/internal/renderer"
	"github.com/dshills/galley/internal/renderer/backend"
)

// Options configure an App. Zero-valued fields get defaults.
type Options struct {
	Settings config.Settings
	Keymap   config.Keymap

	// Metrics supplies advance widths; nil uses the embedded face.
	Metrics font.Provider

	// Resolver names glyphs for typed characters; nil uses AGL
	// conventions.
	Resolver glyph.Resolver

	// Backend is the terminal surface; nil creates a real terminal.
	Backend backend.Backend

	Logger *slog.Logger
}

// App owns the frame loop: one input event is applied per frame, then
// the full state renders.
type App struct {
	mu sync.Mutex

	editor     *engine.Editor
	history    *history.Stack[*engine.Editor]
	renderer   *renderer.Renderer
	translator *input.Translator
	be         backend.Backend
	resolver   glyph.Resolver
	metrics    font.Provider
	logger     *slog.Logger

	tolerance float64
	placement sort.LayoutMode
}

// New assembles an application from options.
func New(opts Options) (*App, error) {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Metrics == nil {
		opts.Metrics = font.Regular()
	}
	if opts.Resolver == nil {
		opts.Resolver = glyph.Standard{}
	}
	if opts.Keymap.Bindings == nil {
		opts.Keymap = config.DefaultKeymap()
	}
	if opts.Settings == (config.Settings{}) {
		opts.Settings = config.Default()
	}
	if opts.Backend == nil {
		be, err := backend.NewTerminal()
		if err != nil {
			return nil, fmt.Errorf("creating terminal: %w", err)
		}
		opts.Backend = be
	}

	placement, err := opts.Settings.Editor.LayoutMode()
	if err != nil {
		return nil, err
	}

	editor := engine.New(
		engine.WithMetrics(opts.Metrics),
		engine.WithGrid(opts.Settings.Grid.GridConfig()),
		engine.WithDefaultRootPosition(opts.Settings.Editor.RootPosition()),
		engine.WithLogger(opts.Logger),
	)

	return &App{
		editor: editor,
		history: history.NewStack(editor,
			history.WithMaxEntries[*engine.Editor](opts.Settings.History.MaxEntries),
			history.WithMergeWindow[*engine.Editor](opts.Settings.History.MergeWindow()),
		),
		renderer:   renderer.New(opts.Backend),
		translator: input.NewTranslator(opts.Keymap),
		be:         opts.Backend,
		resolver:   opts.Resolver,
		metrics:    opts.Metrics,
		logger:     opts.Logger,
		tolerance:  opts.Settings.Editor.ClickTolerance,
		placement:  placement,
	}, nil
}

// Editor exposes the editor state, for tests and tooling.
func (a *App) Editor() *engine.Editor {
	return a.editor
}

// Run drives the frame loop until quit or backend shutdown. The
// backend is initialized on entry and restored on every exit path.
func (a *App) Run() error {
	if err := a.be.Init(); err != nil {
		return fmt.Errorf("initializing backend: %w", err)
	}
	defer a.be.Fini()

	for {
		a.render()
		ev := a.be.PollEvent()
		if ev == nil {
			return nil
		}
		action := a.translator.Translate(ev)
		if err := a.apply(action); err != nil {
			if errors.Is(err, ErrQuit) {
				return ErrQuit
			}
			return err
		}
	}
}

// Shutdown restores the terminal and wakes the poll loop.
func (a *App) Shutdown() {
	a.be.Fini()
}

// Reload applies changed configuration without restarting: keymap,
// click tolerance, and default placement take effect immediately.
func (a *App) Reload(settings config.Settings, km config.Keymap) error {
	placement, err := settings.Editor.LayoutMode()
	if err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.translator.SetKeymap(km)
	a.tolerance = settings.Editor.ClickTolerance
	a.placement = placement
	a.logger.Info("configuration reloaded")
	return nil
}

func (a *App) render() {
	a.mu.Lock()
	editor := a.editor
	placement := a.placement
	a.mu.Unlock()
	a.renderer.Frame(editor, placement.String())
}

// apply performs one action against the editor and records undo
// groups for mutations.
func (a *App) apply(action input.Action) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch action.Kind {
	case input.None, input.Resize:
		return nil

	case input.InsertRune:
		name, ok := a.resolver.GlyphName(action.Rune)
		if !ok {
			return nil
		}
		a.editor.InsertSortAtCursor(name, a.metrics.AdvanceWidth(name))
		a.snapshot(history.EditTyping)

	case input.CursorLeft:
		a.editor.MoveCursorLeft()
	case input.CursorRight:
		a.editor.MoveCursorRight()
	case input.CursorUp:
		a.editor.MoveCursorUp()
	case input.CursorDown:
		a.editor.MoveCursorDown()

	case input.DeleteBack:
		a.editor.DeleteSortAtCursor()
		a.snapshot(history.EditNormal)
	case input.DeleteForward:
		a.editor.DeleteForwardAtCursor()
		a.snapshot(history.EditNormal)
	case input.LineBreak:
		a.editor.InsertLineBreakAtCursor()
		a.snapshot(history.EditNormal)

	case input.ClearActive:
		a.editor.ClearActiveState()

	case input.Undo:
		restored, err := a.history.Undo()
		if err == nil {
			a.editor = restored
		}
	case input.Redo:
		restored, err := a.history.Redo()
		if err == nil {
			a.editor = restored
		}

	case input.Click:
		a.handleClick(action.X, action.Y)

	case input.Quit:
		return ErrQuit
	}
	return nil
}

// handleClick resolves a screen cell against the scene: a sort hit
// activates it, a spot inside a run moves the cursor there, and empty
// canvas starts a new run (or drops a freeform sort, per the
// configured placement).
func (a *App) handleClick(col, row int) {
	world := a.renderer.WorldAt(col, row)

	if index, ok := a.editor.FindSortAtPosition(world, a.tolerance); ok {
		if err := a.editor.ActivateSort(index); err != nil {
			a.logger.Warn("activating clicked sort", "index", index, "err", err)
		}
		return
	}

	if pos, ok := a.editor.BufferPositionForWorldPosition(world); ok {
		near := a.editor.WorldPositionForBufferPosition(pos)
		if near.Distance(world) <= a.clickSnapRange() {
			a.editor.MoveCursorTo(pos)
			return
		}
	}

	// New placements snap to the composition grid.
	anchor := a.editor.Grid().SnapToCell(world)
	if a.placement == sort.Freeform {
		name, _ := a.resolver.GlyphName('a')
		a.editor.AddFreeformSort(name, anchor, a.metrics.AdvanceWidth(name))
	} else {
		a.editor.CreateTextRoot(anchor, a.placement)
	}
	a.snapshot(history.EditNormal)
}

// clickSnapRange is how far a click may land from a run and still
// move the cursor instead of starting a new root.
func (a *App) clickSnapRange() float64 {
	m := a.metrics.Metrics()
	return m.UnitsPerEm * 2
}

func (a *App) snapshot(editType history.EditType) {
	a.history.Push(a.editor, editType)
}

// PostQuit injects a quit keystroke, unblocking Run from another
// goroutine.
func (a *App) PostQuit() {
	_ = a.be.PostEvent(tcell.NewEventKey(tcell.KeyCtrlQ, 0, tcell.ModCtrl))
}
