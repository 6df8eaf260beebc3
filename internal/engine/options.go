package engine

import (
	"log/slog"

	"github.com/dshills/galley/internal/engine/layout"
	"github.com/dshills/galley/internal/engine/sort"
	"github.com/dshills/galley/internal/font"
)

// Default configuration values.
var (
	// DefaultRootPosition is where a text root lands when typing
	// starts with no run to extend.
	DefaultRootPosition = sort.Pt(500, 0)
)

// placeholderGlyph is the visible glyph a fresh text root carries so
// the root has an outline to edit.
const placeholderGlyph = "a"

// Option configures an Editor during creation.
type Option func(*Editor)

// WithGrid sets the grid configuration.
func WithGrid(grid layout.GridConfig) Option {
	return func(e *Editor) {
		e.grid = grid
	}
}

// WithMetrics sets the metrics provider consulted for advance widths
// and hit-test bounds.
func WithMetrics(provider font.Provider) Option {
	return func(e *Editor) {
		if provider != nil {
			e.metrics = provider
		}
	}
}

// WithLogger sets the logger. The default discards all output.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Editor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithDefaultRootPosition sets where typing with no existing run
// places its new text root.
func WithDefaultRootPosition(p sort.Point) Option {
	return func(e *Editor) {
		e.defaultRootPos = p
	}
}

// WithBufferCapacity sets the initial gap buffer capacity.
func WithBufferCapacity(n int) Option {
	return func(e *Editor) {
		e.bufCapacity = n
	}
}
