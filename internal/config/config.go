// Package config loads and validates galley's settings. Settings live
// in a TOML file, key bindings in a YAML keymap; both fall back to
// built-in defaults when the file is absent.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/galley/internal/engine/layout"
	"github.com/dshills/galley/internal/engine/sort"
)

// Settings is the root of the TOML configuration.
type Settings struct {
	Font    FontSettings    `toml:"font"`
	Editor  EditorSettings  `toml:"editor"`
	Grid    GridSettings    `toml:"grid"`
	History HistorySettings `toml:"history"`
	Log     LogSettings     `toml:"log"`
}

// FontSettings selects the font backing advance widths and metrics.
type FontSettings struct {
	// Path to a TrueType file. Empty uses the embedded default face.
	Path string `toml:"path"`

	// ResolverScript is an optional Lua script mapping codepoints to
	// glyph names.
	ResolverScript string `toml:"resolver_script"`
}

// EditorSettings control placement and selection behavior.
type EditorSettings struct {
	// Placement is the default layout mode for new roots: "ltr",
	// "rtl", or "freeform".
	Placement string `toml:"placement"`

	// ClickTolerance is the hit-test handle radius in font units.
	ClickTolerance float64 `toml:"click_tolerance"`

	// RootX and RootY place the text root created when typing starts
	// with no run to extend.
	RootX float64 `toml:"root_x"`
	RootY float64 `toml:"root_y"`
}

// GridSettings mirror layout.GridConfig.
type GridSettings struct {
	SortsPerRow       int     `toml:"sorts_per_row"`
	CellWidth         float64 `toml:"cell_width"`
	CellHeight        float64 `toml:"cell_height"`
	HorizontalSpacing float64 `toml:"horizontal_spacing"`
	VerticalSpacing   float64 `toml:"vertical_spacing"`
}

// HistorySettings bound the undo stack.
type HistorySettings struct {
	MaxEntries    int `toml:"max_entries"`
	MergeWindowMS int `toml:"merge_window_ms"`
}

// LogSettings control the structured log output.
type LogSettings struct {
	// Level is one of "debug", "info", "warn", "error".
	Level string `toml:"level"`

	// File receives log output; empty discards it. The terminal owns
	// stderr, so logs never go there while the UI is up.
	File string `toml:"file"`
}

// Default returns the built-in settings.
func Default() Settings {
	g := layout.DefaultGrid()
	return Settings{
		Editor: EditorSettings{
			Placement:      "ltr",
			ClickTolerance: 50,
			RootX:          500,
			RootY:          0,
		},
		Grid: GridSettings{
			SortsPerRow:       g.SortsPerRow,
			CellWidth:         g.CellWidth,
			CellHeight:        g.CellHeight,
			HorizontalSpacing: g.HorizontalSpacing,
			VerticalSpacing:   g.VerticalSpacing,
		},
		History: HistorySettings{
			MaxEntries:    128,
			MergeWindowMS: 2000,
		},
		Log: LogSettings{
			Level: "info",
		},
	}
}

// Load reads settings from path, layering them over the defaults. A
// missing file returns the defaults without error.
func Load(path string) (Settings, error) {
	s := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return s, fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &s); err != nil {
		return Default(), &ParseError{Path: path, Message: err.Error(), Err: err}
	}
	if err := s.Validate(); err != nil {
		return Default(), err
	}
	return s, nil
}

// Validate checks cross-field constraints.
func (s Settings) Validate() error {
	if _, err := s.Editor.LayoutMode(); err != nil {
		return err
	}
	if s.Editor.ClickTolerance < 0 {
		return fmt.Errorf("%w: click_tolerance must be >= 0", ErrInvalidSetting)
	}
	if s.Grid.CellWidth <= 0 || s.Grid.CellHeight <= 0 {
		return fmt.Errorf("%w: grid cell dimensions must be positive", ErrInvalidSetting)
	}
	if s.History.MaxEntries <= 0 {
		return fmt.Errorf("%w: history max_entries must be positive", ErrInvalidSetting)
	}
	switch s.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log level %q", ErrInvalidSetting, s.Log.Level)
	}
	return nil
}

// LayoutMode parses the placement setting.
func (e EditorSettings) LayoutMode() (sort.LayoutMode, error) {
	switch e.Placement {
	case "ltr", "":
		return sort.LTRText, nil
	case "rtl":
		return sort.RTLText, nil
	case "freeform":
		return sort.Freeform, nil
	default:
		return sort.LTRText, fmt.Errorf("%w: unknown placement %q", ErrInvalidSetting, e.Placement)
	}
}

// RootPosition returns the default text root position.
func (e EditorSettings) RootPosition() sort.Point {
	return sort.Pt(e.RootX, e.RootY)
}

// GridConfig converts the grid settings into the layout form.
func (g GridSettings) GridConfig() layout.GridConfig {
	out := layout.DefaultGrid()
	if g.SortsPerRow > 0 {
		out.SortsPerRow = g.SortsPerRow
	}
	if g.CellWidth > 0 {
		out.CellWidth = g.CellWidth
	}
	if g.CellHeight > 0 {
		out.CellHeight = g.CellHeight
	}
	if g.HorizontalSpacing >= 0 {
		out.HorizontalSpacing = g.HorizontalSpacing
	}
	if g.VerticalSpacing >= 0 {
		out.VerticalSpacing = g.VerticalSpacing
	}
	return out
}

// MergeWindow returns the undo merge window as a duration.
func (h HistorySettings) MergeWindow() time.Duration {
	return time.Duration(h.MergeWindowMS) * time.Millisecond
}

// ParseError reports a malformed configuration file.
type ParseError struct {
	Path    string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
