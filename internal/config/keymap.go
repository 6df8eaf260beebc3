package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Canonical action names a keymap may bind. The input layer maps
// these to editor operations; plain printable keys always insert and
// are not bindable.
const (
	ActionCursorLeft    = "cursor-left"
	ActionCursorRight   = "cursor-right"
	ActionCursorUp      = "cursor-up"
	ActionCursorDown    = "cursor-down"
	ActionDeleteBack    = "delete-back"
	ActionDeleteForward = "delete-forward"
	ActionLineBreak     = "line-break"
	ActionClearActive   = "clear-active"
	ActionUndo          = "undo"
	ActionRedo          = "redo"
	ActionQuit          = "quit"
)

// knownActions is the closed set of bindable actions.
var knownActions = map[string]bool{
	ActionCursorLeft:    true,
	ActionCursorRight:   true,
	ActionCursorUp:      true,
	ActionCursorDown:    true,
	ActionDeleteBack:    true,
	ActionDeleteForward: true,
	ActionLineBreak:     true,
	ActionClearActive:   true,
	ActionUndo:          true,
	ActionRedo:          true,
	ActionQuit:          true,
}

// Keymap maps key chord names to action names. Chord names follow
// tcell conventions ("Left", "Enter", "Ctrl+Z").
type Keymap struct {
	Bindings map[string]string `yaml:"bindings"`
}

// DefaultKeymap returns the built-in bindings.
func DefaultKeymap() Keymap {
	return Keymap{
		Bindings: map[string]string{
			"Left":      ActionCursorLeft,
			"Right":     ActionCursorRight,
			"Up":        ActionCursorUp,
			"Down":      ActionCursorDown,
			"Backspace": ActionDeleteBack,
			"Delete":    ActionDeleteForward,
			"Enter":     ActionLineBreak,
			"Esc":       ActionClearActive,
			"Ctrl+Z":    ActionUndo,
			"Ctrl+Y":    ActionRedo,
			"Ctrl+Q":    ActionQuit,
		},
	}
}

// LoadKeymap reads a keymap file, layering user bindings over the
// defaults. A missing file returns the defaults without error.
func LoadKeymap(path string) (Keymap, error) {
	km := DefaultKeymap()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return km, nil
		}
		return km, fmt.Errorf("reading keymap file %s: %w", path, err)
	}

	var user Keymap
	if err := yaml.Unmarshal(data, &user); err != nil {
		return DefaultKeymap(), &ParseError{Path: path, Message: err.Error(), Err: err}
	}
	for chord, action := range user.Bindings {
		if !knownActions[action] {
			return DefaultKeymap(), fmt.Errorf("%w: %q bound to %q", ErrUnknownAction, chord, action)
		}
		km.Bindings[chord] = action
	}
	return km, nil
}

// ActionFor returns the action bound to a chord.
func (k Keymap) ActionFor(chord string) (string, bool) {
	action, ok := k.Bindings[chord]
	return action, ok
}
