// Package input translates terminal events into editor actions. The
// editor core never sees tcell types; this package is the boundary.
package input

// Kind discriminates the actions the translator emits.
type Kind int

const (
	// None is an event the translator has no mapping for.
	None Kind = iota

	// InsertRune inserts a typed character at the cursor.
	InsertRune

	// Cursor movement.
	CursorLeft
	CursorRight
	CursorUp
	CursorDown

	// Editing.
	DeleteBack
	DeleteForward
	LineBreak

	// ClearActive deactivates every sort.
	ClearActive

	// Undo and Redo step the snapshot stack.
	Undo
	Redo

	// Quit exits the application.
	Quit

	// Click carries a primary-button press at a screen cell.
	Click

	// Resize reports a new terminal size.
	Resize
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case InsertRune:
		return "insert-rune"
	case CursorLeft:
		return "cursor-left"
	case CursorRight:
		return "cursor-right"
	case CursorUp:
		return "cursor-up"
	case CursorDown:
		return "cursor-down"
	case DeleteBack:
		return "delete-back"
	case DeleteForward:
		return "delete-forward"
	case LineBreak:
		return "line-break"
	case ClearActive:
		return "clear-active"
	case Undo:
		return "undo"
	case Redo:
		return "redo"
	case Quit:
		return "quit"
	case Click:
		return "click"
	case Resize:
		return "resize"
	default:
		return "unknown"
	}
}

// Action is one translated input event. Rune is set for InsertRune;
// X and Y are screen cells for Click, and columns/rows for Resize.
type Action struct {
	Kind Kind
	Rune rune
	X    int
	Y    int
}
