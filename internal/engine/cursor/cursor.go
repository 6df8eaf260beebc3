// Package cursor provides the insertion-point value type used by the
// editor. A cursor denotes a position before the entry at its index,
// or end-of-buffer when equal to the buffer length.
package cursor

import "fmt"

// Cursor is an immutable insertion point plus a remembered horizontal
// offset. The remembered offset is used only by vertical movement so
// that repeated Up/Down preserves the visual column across rows of
// differing length.
type Cursor struct {
	position int
	desiredX float64
	hasX     bool
}

// New creates a cursor at position 0.
func New() Cursor {
	return Cursor{}
}

// At creates a cursor at the given position, floored at 0.
func At(position int) Cursor {
	if position < 0 {
		position = 0
	}
	return Cursor{position: position}
}

// Position returns the cursor's buffer position.
func (c Cursor) Position() int {
	return c.position
}

// MoveTo returns a cursor at position clamped to [0, max], clearing
// any remembered horizontal offset.
func (c Cursor) MoveTo(position, max int) Cursor {
	if position < 0 {
		position = 0
	}
	if position > max {
		position = max
	}
	return Cursor{position: position}
}

// Left returns a cursor one step left. No-op at 0.
func (c Cursor) Left() Cursor {
	if c.position == 0 {
		return Cursor{position: 0}
	}
	return Cursor{position: c.position - 1}
}

// Right returns a cursor one step right, clamped to max.
func (c Cursor) Right(max int) Cursor {
	if c.position >= max {
		return Cursor{position: max}
	}
	return Cursor{position: c.position + 1}
}

// Clamp returns a cursor confined to [0, max], preserving the
// remembered horizontal offset.
func (c Cursor) Clamp(max int) Cursor {
	out := c
	if out.position < 0 {
		out.position = 0
	}
	if out.position > max {
		out.position = max
	}
	return out
}

// WithDesiredX returns a cursor at position carrying a remembered
// horizontal offset for subsequent vertical movement.
func (c Cursor) WithDesiredX(position int, x float64) Cursor {
	return Cursor{position: position, desiredX: x, hasX: true}
}

// DesiredX returns the remembered horizontal offset, if any.
func (c Cursor) DesiredX() (float64, bool) {
	return c.desiredX, c.hasX
}

// String returns a string representation of the cursor.
func (c Cursor) String() string {
	if c.hasX {
		return fmt.Sprintf("Cursor(%d, x=%.1f)", c.position, c.desiredX)
	}
	return fmt.Sprintf("Cursor(%d)", c.position)
}

// Equals reports whether two cursors are at the same position.
func (c Cursor) Equals(other Cursor) bool {
	return c.position == other.position
}
