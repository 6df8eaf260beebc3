// Package backend abstracts the terminal surface the renderer draws
// on, so the frame loop can run against a simulation screen in tests.
package backend

import "github.com/gdamore/tcell/v2"

// Backend is the drawing surface and event source.
type Backend interface {
	// Init prepares the surface for drawing.
	Init() error

	// Fini restores the terminal. Safe to call more than once.
	Fini()

	// Size returns the surface dimensions in cells.
	Size() (width, height int)

	// SetContent places a rune at a cell.
	SetContent(x, y int, r rune, style tcell.Style)

	// Clear erases the surface.
	Clear()

	// Show flushes pending drawing to the surface.
	Show()

	// ShowCursor places the hardware cursor.
	ShowCursor(x, y int)

	// HideCursor hides the hardware cursor.
	HideCursor()

	// PollEvent blocks until the next input event. Returns nil after
	// Fini.
	PollEvent() tcell.Event

	// PostEvent injects an event into the queue, waking PollEvent.
	PostEvent(ev tcell.Event) error
}
