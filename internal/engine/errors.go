package engine

import (
	"github.com/dshills/galley/internal/engine/buffer"
)

// Errors returned by editor operations.
var (
	// ErrIndexOutOfRange indicates an index outside the valid buffer
	// range.
	ErrIndexOutOfRange = buffer.ErrIndexOutOfRange
)
