package app

import "errors"

// ErrQuit signals a user-requested exit. Run returns it so the caller
// can distinguish a clean quit from a failure.
var ErrQuit = errors.New("quit requested")
