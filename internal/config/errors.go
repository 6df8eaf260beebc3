package config

import "errors"

// Errors returned by configuration loading and validation.
var (
	// ErrInvalidSetting indicates a setting value outside its valid
	// range or enumeration.
	ErrInvalidSetting = errors.New("invalid setting")

	// ErrUnknownAction indicates a keymap binding naming an action
	// the editor does not implement.
	ErrUnknownAction = errors.New("unknown action")
)
