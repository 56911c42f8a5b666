package models

import "errors"

var (
	// ErrBackendUnavailable means the sway IPC socket could not be reached
	// or replied with something unusable.
	ErrBackendUnavailable = errors.New("window manager backend unavailable")

	// ErrInvalidArgument covers bad keys, unknown subcommands and missing arguments.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrConfigUnreadable means the ordering file exists but cannot be read.
	// Callers treat it as an empty ordering.
	ErrConfigUnreadable = errors.New("ordering file unreadable")
)

// ErrCommandRejected means sway parsed a command but reported it unsuccessful.
var ErrCommandRejected = errors.New("window manager rejected command")
