package domain

import "errors"

// ErrInvalidState is returned when mutating a frozen plan or referencing a
// turtle that no longer exists.
var ErrInvalidState = errors.New("invalid state")

// ErrCapacityExceeded is returned by non-blocking submissions when the
// command hand-off is full.
var ErrCapacityExceeded = errors.New("capacity exceeded")

// ErrDegenerateGeometry marks a zero-length move or zero-radius circle. The
// engine treats such commands as no-ops; the error only surfaces in tooling.
var ErrDegenerateGeometry = errors.New("degenerate geometry")

// ErrTurtleNotFound is returned when a turtle id cannot be resolved.
var ErrTurtleNotFound = errors.New("turtle not found")

// ErrInboxClosed is returned when submitting to a closed inbox.
var ErrInboxClosed = errors.New("inbox closed")
