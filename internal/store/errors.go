package store

import "errors"

// Sentinel errors returned by gateway operations. Callers match them
// with errors.Is; the presentation layer may collapse them to booleans.
var (
	// ErrNotFound reports a mutation that matched no row, e.g. an
	// update for a foreign owner or an unknown id.
	ErrNotFound = errors.New("not found")

	// ErrConflict reports a uniqueness violation, e.g. registering a
	// username twice.
	ErrConflict = errors.New("conflict")

	// ErrUnavailable reports that the backing store could not be
	// reached or the statement could not be executed.
	ErrUnavailable = errors.New("store unavailable")

	// ErrInvalid reports input that fails validation before any
	// statement is issued.
	ErrInvalid = errors.New("invalid input")
)
