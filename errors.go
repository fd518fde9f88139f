package oosheet

import (
	"errors"
	"fmt"
)

// Sentinel errors. Every failure reported by a Range wraps exactly one of
// them, so callers match with errors.Is.
var (
	// ErrMalformedAddress means a selector, cell descriptor or column name
	// does not match the address grammar.
	ErrMalformedAddress = errors.New("malformed address")

	// ErrPrecondition means the call is not valid for the range it was made
	// on: a scalar accessor on a multi-cell range, or a scan with a missing
	// or conflicting condition.
	ErrPrecondition = errors.New("precondition failed")

	// ErrBounds means a geometric operation would produce a negative
	// coordinate, leave the sheet, or invert start and end.
	ErrBounds = errors.New("out of bounds")

	// ErrCrossSheet means a target range names a different sheet than the
	// range the operation was started from.
	ErrCrossSheet = errors.New("cross-sheet target")

	// ErrNotFound means a bounded scan exhausted its search space.
	ErrNotFound = errors.New("not found")
)

// RangeError records the operation and selector that failed.
type RangeError struct {
	Op       string // operation name, e.g. "shift" or "value"
	Selector string // selector of the range at the time of failure
	Err      error
}

func (e *RangeError) Error() string {
	if e.Selector == "" {
		return fmt.Sprintf("oosheet: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("oosheet: %s %s: %v", e.Op, e.Selector, e.Err)
}

func (e *RangeError) Unwrap() error { return e.Err }

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrMalformedAddress}, args...)...)
}

func bounds(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrBounds}, args...)...)
}

func precondition(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrPrecondition}, args...)...)
}

func crossSheet(want, got string) error {
	return fmt.Errorf("%w: sheet %q, expected %q", ErrCrossSheet, got, want)
}
