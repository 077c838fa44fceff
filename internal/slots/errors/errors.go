package errors

import "errors"

var (
	ErrNotFound = errors.New("slot not found")

	// ErrUnavailable means the slot was not FREE when a transition was
	// attempted; the compare-and-set matched nothing.
	ErrUnavailable = errors.New("slot not available")
)
