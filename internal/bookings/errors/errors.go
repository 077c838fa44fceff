package errors

import "errors"

// ErrNotFound covers both a missing booking and a booking that is no longer
// PENDING_TOKEN: the PAID transition filters on status, so a consumed token
// matches nothing. A second confirm therefore lands here instead of
// double-transitioning.
var ErrNotFound = errors.New("booking not found")
