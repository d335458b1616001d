// internal/liberr/errors.go

// Package liberr defines the error kinds shared across the library system.
// Callers branch on the kind with errors.Is; the concrete message carries
// the detail.
package liberr

import "errors"

var (
	// ErrValidation indicates a constructor or setter precondition was
	// violated (blank, negative, malformed field).
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates a referenced id does not exist in the
	// aggregate's collections.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a cross-entity business rule was violated
	// (item unavailable, member ineligible, double return, ...).
	ErrConflict = errors.New("conflict")
)
