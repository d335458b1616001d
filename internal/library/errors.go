// internal/library/errors.go
package library

import "errors"

var (
	// ErrRateLimited indicates too many registrations in a short window.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrInvalidCredentials indicates a failed login attempt.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
