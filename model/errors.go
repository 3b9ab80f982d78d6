package model

import "errors"

// Error taxonomy for the emergency access core. Handlers map these onto
// HTTP statuses; everything else is an internal error.
var (
	// ErrValidation marks a malformed request (400).
	ErrValidation = errors.New("validation error")

	// ErrUnauthorized marks a bad, expired or locked credential (401).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden marks a valid credential with insufficient scope (403).
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound marks a missing request, guardian or document (404).
	ErrNotFound = errors.New("not found")

	// ErrStateConflict marks an operation against the wrong state, such
	// as confirming a non-collecting request or a lost compare-and-set
	// race (409). Expected under concurrency, never escalated.
	ErrStateConflict = errors.New("state conflict")
)
