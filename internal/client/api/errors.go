package api

import "errors"

// Sentinel errors for backend call outcomes. Callers match them with
// errors.Is; wrapped variants carry the server's message.
var (
	// ErrUnavailable means the request could not complete at all
	// (connection refused, DNS failure, context cancelled mid-flight).
	ErrUnavailable = errors.New("server unavailable")

	// ErrValidation covers client-detected bad input and server 400s.
	ErrValidation = errors.New("validation error")

	// ErrUnauthorized covers 401 and, on binary fetches, 403.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotOwner covers 403 on ownership-checked mutations.
	ErrNotOwner = errors.New("not owner")

	// ErrNotFound covers 404.
	ErrNotFound = errors.New("not found")

	// ErrConflict covers 409.
	ErrConflict = errors.New("conflict")

	// ErrTransfer covers any other non-2xx status on a binary fetch.
	ErrTransfer = errors.New("transfer failed")
)
