// Package common defines shared constants and sentinel errors used across
// client and server layers of srpvault. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Protocol errors. All of these surface to the client as a single
	// generic authentication failure; the distinction exists for logs
	// and tests only.
	ErrInvalidEphemeral = errors.New("invalid public ephemeral")
	ErrMatcherMismatch  = errors.New("matcher mismatch")
	ErrNoLoginAttempt   = errors.New("no login attempt in progress")

	// Infrastructure errors (fatal class, never reported as an
	// authentication failure).
	ErrorEntropy = errors.New("system randomness unavailable")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
)
