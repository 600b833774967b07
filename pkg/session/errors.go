package session

import "errors"

var (
	// ErrSessionNotFound indicates no session exists for the token.
	ErrSessionNotFound = errors.New("session.not_found")

	// ErrSessionExpired indicates the session passed one of its deadlines.
	ErrSessionExpired = errors.New("session.expired")

	// ErrInvalidSession indicates a malformed session record.
	ErrInvalidSession = errors.New("session.invalid")

	// ErrTokenGeneration indicates token generation failed.
	ErrTokenGeneration = errors.New("session.token_generation_failed")
)
