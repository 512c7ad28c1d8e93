package domain

import "errors"

// Error taxonomy surfaced to HTTP callers. Handlers map these with
// errors.Is; everything else is an internal error.
var (
	// ErrServiceUnavailable means the catalog (or, for admin reloads, the
	// JWT secret) is not loaded. Not retriable without operator action.
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrSessionNotFound means the session id has no entry in the store.
	ErrSessionNotFound = errors.New("session not found")

	// ErrQuestionNotFound means the question id is unknown to the catalog.
	ErrQuestionNotFound = errors.New("question not found")

	// ErrInvalidAnswer covers unknown questions, out-of-range option
	// indexes and re-answered questions. The session is left untouched.
	ErrInvalidAnswer = errors.New("invalid answer")

	// ErrMalformedCatalog means the question bank failed validation at
	// load time.
	ErrMalformedCatalog = errors.New("malformed catalog")
)
