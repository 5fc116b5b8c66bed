package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated is returned when a route needs a session and none resolved
	ErrUnauthenticated = errors.New("not signed in")

	// ErrUpstreamAuth is returned when the identity provider rejects a credential
	ErrUpstreamAuth = errors.New("invalid Google credential")

	// ErrNotFound is returned when a record does not exist or belongs to someone else
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned for malformed request values
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnprocessable marks input that parsed but failed validation.
	// It matches ErrInvalidInput as well.
	ErrUnprocessable = fmt.Errorf("unprocessable input: %w", ErrInvalidInput)

	// ErrResourceExhausted is returned when no pooled connection could be acquired
	ErrResourceExhausted = errors.New("resource exhausted")
)

var (
	ErrInvalidUserID = NewError(ErrUnprocessable, "user_id must be a valid UUID")
	ErrInvalidWindow = NewError(ErrUnprocessable, "days must be between 1 and 365")
)

// Error pairs one of the sentinel kinds above with a message that is safe
// to show to API clients.
type Error struct {
	Kind    error
	Message string
}

// NewError creates a client-facing error of the given kind
func NewError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}
