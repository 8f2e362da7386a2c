// Package apperr defines the error taxonomy shared by services and handlers.
// Services return *Error values (usually package-level sentinels so callers
// can test with errors.Is); handlers translate the Kind into an HTTP status
// and render only the Message, never the underlying cause.
package apperr

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Kind classifies a failure for HTTP translation.
type Kind int

const (
	Validation Kind = iota + 1 // malformed or missing input
	NotFound
	Unauthenticated
	Forbidden
	Conflict // duplicate unique field
	Internal
)

// Error is a classified application error. Message is safe to show to the
// caller; Err (optional) carries the internal cause for logging only.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a sentinel error with the given kind and caller-facing message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap attaches an internal cause to a classified error.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// WithCause attaches an internal cause to a sentinel. The result matches
// the sentinel under errors.Is and still surfaces the *Error via errors.As.
func (e *Error) WithCause(err error) error {
	return fmt.Errorf("%w: %w", e, err)
}

// From extracts the *Error from err, or classifies it as Internal.
func From(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Wrap(Internal, "Server error", err)
}

// HTTPStatus maps a kind to its HTTP status code.
func HTTPStatus(kind Kind) int {
	switch kind {
	case Validation:
		return fiber.StatusBadRequest
	case NotFound:
		return fiber.StatusNotFound
	case Unauthenticated:
		return fiber.StatusUnauthorized
	case Forbidden:
		return fiber.StatusForbidden
	case Conflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}
