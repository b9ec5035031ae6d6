// Package apperror is the error taxonomy services hand back to handlers.
// Handlers turn an *Error into an envelope and a status code and nothing
// else escapes the request.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindSystem Kind = iota
	KindValidation
	KindAuth
	KindCredential
	KindConflict
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindCredential:
		return "credential"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	default:
		return "system"
	}
}

// Status is the HTTP status a Kind is rendered with.
func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindAuth, KindCredential:
		return http.StatusUnauthorized
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error carries a client-safe Message. Cause is for server logs only.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func (e *Error) Status() int { return e.Kind.Status() }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Validation(message string) *Error {
	return New(KindValidation, message)
}

// Auth is a missing or unusable bearer token.
func Auth(message string) *Error {
	return New(KindAuth, message)
}

func Credential(message string) *Error {
	return New(KindCredential, message)
}

func Conflict(message string) *Error {
	return New(KindConflict, message)
}

func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

// System wraps an unexpected failure behind a generic message.
func System(message string, cause error) *Error {
	return &Error{Kind: KindSystem, Message: message, Cause: cause}
}

// As returns the *Error in err's chain, or a system error wrapping err.
func As(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return System("internal server error", err)
}
