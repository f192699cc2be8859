package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a domain error; the API layer maps each kind to an
// HTTP status code.
type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindTooManyRequests
)

// Error is a classified error with a client-safe message. The message is
// exactly what the API returns, so credential failures must all share one
// wording to avoid user enumeration.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string { return e.Message }

// IsKind reports whether err is a domain Error of kind k.
func IsKind(err error, k ErrorKind) bool {
	var de *Error
	return errors.As(err, &de) && de.Kind == k
}

func NewValidation(msg string) *Error   { return &Error{Kind: KindValidation, Message: msg} }
func NewUnauthorized(msg string) *Error { return &Error{Kind: KindUnauthorized, Message: msg} }
func NewForbidden(msg string) *Error    { return &Error{Kind: KindForbidden, Message: msg} }
func NewConflict(msg string) *Error     { return &Error{Kind: KindConflict, Message: msg} }

func NewNotFoundf(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func NewForbiddenf(format string, args ...any) *Error {
	return &Error{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

// Shared sentinels. ErrInvalidCredentials is deliberately the only wording
// for every credential failure, wrong password and unknown user alike.
var (
	ErrInvalidCredentials = NewUnauthorized("Invalid credentials")
	ErrMissingCredentials = NewValidation("Missing login credentials")
	ErrUsernameTaken      = NewConflict("Username already exists")
	ErrRoleNotFound       = NewForbidden("User role not found")
	ErrSessionNotFound    = NewUnauthorized("No active session")
	ErrTooManyAttempts    = &Error{Kind: KindTooManyRequests, Message: "Too many login attempts"}
)
