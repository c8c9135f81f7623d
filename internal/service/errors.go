package service

import "errors"

type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
)

// Error is a failure caused by the caller. Message is safe to return to clients;
// any other error coming out of this package is internal.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func invalid(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func invalidErr(err error) *Error {
	return invalid(err.Error())
}

func notFound(entity string) *Error {
	return &Error{Kind: KindNotFound, Message: entity + " not found"}
}

func conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

var (
	ErrMissingFields       = invalid("Email and password are required")
	ErrInvalidCredentials  = &Error{Kind: KindUnauthorized, Message: "Invalid credentials"}
	ErrMissingRefreshToken = invalid("Refresh token is required")
	ErrUnknownRefreshToken = &Error{Kind: KindForbidden, Message: "Invalid refresh token"}
	ErrInvalidRefreshToken = &Error{Kind: KindUnauthorized, Message: "Invalid refresh token"}
	ErrPasswordFields      = invalid("Current password and new password are required")
	ErrIncorrectPassword   = &Error{Kind: KindUnauthorized, Message: "Current password is incorrect"}
	ErrUserNotFound        = notFound("User")
)

// KindOf returns 0 for errors that did not originate as *Error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
