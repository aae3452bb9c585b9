// Package apperr defines the error taxonomy shared by services and handlers.
package apperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindValidation Kind = "validation"
	KindConflict   Kind = "conflict"
	KindAuth       Kind = "auth"
	KindForbidden  Kind = "forbidden"
	KindNotFound   Kind = "not_found"
	KindDependency Kind = "dependency"
)

// Error carries a Kind and a client-safe message. Key, when set, names the
// translation of Message. The wrapped cause, if any, is only for logs.
type Error struct {
	Kind    Kind
	Message string
	Key     string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// WithKey attaches a translation key.
func (e *Error) WithKey(key string) *Error {
	e.Key = key
	return e
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// Auth never says which half of the credentials was wrong.
func Auth() *Error {
	return &Error{Kind: KindAuth, Message: "Invalid credentials"}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

func NotFound(resource string) *Error {
	return &Error{Kind: KindNotFound, Message: resource + " not found"}
}

func Dependency(op string, err error) *Error {
	return &Error{Kind: KindDependency, Message: op, Err: err}
}

// KindOf reports the Kind of err, treating anything untyped as a dependency failure.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindDependency
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// MessageOf returns the client-safe message for err.
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "Internal server error"
}

// KeyOf returns the translation key attached to err, or "".
func KeyOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Key
	}
	return ""
}
