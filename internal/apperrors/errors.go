// Package apperrors classifies failures so the HTTP layer can pick a response.
package apperrors

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindValidation
	KindUnauthorized
	KindForbidden
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// AppError carries a Kind, a public message and an optional cause.
type AppError struct {
	Kind    Kind
	Message string
	Fields  map[string]string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}

func NotFound(format string, args ...interface{}) *AppError {
	return New(KindNotFound, fmt.Sprintf(format, args...))
}

// Invalid builds a validation error with per-field messages.
func Invalid(fields map[string]string) *AppError {
	return &AppError{Kind: KindValidation, Message: "invalid input", Fields: fields}
}

// KindOf reports the Kind of err, or KindInternal if it is not an AppError.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

func IsNotFound(err error) bool {
	return err != nil && KindOf(err) == KindNotFound
}

func IsValidation(err error) bool {
	return err != nil && KindOf(err) == KindValidation
}

func IsUnauthorized(err error) bool {
	return err != nil && KindOf(err) == KindUnauthorized
}

// FieldErrors returns the per-field messages of a validation error.
func FieldErrors(err error) map[string]string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Fields != nil {
		return appErr.Fields
	}
	return map[string]string{}
}

func IsForbidden(err error) bool {
	return err != nil && KindOf(err) == KindForbidden
}

func IsConflict(err error) bool {
	return err != nil && KindOf(err) == KindConflict
}
