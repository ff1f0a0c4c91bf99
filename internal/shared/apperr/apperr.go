// Package apperr defines the error taxonomy shared by every feature.
// Usecases return *Error values (usually package-level sentinels) and the
// transport layer decides the HTTP status from the Kind alone.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies an error for the transport layer.
type Kind string

const (
	KindInternal            Kind = "internal"
	KindValidation          Kind = "validation"
	KindNotFound            Kind = "not_found"
	KindConflict            Kind = "conflict"
	KindUpstreamUnavailable Kind = "upstream_unavailable"
)

// Error is the canonical application error.
type Error struct {
	Kind Kind
	// Op names the operation that failed, e.g. "books.borrow".
	Op string
	// Message is safe to show to API clients.
	Message string
	// Field optionally keys the message for field-level validation errors.
	Field string
	Cause error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	if e.Message != "" {
		b.WriteString(e.Message)
	} else {
		b.WriteString(string(e.Kind))
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds an error with the given kind and client-facing message.
func New(kind Kind, op, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message}
}

// NewField builds a validation error keyed on a single request field.
func NewField(op, field, message string) *Error {
	return &Error{Kind: KindValidation, Op: op, Field: field, Message: message}
}

// Wrap annotates cause with the given kind. It returns nil when cause is nil.
func Wrap(kind Kind, op string, cause error) error {
	if cause == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Cause: cause}
}

// Wrapf is Wrap with a formatted client-facing message.
func Wrapf(kind Kind, op string, cause error, format string, args ...any) error {
	if cause == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// KindOf returns the Kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	if err == nil {
		return false
	}
	return KindOf(err) == kind
}

// PublicMessage returns the client-facing message of the first *Error in the
// chain that has one.
func PublicMessage(err error) string {
	for err != nil {
		var appErr *Error
		if !errors.As(err, &appErr) {
			return ""
		}
		if appErr.Message != "" {
			return appErr.Message
		}
		err = appErr.Cause
	}
	return ""
}
