// Package domain provides the canonical error taxonomy for the connector.
package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind represents the category of a connector error.
type ErrorKind string

const (
	// ErrorKindValidation indicates a missing or malformed request field.
	ErrorKindValidation ErrorKind = "validation"

	// ErrorKindNotFound indicates an unknown template or absent storage object.
	ErrorKindNotFound ErrorKind = "not_found"

	// ErrorKindRender indicates a templating or pagination failure.
	ErrorKindRender ErrorKind = "render"

	// ErrorKindCodec indicates a malformed attachment data URL. Codec errors
	// are recovered per attachment and never abort a request on their own.
	ErrorKindCodec ErrorKind = "codec"

	// ErrorKindStorage indicates an object-store put/head/presign failure.
	ErrorKindStorage ErrorKind = "storage"

	// ErrorKindInternal indicates an unexpected failure.
	ErrorKindInternal ErrorKind = "internal"
)

// ConnectorError is the single tagged error type flowing through the
// pipeline. Handlers translate it into the response envelope; everything
// below the handler boundary returns it unchanged or wraps it with %w.
type ConnectorError struct {
	Kind    ErrorKind
	Message string

	// Fields lists every offending request field for validation errors,
	// collected in one pass rather than failing on the first.
	Fields []string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *ConnectorError) Error() string {
	msg := e.Message
	if len(e.Fields) > 0 {
		msg = fmt.Sprintf("%s: %s", msg, strings.Join(e.Fields, ", "))
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

// Unwrap exposes the underlying cause to errors.Is/As.
func (e *ConnectorError) Unwrap() error {
	return e.Err
}

// KindOf returns the error kind of err, or ErrorKindInternal when err does
// not carry one.
func KindOf(err error) ErrorKind {
	var ce *ConnectorError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return ErrorKindInternal
}

// NewError creates a connector error of the given kind.
func NewError(kind ErrorKind, message string) *ConnectorError {
	return &ConnectorError{Kind: kind, Message: message}
}

// WithCause attaches an underlying error.
func (e *ConnectorError) WithCause(err error) *ConnectorError {
	e.Err = err
	return e
}

// Convenience constructors for the taxonomy.

// ErrValidation creates a validation error naming the offending fields.
func ErrValidation(message string, fields ...string) *ConnectorError {
	return &ConnectorError{Kind: ErrorKindValidation, Message: message, Fields: fields}
}

// ErrNotFound creates a not-found error.
func ErrNotFound(message string) *ConnectorError {
	return NewError(ErrorKindNotFound, message)
}

// ErrRender creates a render error.
func ErrRender(message string) *ConnectorError {
	return NewError(ErrorKindRender, message)
}

// ErrCodec creates a codec error.
func ErrCodec(message string) *ConnectorError {
	return NewError(ErrorKindCodec, message)
}

// ErrStorage creates a storage error.
func ErrStorage(message string) *ConnectorError {
	return NewError(ErrorKindStorage, message)
}

// ErrInternal creates an internal error.
func ErrInternal(message string) *ConnectorError {
	return NewError(ErrorKindInternal, message)
}
