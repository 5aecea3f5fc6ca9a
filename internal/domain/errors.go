package domain

import (
	"errors"
	"fmt"
)

// Kind categorizes the errors this layer produces.
type Kind string

const (
	// KindDecode means the payload matched no known trigger shape.
	KindDecode Kind = "decode"

	// KindMalformedPayload means a recognized shape carried a field of the
	// wrong type, or a base64 body that does not decode.
	KindMalformedPayload Kind = "malformed_payload"

	// KindPayloadDecode means a handler-requested typed body decode
	// failed. Returned to the handler, never fatal to the invocation.
	KindPayloadDecode Kind = "payload_decode"

	// KindResponseEncode means a response could not be serialized into the
	// originating trigger's wire shape.
	KindResponseEncode Kind = "response_encode"
)

// Error is the canonical error for the decode and encode paths. It carries
// the offending field and the trigger variant so the invocation loop can
// log failures with full context.
type Error struct {
	// Kind is the error category.
	Kind Kind

	// Message is the human-readable description.
	Message string

	// Field names the payload or response field at fault, when known.
	Field string

	// Trigger is the variant being processed, when known.
	Trigger Trigger

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	s := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.Field != "" {
		s = fmt.Sprintf("%s (field %q)", s, e.Field)
	}
	if e.Trigger != "" {
		s = fmt.Sprintf("%s [%s]", s, e.Trigger)
	}
	if e.Err != nil {
		s = s + ": " + e.Err.Error()
	}
	return s
}

// Unwrap exposes the underlying cause to errors.Is and errors.As.
func (e *Error) Unwrap() error { return e.Err }

// NewError creates an error of the given kind.
func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WithField attaches the offending field name.
func (e *Error) WithField(field string) *Error {
	e.Field = field
	return e
}

// WithTrigger attaches the trigger variant being processed.
func (e *Error) WithTrigger(t Trigger) *Error {
	e.Trigger = t
	return e
}

// WithCause attaches the underlying error.
func (e *Error) WithCause(err error) *Error {
	e.Err = err
	return e
}

// Convenience constructors, one per kind.

// ErrDecode creates an unrecognized-shape error.
func ErrDecode(message string) *Error {
	return NewError(KindDecode, message)
}

// ErrMalformedPayload creates a malformed-payload error.
func ErrMalformedPayload(message string) *Error {
	return NewError(KindMalformedPayload, message)
}

// ErrPayloadDecode creates a typed-payload decode error.
func ErrPayloadDecode(message string) *Error {
	return NewError(KindPayloadDecode, message)
}

// ErrResponseEncode creates a response serialization error.
func ErrResponseEncode(message string) *Error {
	return NewError(KindResponseEncode, message)
}

// KindOf classifies err, returning the empty Kind for errors that did not
// originate in this layer.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
