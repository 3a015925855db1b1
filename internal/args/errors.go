package args

import (
	"fmt"
	"strings"
)

// Error codes for argument decoding
const (
	ErrMissingArgument = "MISSING_REQUIRED_ARGUMENT"
	ErrWrongType       = "WRONG_ARGUMENT_TYPE"
	ErrInvalidEnum     = "INVALID_ENUM_VALUE"
)

// ArgumentError describes why an argument bag failed to decode against a
// tool's declared schema. Every decoding failure is one of these; the
// decoder never panics.
type ArgumentError struct {
	Code    string
	Field   string
	Message string
}

// Error implements the error interface
func (e *ArgumentError) Error() string {
	return e.Message
}

// NewMissingArgumentError reports a required field absent from the arguments.
func NewMissingArgumentError(field string) *ArgumentError {
	return &ArgumentError{
		Code:    ErrMissingArgument,
		Field:   field,
		Message: fmt.Sprintf("missing required argument %q", field),
	}
}

// NewWrongTypeError reports a field present with the wrong runtime type.
func NewWrongTypeError(field, expected string, got Kind) *ArgumentError {
	return &ArgumentError{
		Code:    ErrWrongType,
		Field:   field,
		Message: fmt.Sprintf("argument %q must be a %s, got %s", field, expected, got),
	}
}

// NewWrongElementTypeError reports a list element with the wrong type,
// naming both the field and the failing index.
func NewWrongElementTypeError(field string, index int, expected string, got Kind) *ArgumentError {
	return &ArgumentError{
		Code:    ErrWrongType,
		Field:   field,
		Message: fmt.Sprintf("argument %q element %d must be a %s, got %s", field, index, expected, got),
	}
}

// NewInvalidEnumError reports a string value outside a field's allowed set.
func NewInvalidEnumError(field, got string, allowed []string) *ArgumentError {
	return &ArgumentError{
		Code:    ErrInvalidEnum,
		Field:   field,
		Message: fmt.Sprintf("argument %q must be one of [%s], got %q", field, strings.Join(allowed, ", "), got),
	}
}
