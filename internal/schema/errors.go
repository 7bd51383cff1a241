package schema

import "errors"

var (
	// ErrNestedEnum is returned for an enum declared inside a message
	ErrNestedEnum = errors.New("nested enums are not supported")

	// ErrUnknownFieldType is returned for a field type code with no mapping
	ErrUnknownFieldType = errors.New("unknown type in protobuf field descriptor")

	// ErrUnknownTypeReference is returned when a referenced type is not registered
	ErrUnknownTypeReference = errors.New("unknown type reference")

	// ErrMissingDescriptorField is returned when the descriptor schema lacks a
	// field needed for source location matching
	ErrMissingDescriptorField = errors.New("field not found in descriptor schema")
)

// GenerationError is a fatal, build-time code generation failure. It aborts
// the whole run.
type GenerationError struct {
	Kind    error  // one of the Err* sentinels above
	Subject string // offending type or field
	Details string
}

// Error implements the error interface
func (e *GenerationError) Error() string {
	msg := e.Kind.Error()
	if e.Subject != "" {
		msg += ": " + e.Subject
	}
	if e.Details != "" {
		msg += " (" + e.Details + ")"
	}
	return msg
}

// Unwrap exposes Kind to errors.Is
func (e *GenerationError) Unwrap() error {
	return e.Kind
}

// NewGenerationError builds a GenerationError
func NewGenerationError(kind error, subject, details string) *GenerationError {
	return &GenerationError{Kind: kind, Subject: subject, Details: details}
}
