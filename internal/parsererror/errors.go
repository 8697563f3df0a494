// Package parsererror defines the failure taxonomy of the SMS parser. Every
// failure the parser reports unwraps to exactly one of the sentinel errors,
// so callers classify outcomes with errors.Is.
package parsererror

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned for an empty message or sender.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNoMatch is returned when no grammar recognises the message. This is
	// the expected outcome for unsupported SMS formats.
	ErrNoMatch = errors.New("no grammar matched")
	// ErrInvalidAmount is returned when a grammar matched but the amount is
	// not a positive number.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInternal is returned when parsing panicked and was recovered.
	ErrInternal = errors.New("internal parser error")
)

// ParseError represents an error while extracting a single field.
type ParseError struct {
	Parser string
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: failed to parse %s='%s': %v",
		e.Parser, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// InputError describes which argument of a parse call was rejected.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid input: %s %s", e.Field, e.Reason)
}

func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}

// InternalError wraps a value recovered from a panic during parsing.
type InternalError struct {
	Recovered interface{}
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal parser error: %v", e.Recovered)
}

func (e *InternalError) Unwrap() error {
	return ErrInternal
}

// IsParseFailure reports whether err is one of the parser's own failure kinds.
func IsParseFailure(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrNoMatch) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInternal)
}

// Reason returns a short machine-friendly label for a parse failure, used in
// metrics labels, CSV status columns and API responses.
func Reason(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrNoMatch):
		return "no_match"
	case errors.Is(err, ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, ErrInternal):
		return "internal"
	default:
		return "error"
	}
}
