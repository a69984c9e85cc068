package parser

import (
	"errors"
	"fmt"
)

// Parsing errors.
// These sentinels describe why an input was rejected; they are wrapped
// in a ParseError so callers can use both errors.Is and errors.As.
var (
	// ErrEmptyURL is returned when the input is empty or whitespace.
	ErrEmptyURL = errors.New("url is empty")

	// ErrMissingScheme is returned for inputs without a scheme.
	// Relative references are not accepted: the output record requires
	// a scheme, so a scheme-less input is a parse failure.
	ErrMissingScheme = errors.New("url has no scheme")

	// ErrInvalidPort is returned when the port is not an integer in the
	// range 0-65535.
	ErrInvalidPort = errors.New("invalid port: must be an integer between 0 and 65535")
)

// ParseError reports that an input URL could not be parsed under the
// URL grammar. The input is unrecoverable: no record is emitted for it.
type ParseError struct {
	// URL is the offending input string.
	URL string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %q: %v", e.URL, e.Err)
}

// Unwrap returns the underlying cause for errors.Is/errors.As.
func (e *ParseError) Unwrap() error { return e.Err }

// DecodeError reports a malformed percent escape in a query or path
// component. The field is unrecoverable but the rest of the record is
// still emitted.
type DecodeError struct {
	// Field names the component that failed to decode ("query" or "path").
	Field string

	// Value is the raw token that failed to decode.
	Value string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("cannot decode %s token %q: %v", e.Field, e.Value, e.Err)
}

// Unwrap returns the underlying cause for errors.Is/errors.As.
func (e *DecodeError) Unwrap() error { return e.Err }
