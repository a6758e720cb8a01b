// Package oaserrors provides structured error types for oasgraph.
//
// These error types enable programmatic error handling via errors.Is() and
// errors.As(), allowing callers to distinguish between different categories
// of errors and implement appropriate recovery strategies.
//
// # Error Categories
//
//   - LoadError: a document resource is missing or unreachable
//   - ParseError: YAML/JSON deserialization failures
//   - ResolutionError: dangling, malformed, or circular reference expressions
//   - ValidationError: structural OpenAPI specification violations
//
// # Usage with errors.As
//
//	cache, err := w.Discover(ctx, "api.yaml")
//	if err != nil {
//	    var loadErr *oaserrors.LoadError
//	    if errors.As(err, &loadErr) {
//	        // The locator that could not be fetched is in loadErr.Locator
//	    }
//	}
package oaserrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
// These allow quick checks without type assertions.
var (
	// ErrLoad indicates a document could not be fetched.
	ErrLoad = errors.New("load error")

	// ErrParse indicates a parsing failure occurred.
	ErrParse = errors.New("parse error")

	// ErrResolution indicates a reference resolution failure.
	ErrResolution = errors.New("resolution error")

	// ErrCircularReference indicates a circular reference chain was detected.
	ErrCircularReference = errors.New("circular reference")

	// ErrValidation indicates a specification validation failure.
	ErrValidation = errors.New("validation error")
)

// LoadError represents a failure to fetch a document resource.
// The resource may not exist, or the transport used to reach it failed.
// Transient transport failures are surfaced immediately; retrying is the
// caller's responsibility.
type LoadError struct {
	// Locator is the file path or URL that could not be loaded
	Locator string
	// Message describes the load failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *LoadError) Error() string {
	msg := "load error"
	if e.Locator != "" {
		msg += ": " + e.Locator
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *LoadError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *LoadError) Is(target error) bool {
	return target == ErrLoad
}

// ParseError represents a failure to decode a fetched document.
// It carries the underlying format parser's message and the locator of the
// document that could not be decoded.
type ParseError struct {
	// Locator is the file path or URL of the undecodable document
	Locator string
	// Format is the detected serialization format ("yaml", "json", or "unknown")
	Format string
	// Message describes the parsing failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ParseError) Error() string {
	msg := "parse error"
	if e.Locator != "" {
		msg += " in " + e.Locator
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// ResolutionError represents a failure to resolve a reference expression.
// This includes references into documents that were never loaded, JSON Pointer
// segments that do not exist in the target document, and circular chains.
type ResolutionError struct {
	// Expression is the full original reference expression that failed
	Expression string
	// Document is the identity of the document the expression was resolved from
	Document string
	// Segment is the JSON Pointer segment that failed to resolve, if any
	Segment string
	// IsCircular is true if this error is due to a circular reference chain
	IsCircular bool
	// Message provides additional context about the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ResolutionError) Error() string {
	msg := "resolution error"
	if e.IsCircular {
		msg = "circular reference"
	}
	if e.Expression != "" {
		msg += ": " + e.Expression
	}
	if e.Segment != "" {
		msg += fmt.Sprintf(": missing segment %q", e.Segment)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Document != "" {
		msg += " (resolved from " + e.Document + ")"
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ResolutionError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
// Matches ErrResolution, and also ErrCircularReference when the chain looped.
func (e *ResolutionError) Is(target error) bool {
	if target == ErrResolution {
		return true
	}
	return target == ErrCircularReference && e.IsCircular
}

// ValidationError represents the first structural rule violation found while
// validating a document graph. Validation stops at the first violation, so a
// single ValidationError describes a complete (failed) validation run.
type ValidationError struct {
	// Location is the slash-delimited path to the offending fragment,
	// mirroring the document's own addressing (e.g. "/paths/~1pets/get")
	Location string
	// Message describes the violation
	Message string
}

// Error returns a human-readable error message.
func (e *ValidationError) Error() string {
	msg := "validation error"
	if e.Location != "" {
		msg += " at " + e.Location
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
