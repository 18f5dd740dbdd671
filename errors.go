package bdoc

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrUnknownFormat indicates an explicit format token is not registered.
	ErrUnknownFormat = errors.New("unknown format")

	// ErrUnresolvableExtension indicates a path's extension is absent or not
	// mapped to any format.
	ErrUnresolvableExtension = errors.New("unresolvable extension")

	// ErrAmbiguousFormat indicates neither a format token nor a resolvable
	// path was supplied for an in-memory target.
	ErrAmbiguousFormat = errors.New("ambiguous format")

	// ErrCorruptStream indicates truncated or malformed binary input,
	// including a wrong version tag.
	ErrCorruptStream = errors.New("corrupt stream")

	// ErrUnsupportedType indicates the active codec has no encoding for the
	// value or feature type it was given.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrUnresolvedReference indicates a markup or XML attribute references
	// an unknown node or id.
	ErrUnresolvedReference = errors.New("unresolved reference")

	// ErrInvariantViolation indicates mismatched start/end event counts
	// during markup reconstruction.
	ErrInvariantViolation = errors.New("invariant violation")
)

// FormatError represents a dispatch-time failure: the registry could not
// resolve a handler for the requested operation.
type FormatError struct {
	Err    error  // Underlying sentinel error (ErrUnknownFormat, etc.)
	Op     string // Operation that failed ("save" or "load")
	Format string // Format token, when one was given or resolved
	Path   string // Path or URL, when one was given
}

func (e *FormatError) Error() string {
	switch {
	case e.Format != "" && e.Path != "":
		return fmt.Sprintf("%s: cannot %s format %q for %q", e.Err.Error(), e.Op, e.Format, e.Path)
	case e.Format != "":
		return fmt.Sprintf("%s: cannot %s format %q", e.Err.Error(), e.Op, e.Format)
	case e.Path != "":
		return fmt.Sprintf("%s: cannot %s %q", e.Err.Error(), e.Op, e.Path)
	default:
		return fmt.Sprintf("%s: cannot %s without format or path", e.Err.Error(), e.Op)
	}
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// StreamError represents a failure while encoding or decoding a document
// through one of the codecs.
type StreamError struct {
	Err    error  // Underlying sentinel error (ErrCorruptStream, etc.)
	Detail string // Human-readable context
	Cause  error  // Original error from the underlying codec, if any
}

func (e *StreamError) Error() string {
	switch {
	case e.Detail != "" && e.Cause != nil:
		return fmt.Sprintf("%s: %s: %v", e.Err.Error(), e.Detail, e.Cause)
	case e.Detail != "":
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Detail)
	case e.Cause != nil:
		return fmt.Sprintf("%s: %v", e.Err.Error(), e.Cause)
	default:
		return e.Err.Error()
	}
}

func (e *StreamError) Unwrap() error {
	return e.Err
}

// newFormatError creates a FormatError for handler resolution failures.
func newFormatError(sentinel error, op, format, path string) error {
	return &FormatError{
		Err:    sentinel,
		Op:     op,
		Format: format,
		Path:   path,
	}
}

// newStreamError creates a StreamError for codec failures.
func newStreamError(sentinel error, detail string, cause error) error {
	return &StreamError{
		Err:    sentinel,
		Detail: detail,
		Cause:  cause,
	}
}
