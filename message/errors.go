package message

import (
	"errors"
	"fmt"
)

// These errors are returned when a Spec cannot be compiled.
var (
	// ErrInvalidRecipient is returned when the Spec has no To addresses.
	ErrInvalidRecipient = errors.New("message has no recipients")

	// ErrInvalidAttachment is returned for an Attachment that does not name
	// exactly one of a path, an open file or a named reader.
	ErrInvalidAttachment = errors.New("attachment must be a path, a file or a named reader")

	// ErrInvalidBodyKind is returned for a body keyed by an unknown BodyKind.
	ErrInvalidBodyKind = errors.New("unknown body kind")

	// ErrInvalidHeader is returned when From, To, Subject or MessageID holds
	// a CR or LF, which would end the field early.
	ErrInvalidHeader = errors.New("header value contains a line break")

	// ErrNotFound is returned when an attachment path does not exist or is
	// not a regular file.
	ErrNotFound = errors.New("attachment not found")

	// ErrNotReadable is returned when an attachment exists but cannot be
	// opened for reading.
	ErrNotReadable = errors.New("attachment not readable")
)

// AttachmentError reports a problem with a single attachment.
type AttachmentError struct {
	Path string
	Err  error
}

// Error returns the path and the problem.
func (e *AttachmentError) Error() string {
	return fmt.Sprintf("attachment %q: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *AttachmentError) Unwrap() error {
	return e.Err
}
