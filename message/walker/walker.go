// Package walker reads a composed message back with go-message and visits its
// parts. It is used to inspect and verify output, not to transform it.
package walker

import (
	"errors"
	"io"
	"strings"

	gomessage "github.com/emersion/go-message"
	_ "github.com/emersion/go-message/charset" // decode non-UTF-8 bodies
)

// PartWalker is a function that can be processed for each part of a message.
// The entity body is decoded from its Content-Transfer-Encoding. A multipart
// entity's body is consumed by the walk, so it must not be read.
type PartWalker func(depth, i int, part *gomessage.Entity) error

// Read parses r as a message, tolerating unknown charsets.
func Read(r io.Reader) (*gomessage.Entity, error) {
	e, err := gomessage.Read(r)
	if err != nil && !gomessage.IsUnknownCharset(err) {
		return nil, err
	}
	return e, nil
}

// Walk performs a depth first search for all the parts of the message read
// from r, starting with the message itself. It calls the PartWalker for each
// part of the message. If the PartWalker returns an error, then processing
// stops immediately and the error is returned.
func (w PartWalker) Walk(r io.Reader) error {
	e, err := Read(r)
	if err != nil {
		return err
	}
	return w.walk(0, 0, e)
}

func (w PartWalker) walk(depth, i int, e *gomessage.Entity) error {
	if err := w(depth, i, e); err != nil {
		return err
	}

	mr := e.MultipartReader()
	if mr == nil {
		return nil
	}

	for j := 0; ; j++ {
		p, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil && !gomessage.IsUnknownCharset(err) {
			return err
		}
		if err := w.walk(depth+1, j, p); err != nil {
			return err
		}
	}
}

// WalkOpaque will call the PartWalker function for each part with no
// sub-parts using a depth first traversal. It will terminate the walk
// immediately if the PartWalker returns an error and will return the error.
func (w PartWalker) WalkOpaque(r io.Reader) error {
	var opw PartWalker = func(depth, i int, part *gomessage.Entity) error {
		if !isMultipart(part) {
			return w(depth, i, part)
		}
		return nil
	}
	return opw.Walk(r)
}

// WalkMultipart will call the PartWalker function for each multipart part
// using a depth first traversal. It will terminate the walk immediately if
// the PartWalker returns an error and will return that error.
func (w PartWalker) WalkMultipart(r io.Reader) error {
	var mlw PartWalker = func(depth, i int, part *gomessage.Entity) error {
		if isMultipart(part) {
			return w(depth, i, part)
		}
		return nil
	}
	return mlw.Walk(r)
}

func isMultipart(e *gomessage.Entity) bool {
	mt, _, err := e.Header.ContentType()
	return err == nil && strings.HasPrefix(mt, "multipart/")
}
