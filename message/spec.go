package message

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/zostay/sysmail/message/header"
)

// BodyKind names one of the alternative renderings of the message body.
type BodyKind string

// The body kinds a Spec may carry.
const (
	Text     BodyKind = "text"     // text/plain
	Enriched BodyKind = "enriched" // text/enriched, RFC 1896
	HTML     BodyKind = "html"     // text/html
)

// BodyOrder is the order in which alternatives are written, from the least
// to the most preferred rendering.
var BodyOrder = []BodyKind{Text, Enriched, HTML}

// MediaType returns the Content-Type media type for the kind.
func (k BodyKind) MediaType() string {
	if k == Text {
		return "text/plain"
	}
	return "text/" + string(k)
}

// Valid returns true for the kinds listed in BodyOrder.
func (k BodyKind) Valid() bool {
	for _, o := range BodyOrder {
		if k == o {
			return true
		}
	}
	return false
}

// Attachment refers to the content of one attached file. Exactly one of
// Path, File or Reader must be set. Name is the filename shown to the
// recipient; it defaults to the base name of the path and is required with
// Reader.
type Attachment struct {
	Name   string
	Path   string
	File   *os.File
	Reader io.Reader
}

// AttachPath returns an Attachment for the file at path.
func AttachPath(path string) Attachment {
	return Attachment{Path: path}
}

// AttachFile returns an Attachment for an open file. The file is read by
// name; it is not closed.
func AttachFile(f *os.File) Attachment {
	return Attachment{File: f}
}

// AttachReader returns an Attachment whose content is read from r.
func AttachReader(name string, r io.Reader) Attachment {
	return Attachment{Name: name, Reader: r}
}

// Filename returns the name shown to the recipient.
func (a Attachment) Filename() string {
	switch {
	case a.Name != "":
		return filepath.Base(a.Name)
	case a.Path != "":
		return filepath.Base(a.Path)
	case a.File != nil:
		return filepath.Base(a.File.Name())
	}
	return ""
}

// Validate checks that exactly one reference kind is set.
func (a Attachment) Validate() error {
	n := 0
	if a.Path != "" {
		n++
	}
	if a.File != nil {
		n++
	}
	if a.Reader != nil {
		n++
	}

	if n != 1 || a.Filename() == "" {
		return ErrInvalidAttachment
	}
	return nil
}

// Spec describes the message to compose. It must not be modified while it
// is being compiled.
type Spec struct {
	From        string
	To          []string
	Subject     string
	Bodies      map[BodyKind]string
	Attachments []Attachment

	// Date and MessageID are written only when set.
	Date      time.Time
	MessageID string
}

// SetBody sets the content for the given kind, creating the map as needed.
func (s *Spec) SetBody(kind BodyKind, content string) {
	if s.Bodies == nil {
		s.Bodies = make(map[BodyKind]string, len(BodyOrder))
	}
	s.Bodies[kind] = content
}

// Attach appends attachments.
func (s *Spec) Attach(as ...Attachment) {
	s.Attachments = append(s.Attachments, as...)
}

// Validate checks the Spec before anything is written.
func (s *Spec) Validate() error {
	if len(s.To) == 0 {
		return ErrInvalidRecipient
	}

	if hasBreak(s.From) {
		return fmt.Errorf("%w: %s", ErrInvalidHeader, header.From)
	}
	for i, to := range s.To {
		if hasBreak(to) {
			return fmt.Errorf("%w: %s address %d", ErrInvalidHeader, header.To, i)
		}
	}
	if hasBreak(s.Subject) {
		return fmt.Errorf("%w: %s", ErrInvalidHeader, header.Subject)
	}
	if hasBreak(s.MessageID) {
		return fmt.Errorf("%w: %s", ErrInvalidHeader, header.MessageID)
	}

	for kind := range s.Bodies {
		if !kind.Valid() {
			return fmt.Errorf("%w: %q", ErrInvalidBodyKind, kind)
		}
	}

	for i, a := range s.Attachments {
		if err := a.Validate(); err != nil {
			return fmt.Errorf("attachment %d: %w", i, err)
		}
	}

	return nil
}

func hasBreak(v string) bool {
	return strings.ContainsAny(v, "\r\n")
}

// bodyKinds returns the kinds present in s in BodyOrder.
func (s *Spec) bodyKinds() []BodyKind {
	kinds := make([]BodyKind, 0, len(s.Bodies))
	for _, k := range BodyOrder {
		if _, ok := s.Bodies[k]; ok {
			kinds = append(kinds, k)
		}
	}
	return kinds
}
