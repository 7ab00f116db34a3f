// Package transport defines how a finished message leaves the process. A
// Transport is handed the envelope and a Source for the composed bytes and
// delivers them however it likes: a local sendmail, an SMTP relay or an HTTP
// API.
package transport

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/zostay/sysmail/message/header"
	"github.com/zostay/sysmail/storage"
)

// ErrDelivery is wrapped by every error a Transport returns.
var ErrDelivery = errors.New("delivery failed")

// Envelope holds the bare addresses a relay needs, separate from whatever is
// written in the message header.
type Envelope struct {
	From string
	To   []string
}

// NewEnvelope strips display names from each address.
func NewEnvelope(from string, to []string) Envelope {
	env := Envelope{To: make([]string, len(to))}
	if from != "" {
		env.From = header.BareAddress(from)
	}
	for i, a := range to {
		env.To[i] = header.BareAddress(a)
	}
	return env
}

// Source gives access to a composed message.
type Source interface {
	// Path returns the file holding the message and true, or false if the
	// message is only in memory.
	Path() (string, bool)

	// Open returns a reader over the whole message. The caller must close it.
	Open() (io.ReadCloser, error)
}

// Transport delivers a composed message.
type Transport interface {
	// Send delivers the message read from src to the recipients in env.
	Send(ctx context.Context, env Envelope, src Source) error

	// Name returns a short name for logging.
	Name() string
}

// Fail wraps err so that it matches ErrDelivery.
func Fail(name string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrDelivery, name, err)
}

type bufferSource struct {
	b *storage.Buffer
}

// FromBuffer returns a Source reading from a storage.Buffer.
func FromBuffer(b *storage.Buffer) Source {
	return bufferSource{b}
}

func (s bufferSource) Path() (string, bool) {
	p := s.b.Path()
	return p, p != ""
}

func (s bufferSource) Open() (io.ReadCloser, error) {
	return s.b.Reader()
}

// ReadAll returns the whole message held by src.
func ReadAll(src Source) ([]byte, error) {
	r, err := src.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()
	return io.ReadAll(r)
}
