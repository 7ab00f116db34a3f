// Package stdout writes finished messages to a stream instead of delivering
// them. It is used for dry runs.
package stdout

import (
	"context"
	"io"
	"os"

	"github.com/zostay/sysmail/transport"
)

// Name is reported by Transport.Name.
const Name = "stdout"

// Transport copies each message to its writer.
type Transport struct {
	w io.Writer
}

// New returns a Transport writing to os.Stdout.
func New() *Transport {
	return &Transport{w: os.Stdout}
}

// NewWithWriter returns a Transport writing to w.
func NewWithWriter(w io.Writer) *Transport {
	return &Transport{w: w}
}

// Name implements transport.Transport.
func (t *Transport) Name() string {
	return Name
}

// Send implements transport.Transport. The envelope is ignored.
func (t *Transport) Send(_ context.Context, _ transport.Envelope, src transport.Source) error {
	r, err := src.Open()
	if err != nil {
		return transport.Fail(Name, err)
	}
	defer func() { _ = r.Close() }()

	if _, err := io.Copy(t.w, r); err != nil {
		return transport.Fail(Name, err)
	}
	return nil
}
