// Package sendmail delivers messages by piping them to a local
// sendmail-compatible program.
package sendmail

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/zostay/sysmail/internal/command"
	"github.com/zostay/sysmail/transport"
)

// Name is reported by Transport.Name.
const Name = "sendmail"

// DefaultArgv reads the recipients from the message header.
var DefaultArgv = []string{"/usr/sbin/sendmail", "-t"}

// Transport runs Argv with the message on standard input. The envelope is
// not passed; the program is expected to read the recipients from the
// header.
type Transport struct {
	Argv   []string
	Stdout io.Writer
	Logger *slog.Logger
}

// New returns a Transport for argv, or DefaultArgv when argv is empty.
func New(argv []string, logger *slog.Logger) *Transport {
	if len(argv) == 0 {
		argv = DefaultArgv
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Transport{Argv: argv, Logger: logger}
}

// Name implements transport.Transport.
func (t *Transport) Name() string {
	return Name
}

// Send implements transport.Transport. A spilled message is read straight
// from its backing file.
func (t *Transport) Send(ctx context.Context, env transport.Envelope, src transport.Source) error {
	var (
		in  io.ReadCloser
		err error
	)
	if path, ok := src.Path(); ok {
		in, err = os.Open(path)
	} else {
		in, err = src.Open()
	}
	if err != nil {
		return transport.Fail(Name, err)
	}
	defer func() { _ = in.Close() }()

	logger := t.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.DebugContext(ctx, "piping message to sendmail",
		"argv", t.Argv,
		"recipients", len(env.To))

	if err := command.Run(ctx, t.Argv, in, t.Stdout); err != nil {
		return transport.Fail(Name, err)
	}

	return nil
}
