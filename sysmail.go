package sysmail

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/zostay/sysmail/config"
	"github.com/zostay/sysmail/internal/command"
	"github.com/zostay/sysmail/message"
	"github.com/zostay/sysmail/transport"
	"github.com/zostay/sysmail/transport/sendmail"
	"github.com/zostay/sysmail/transport/ses"
	"github.com/zostay/sysmail/transport/smtp"
	"github.com/zostay/sysmail/transport/stdout"
)

// ErrUnknownTransport is returned by New when Settings.Transport names no
// known transport.
var ErrUnknownTransport = errors.New("unknown transport")

type options struct {
	logger    *slog.Logger
	output    io.Writer
	transport transport.Transport
}

// Option modifies how New builds the compiler.
type Option func(*options)

// WithLogger sets the logger used by the compiler and its transport. The
// default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithOutput sets the writer used by the stdout transport.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.output = w
	}
}

// WithTransport bypasses Settings.Transport and delivers with tr.
func WithTransport(tr transport.Transport) Option {
	return func(o *options) {
		o.transport = tr
	}
}

// New returns a compiler configured from s.
func New(ctx context.Context, s *config.Settings, opts ...Option) (*message.Compiler, error) {
	o := &options{
		logger: slog.Default(),
		output: os.Stdout,
	}
	for _, opt := range opts {
		opt(o)
	}

	lbr, err := s.Break()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}

	tr := o.transport
	if tr == nil {
		tr, err = NewTransport(ctx, s, o.logger, o.output)
		if err != nil {
			return nil, err
		}
	}

	c := message.NewCompiler(tr)
	c.StorageRoot = s.Storage
	c.Charset = s.Charset
	c.EncodeAddresses = s.EncodeAddresses
	c.Break = lbr
	c.Sniffer = command.NewSniffer(s.File)
	c.Encoder = command.NewEncoder(s.Base64, lbr.Bytes())
	c.Logger = o.logger

	return c, nil
}

// NewTransport returns the transport named by s.Transport. The stdout
// transport writes to w.
func NewTransport(ctx context.Context, s *config.Settings, logger *slog.Logger, w io.Writer) (transport.Transport, error) {
	switch s.Transport {
	case sendmail.Name:
		return sendmail.New(s.Sendmail, logger), nil
	case smtp.Name:
		return smtp.New(s.SMTP, logger), nil
	case ses.Name:
		return ses.New(ctx, s.SES, logger)
	case stdout.Name:
		return stdout.NewWithWriter(w), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownTransport, s.Transport)
}
