// Package smtp delivers messages to an SMTP relay.
package smtp

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"

	"github.com/zostay/sysmail/transport"
)

// Name is reported by Transport.Name.
const Name = "smtp"

// TLS modes accepted by Config.TLS.
const (
	TLSNone     = "none"
	TLSStartTLS = "starttls"
	TLSImplicit = "tls"
)

// ErrTLSMode is returned for an unknown Config.TLS value.
var ErrTLSMode = errors.New("unknown smtp tls mode")

// Config describes the relay.
type Config struct {
	Host               string `toml:"host" env:"HOST"`
	Port               int    `toml:"port" env:"PORT"`
	TLS                string `toml:"tls" env:"TLS"`
	Username           string `toml:"username" env:"USERNAME"`
	Password           string `toml:"password" env:"PASSWORD"`
	InsecureSkipVerify bool   `toml:"insecure_skip_verify" env:"INSECURE_SKIP_VERIFY"`
}

// Addr returns host:port.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Transport relays each message with MAIL, RCPT and DATA on a fresh
// connection.
type Transport struct {
	Config Config
	Logger *slog.Logger
}

// New returns a Transport for the relay described by cfg.
func New(cfg Config, logger *slog.Logger) *Transport {
	if logger == nil {
		logger = slog.Default()
	}
	return &Transport{Config: cfg, Logger: logger}
}

// Name implements transport.Transport.
func (t *Transport) Name() string {
	return Name
}

func (t *Transport) dial() (*smtp.Client, error) {
	tlsConfig := &tls.Config{
		ServerName:         t.Config.Host,
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: t.Config.InsecureSkipVerify, //nolint:gosec // operator choice
	}

	switch t.Config.TLS {
	case TLSNone:
		return smtp.Dial(t.Config.Addr())
	case "", TLSStartTLS:
		return smtp.DialStartTLS(t.Config.Addr(), tlsConfig)
	case TLSImplicit:
		return smtp.DialTLS(t.Config.Addr(), tlsConfig)
	}

	return nil, fmt.Errorf("%w: %q", ErrTLSMode, t.Config.TLS)
}

// Send implements transport.Transport.
func (t *Transport) Send(ctx context.Context, env transport.Envelope, src transport.Source) error {
	if len(env.To) == 0 {
		return transport.Fail(Name, errors.New("no recipients"))
	}

	if err := ctx.Err(); err != nil {
		return transport.Fail(Name, err)
	}

	c, err := t.dial()
	if err != nil {
		return transport.Fail(Name, fmt.Errorf("connect to %s: %w", t.Config.Addr(), err))
	}
	defer func() { _ = c.Close() }()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = c.Close()
		case <-done:
		}
	}()

	if t.Config.Username != "" {
		auth := sasl.NewPlainClient("", t.Config.Username, t.Config.Password)
		if err := c.Auth(auth); err != nil {
			return transport.Fail(Name, fmt.Errorf("authenticate: %w", err))
		}
	}

	if err := c.Mail(env.From, nil); err != nil {
		return transport.Fail(Name, fmt.Errorf("set sender: %w", err))
	}
	for _, to := range env.To {
		if err := c.Rcpt(to, nil); err != nil {
			return transport.Fail(Name, fmt.Errorf("set recipient %s: %w", to, err))
		}
	}

	wc, err := c.Data()
	if err != nil {
		return transport.Fail(Name, fmt.Errorf("start data: %w", err))
	}

	r, err := src.Open()
	if err != nil {
		_ = wc.Close()
		return transport.Fail(Name, err)
	}
	_, err = io.Copy(wc, r)
	_ = r.Close()
	if err != nil {
		_ = wc.Close()
		return transport.Fail(Name, fmt.Errorf("write message: %w", err))
	}

	if err := wc.Close(); err != nil {
		return transport.Fail(Name, fmt.Errorf("finish data: %w", err))
	}

	if err := c.Quit(); err != nil {
		t.Logger.WarnContext(ctx, "failed to send QUIT", "error", err)
	}

	t.Logger.DebugContext(ctx, "relayed message",
		"addr", t.Config.Addr(),
		"recipients", len(env.To))

	return nil
}
