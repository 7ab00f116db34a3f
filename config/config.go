// Package config loads the settings that shape how sysmail composes and
// delivers messages. Settings start from Default, are overlaid by an optional
// TOML file and then by SYSMAIL_* environment variables, which may also come
// from .env files.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/zostay/sysmail/internal/command"
	"github.com/zostay/sysmail/message/header"
	"github.com/zostay/sysmail/transport/sendmail"
	"github.com/zostay/sysmail/transport/ses"
	"github.com/zostay/sysmail/transport/smtp"
	"github.com/zostay/sysmail/transport/stdout"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "SYSMAIL_"

// ErrInvalidConfig is wrapped by every error returned from Validate and Load.
var ErrInvalidConfig = errors.New("invalid configuration")

// Settings is the complete configuration. Argv lists are space separated when
// read from the environment.
type Settings struct {
	// Sendmail is the argv used by the sendmail transport.
	Sendmail []string `toml:"sendmail" env:"SENDMAIL" envSeparator:" "`

	// Base64 is the argv of the external base64 encoder. An empty list, or a
	// program missing from PATH, encodes in process.
	Base64 []string `toml:"base64" env:"BASE64" envSeparator:" "`

	// File is the argv of the external content type sniffer. An empty list,
	// or a program missing from PATH, guesses from the file extension and
	// content.
	File []string `toml:"file" env:"FILE" envSeparator:" "`

	// Storage is the root of the directory holding backing files.
	Storage string `toml:"storage" env:"STORAGE"`

	Charset         string `toml:"charset" env:"CHARSET"`
	EncodeAddresses bool   `toml:"encode_addresses" env:"ENCODE_ADDRESSES"`

	// LineBreak is "lf" or "crlf".
	LineBreak string `toml:"line_break" env:"LINE_BREAK"`

	// Transport names the delivery method: sendmail, smtp, ses or stdout.
	Transport string `toml:"transport" env:"TRANSPORT"`

	SMTP smtp.Config `toml:"smtp" envPrefix:"SMTP_"`
	SES  ses.Config  `toml:"ses" envPrefix:"SES_"`

	LogLevel  string `toml:"log_level" env:"LOG_LEVEL"`
	LogFormat string `toml:"log_format" env:"LOG_FORMAT"`
}

// Default returns the settings used when nothing else is configured.
func Default() *Settings {
	return &Settings{
		Sendmail:        append([]string(nil), sendmail.DefaultArgv...),
		Base64:          append([]string(nil), command.DefaultEncodeArgv...),
		File:            append([]string(nil), command.DefaultSniffArgv...),
		Storage:         os.Getenv("TMP"),
		Charset:         "UTF-8",
		EncodeAddresses: true,
		LineBreak:       "lf",
		Transport:       sendmail.Name,
		SMTP: smtp.Config{
			Port: 25,
			TLS:  smtp.TLSStartTLS,
		},
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Load builds settings from the defaults, the TOML file at path (skipped when
// path is empty), the given .env files and the environment, in that order of
// increasing precedence. Variables already set in the environment win over
// those in .env files. The result is validated.
func Load(path string, envFiles ...string) (*Settings, error) {
	s := Default()

	if path != "" {
		if err := s.LoadFile(path); err != nil {
			return nil, err
		}
	}

	if err := LoadEnvFiles(envFiles...); err != nil {
		return nil, err
	}

	if err := s.LoadEnv(); err != nil {
		return nil, err
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadFile overlays the TOML file at path onto s. Unknown keys are an error.
func (s *Settings) LoadFile(path string) error {
	md, err := toml.DecodeFile(path, s)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("%w: %s: unknown keys: %s", ErrInvalidConfig, path, strings.Join(keys, ", "))
	}

	return nil
}

// LoadEnvFiles reads each .env file into the process environment without
// replacing variables that are already set. Missing files are skipped.
func LoadEnvFiles(files ...string) error {
	for _, f := range files {
		err := godotenv.Load(f)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, f, err)
		}
	}
	return nil
}

// LoadEnv overlays SYSMAIL_* environment variables onto s.
func (s *Settings) LoadEnv() error {
	if err := env.ParseWithOptions(s, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Validate reports every problem found in s, joined and wrapped in
// ErrInvalidConfig.
func (s *Settings) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	switch s.Transport {
	case sendmail.Name:
		if len(s.Sendmail) == 0 {
			bad("sendmail transport needs a sendmail command")
		}
	case smtp.Name:
		if s.SMTP.Host == "" {
			bad("smtp transport needs a host")
		}
		if s.SMTP.Port <= 0 || s.SMTP.Port > 65535 {
			bad("smtp port %d is out of range", s.SMTP.Port)
		}
		switch s.SMTP.TLS {
		case "", smtp.TLSNone, smtp.TLSStartTLS, smtp.TLSImplicit:
		default:
			bad("smtp tls mode %q is not one of none, starttls, tls", s.SMTP.TLS)
		}
		if (s.SMTP.Username == "") != (s.SMTP.Password == "") {
			bad("smtp username and password must be set together")
		}
	case ses.Name, stdout.Name:
	default:
		bad("unknown transport %q", s.Transport)
	}

	if s.Charset == "" {
		bad("charset must not be empty")
	}

	if _, err := s.Break(); err != nil {
		errs = append(errs, err)
	}
	if _, err := s.Level(); err != nil {
		errs = append(errs, err)
	}
	switch s.LogFormat {
	case "", "text", "json":
	default:
		bad("unknown log format %q", s.LogFormat)
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

// Break returns the configured line break.
func (s *Settings) Break() (header.Break, error) {
	switch strings.ToLower(s.LineBreak) {
	case "", "lf":
		return header.LF, nil
	case "crlf":
		return header.CRLF, nil
	}
	return "", fmt.Errorf("unknown line break %q", s.LineBreak)
}

// Level returns the configured log level.
func (s *Settings) Level() (slog.Level, error) {
	var lvl slog.Level
	if s.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(s.LogLevel)); err != nil {
		return lvl, fmt.Errorf("log level: %w", err)
	}
	return lvl, nil
}

// Logger returns a logger writing to w in the configured format and level.
func (s *Settings) Logger(w io.Writer) (*slog.Logger, error) {
	lvl, err := s.Level()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	opts := &slog.HandlerOptions{Level: lvl}
	if s.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}
