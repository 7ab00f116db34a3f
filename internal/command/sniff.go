package command

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// DefaultMediaType is reported when nothing better is known.
const DefaultMediaType = "application/octet-stream"

// Sniffer determines the Content-Type of a file on disk. The result is a
// complete field body, possibly with parameters, e.g.
// "text/plain; charset=us-ascii".
type Sniffer interface {
	Sniff(ctx context.Context, path string) (string, error)
}

// CommandSniffer runs Argv with the path appended and reports its trimmed
// output, in the way of `file --mime-type --mime-encoding -b`.
type CommandSniffer struct {
	Argv []string
}

// Sniff implements Sniffer.
func (s *CommandSniffer) Sniff(ctx context.Context, path string) (string, error) {
	out, err := Output(ctx, s.Argv, path)
	if err != nil {
		return "", err
	}

	mt := strings.TrimSpace(out)
	if mt == "" {
		return DefaultMediaType, nil
	}
	return mt, nil
}

// ExtensionSniffer guesses the type from the file extension and falls back
// to inspecting the first 512 bytes of the file.
type ExtensionSniffer struct{}

// Sniff implements Sniffer.
func (ExtensionSniffer) Sniff(_ context.Context, path string) (string, error) {
	if mt := mime.TypeByExtension(filepath.Ext(path)); mt != "" {
		return mt, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	if n == 0 {
		return DefaultMediaType, nil
	}
	return http.DetectContentType(head[:n]), nil
}

// DefaultSniffArgv is the external sniffer used unless configured otherwise.
var DefaultSniffArgv = []string{"file", "--mime-type", "--mime-encoding", "-b"}

// NewSniffer returns a CommandSniffer for argv. It returns an
// ExtensionSniffer when argv is empty or its program cannot be found on PATH.
func NewSniffer(argv []string) Sniffer {
	if !Available(argv) {
		return ExtensionSniffer{}
	}
	return &CommandSniffer{Argv: argv}
}
