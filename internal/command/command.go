package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// ErrNoCommand is returned by Run when argv is empty.
var ErrNoCommand = errors.New("no command configured")

// Error describes a subprocess that could not be started or exited with a
// failure.
type Error struct {
	Argv   []string
	Err    error
	Stderr string
}

// Error returns the command line, the exit error and whatever the process
// wrote to stderr.
func (e *Error) Error() string {
	msg := fmt.Sprintf("command %q: %v", strings.Join(e.Argv, " "), e.Err)
	if e.Stderr != "" {
		msg += " (stderr: " + e.Stderr + ")"
	}
	return msg
}

// Unwrap returns the underlying exec error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Run executes argv with any extra arguments appended. The stdin and stdout
// may be nil. Stderr is captured and reported in the returned *Error.
func Run(ctx context.Context, argv []string, stdin io.Reader, stdout io.Writer, args ...string) error {
	if len(argv) == 0 {
		return ErrNoCommand
	}

	full := make([]string, 0, len(argv)+len(args))
	full = append(full, argv...)
	full = append(full, args...)

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, full[0], full[1:]...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return &Error{
			Argv:   full,
			Err:    err,
			Stderr: strings.TrimSpace(stderr.String()),
		}
	}

	return nil
}

// Output is like Run, but returns whatever was written to stdout.
func Output(ctx context.Context, argv []string, args ...string) (string, error) {
	var stdout bytes.Buffer
	err := Run(ctx, argv, nil, &stdout, args...)
	return stdout.String(), err
}

// Available reports whether argv names a program that can be found on PATH.
func Available(argv []string) bool {
	if len(argv) == 0 {
		return false
	}
	_, err := exec.LookPath(argv[0])
	return err == nil
}
