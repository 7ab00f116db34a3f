package command

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/zostay/sysmail/message/transfer"
)

// Encoder appends the base64 rendering of the file at src to the file at
// dst.
type Encoder interface {
	Encode(ctx context.Context, src, dst string) error
}

// DefaultEncodeArgv is the external base64 encoder used unless configured
// otherwise.
var DefaultEncodeArgv = []string{"base64"}

// CommandEncoder runs Argv with src appended and sends its standard output
// to the end of dst, in the way of `base64 <src> >> <dst>`. The line breaks
// of the output are rewritten to Break, or left alone when it is nil.
type CommandEncoder struct {
	Argv  []string
	Break []byte
}

// Encode implements Encoder.
func (e *CommandEncoder) Encode(ctx context.Context, src, dst string) error {
	f, err := openAppend(dst)
	if err != nil {
		return err
	}

	var out io.Writer = f
	var lbw io.WriteCloser
	if e.Break != nil {
		lbw = transfer.NewLineBreakWriter(f, e.Break)
		out = lbw
	}

	err = Run(ctx, e.Argv, nil, out, src)
	if lbw != nil {
		if cerr := lbw.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("flush %s: %w", dst, cerr)
		}
	}
	if cerr := f.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("close %s: %w", dst, cerr)
	}
	return err
}

// NativeEncoder encodes in process with transfer.NewBase64Encoder. Lines are
// terminated with Break, or LF when it is nil.
type NativeEncoder struct {
	Break []byte
}

// Encode implements Encoder.
func (e *NativeEncoder) Encode(ctx context.Context, src, dst string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := openAppend(dst)
	if err != nil {
		return err
	}

	enc := transfer.NewBase64Encoder(out, e.Break)
	_, err = io.Copy(enc, in)
	if cerr := enc.Close(); err == nil {
		err = cerr
	}
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", src, err)
	}
	return nil
}

// NewEncoder returns a CommandEncoder for argv writing lbr line breaks. It
// returns a NativeEncoder using lbr when argv is empty or its program cannot
// be found on PATH.
func NewEncoder(argv []string, lbr []byte) Encoder {
	if !Available(argv) {
		return &NativeEncoder{Break: lbr}
	}
	return &CommandEncoder{Argv: argv, Break: lbr}
}

func openAppend(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}
