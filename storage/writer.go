package storage

import (
	"fmt"
	"io"
	"strings"
)

// Writer is the handle passed to the callback of Buffer.Write. It is only
// valid for the duration of that callback.
type Writer struct {
	w   io.Writer
	lbr string
}

// Write implements io.Writer.
func (w *Writer) Write(p []byte) (int, error) {
	return w.w.Write(p)
}

// Break returns the line break the Writer appends.
func (w *Writer) Break() string {
	return w.lbr
}

// WriteLine writes each string followed by a line break. A string that
// already ends with the line break does not get a second one. Calling
// WriteLine with no arguments writes a single line break.
func (w *Writer) WriteLine(lines ...string) error {
	if len(lines) == 0 {
		_, err := io.WriteString(w.w, w.lbr)
		return err
	}

	for _, line := range lines {
		if !strings.HasSuffix(line, w.lbr) {
			line += w.lbr
		}
		if _, err := io.WriteString(w.w, line); err != nil {
			return err
		}
	}

	return nil
}

// Printf formats according to the format specifier and writes the result
// followed by a line break.
func (w *Writer) Printf(format string, a ...any) error {
	return w.WriteLine(fmt.Sprintf(format, a...))
}
