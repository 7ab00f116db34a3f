package transfer

import "io"

// writer is an internal helper to make wrapping easier.
type writer struct {
	io.Writer
	closers []io.Closer
}

// Close closes the nested closers in order and returns the first error.
func (w *writer) Close() error {
	var first error
	for _, c := range w.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
