package transfer

import "io"

// breakWriter rewrites every line break written through it, LF or CRLF, to
// lbr. A CR is held back until the next byte shows whether it starts a CRLF.
type breakWriter struct {
	w       io.Writer
	lbr     []byte
	pending bool
}

// NewLineBreakWriter returns a writer that normalizes LF and CRLF line breaks
// to lbr before passing bytes on to w. Close flushes a trailing lone CR and
// does not close w.
func NewLineBreakWriter(w io.Writer, lbr []byte) io.WriteCloser {
	if lbr == nil {
		lbr = defaultBase64LineBreak
	}
	return &breakWriter{w: w, lbr: lbr}
}

func (bw *breakWriter) Write(b []byte) (int, error) {
	out := make([]byte, 0, len(b)+len(b)/32)
	for _, c := range b {
		switch {
		case c == '\n':
			out = append(out, bw.lbr...)
			bw.pending = false
		case bw.pending:
			out = append(out, '\r')
			bw.pending = c == '\r'
			if !bw.pending {
				out = append(out, c)
			}
		case c == '\r':
			bw.pending = true
		default:
			out = append(out, c)
		}
	}

	if _, err := bw.w.Write(out); err != nil {
		return 0, err
	}
	return len(b), nil
}

func (bw *breakWriter) Close() error {
	if !bw.pending {
		return nil
	}
	bw.pending = false
	_, err := bw.w.Write([]byte{'\r'})
	return err
}
