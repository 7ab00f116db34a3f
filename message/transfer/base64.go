package transfer

import (
	"encoding/base64"
	"io"
)

// Base64LineLength is the width of each line of base64 output.
const Base64LineLength = 76

var defaultBase64LineBreak = []byte{'\n'}

// newlineWriter inserts lbr after every `every` bytes written. The break is
// written lazily, before the next byte, so output that ends exactly on a line
// boundary does not get an empty line.
type newlineWriter struct {
	every int
	acc   int
	lbr   []byte
	w     io.Writer
}

func (nw *newlineWriter) Write(b []byte) (int, error) {
	n := 0
	for len(b) > 0 {
		if nw.acc == nw.every {
			if _, err := nw.w.Write(nw.lbr); err != nil {
				return n, err
			}
			nw.acc = 0
		}

		chunk := nw.every - nw.acc
		if chunk > len(b) {
			chunk = len(b)
		}

		ln, err := nw.w.Write(b[:chunk])
		n += ln
		nw.acc += ln
		if err != nil {
			return n, err
		}

		b = b[chunk:]
	}

	return n, nil
}

// Close terminates a partially written line. It does not close the nested
// writer.
func (nw *newlineWriter) Close() error {
	if nw.acc == 0 {
		return nil
	}
	nw.acc = 0
	_, err := nw.w.Write(nw.lbr)
	return err
}

// NewBase64Encoder will translate all bytes written to the returned
// io.WriteCloser into base64 encoding and write those to the given io.Writer
// in lines of Base64LineLength characters, each terminated by lbr. A nil lbr
// means "\n". Close must be called to flush the final line. It does not close
// w.
func NewBase64Encoder(w io.Writer, lbr []byte) io.WriteCloser {
	if lbr == nil {
		lbr = defaultBase64LineBreak
	}

	nw := &newlineWriter{
		every: Base64LineLength,
		lbr:   lbr,
		w:     w,
	}
	enc := base64.NewEncoder(base64.StdEncoding, nw)

	return &writer{enc, []io.Closer{enc, nw}}
}

// NewBase64Decoder will translate all bytes read from the given io.Reader as
// base64 and return the binary data to the returned io.Reader. Line breaks in
// the input are ignored.
func NewBase64Decoder(r io.Reader) io.Reader {
	return base64.NewDecoder(base64.StdEncoding, r)
}
