package transfer

import (
	"bytes"
	"io"
)

const (
	Bit8   = "8bit"   // bytes will be left as-is
	Base64 = "base64" // bytes will be transformed to base64 in 76 column lines
)

// LineLimit is the longest line, in bytes and excluding the line break, that
// RFC 5322 permits. Content with a line of LineLimit bytes or more is sent as
// base64.
const LineLimit = 998

// EncoderFunc returns an io.WriteCloser, which will encode data and write the
// encoded form to the given io.Writer, breaking lines with lbr where the
// encoding calls for it. You must call Close() on the returned io.WriteCloser
// when you are finished.
type EncoderFunc func(w io.Writer, lbr []byte) io.WriteCloser

// Encoders maps each Content-Transfer-Encoding this package produces to its
// encoder.
var Encoders = map[string]EncoderFunc{
	Bit8:   NewAsIsEncoder,
	Base64: NewBase64Encoder,
}

// Choose returns the Content-Transfer-Encoding to use for the given content.
// Short content is always Bit8. Otherwise, content is Bit8 unless one of its
// lines reaches LineLimit, in which case it is Base64.
func Choose(content []byte) string {
	if len(content) < LineLimit || !HasLongLine(content, LineLimit) {
		return Bit8
	}
	return Base64
}

// HasLongLine returns true if any line of content, not counting its CR or LF
// terminator, is limit bytes or longer.
func HasLongLine(content []byte, limit int) bool {
	for len(content) > 0 {
		line := content
		if i := bytes.IndexByte(content, '\n'); i >= 0 {
			line, content = content[:i], content[i+1:]
		} else {
			content = nil
		}

		line = bytes.TrimSuffix(line, []byte{'\r'})
		if len(line) >= limit {
			return true
		}
	}
	return false
}

// ApplyTransferEncoding returns an io.WriteCloser that encodes what is written
// to it with the named Content-Transfer-Encoding. Unknown encodings pass the
// data through as-is.
//
// You must call Close() on the returned io.WriteCloser when you are finished
// writing.
func ApplyTransferEncoding(cte string, w io.Writer, lbr []byte) io.WriteCloser {
	if enc, hasCode := Encoders[cte]; hasCode {
		return enc(w, lbr)
	}
	return NewAsIsEncoder(w, lbr)
}
