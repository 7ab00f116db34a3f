package transfer_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/sysmail/message/transfer"
)

const dec = `1 Timothy 6:10 - For the love of money is a root of all kinds of evils. It is through this craving that some have wandered away from the faith and pierced themselves with many pangs.`
const enc = `MSBUaW1vdGh5IDY6MTAgLSBGb3IgdGhlIGxvdmUgb2YgbW9uZXkgaXMgYSByb290IG9mIGFsbCBr
aW5kcyBvZiBldmlscy4gSXQgaXMgdGhyb3VnaCB0aGlzIGNyYXZpbmcgdGhhdCBzb21lIGhhdmUg
d2FuZGVyZWQgYXdheSBmcm9tIHRoZSBmYWl0aCBhbmQgcGllcmNlZCB0aGVtc2VsdmVzIHdpdGgg
bWFueSBwYW5ncy4=
`

func TestChoose(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", transfer.LineLimit)

	tests := []struct {
		name    string
		content string
		expect  string
	}{
		{"empty", "", transfer.Bit8},
		{"short", "hi", transfer.Bit8},
		{"unicode", "Привет, мир", transfer.Bit8},
		{"many short lines", strings.Repeat("short line\n", 500), transfer.Bit8},
		{"just under", strings.Repeat("x", transfer.LineLimit-1), transfer.Bit8},
		{"one long line", long, transfer.Base64},
		{"long line with break", long + "\n", transfer.Base64},
		{"long line in the middle", "a\n" + long + "\nb\n", transfer.Base64},
		{"crlf not counted", strings.Repeat("x", transfer.LineLimit-1) + "\r\n", transfer.Bit8},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expect, transfer.Choose([]byte(tt.content)))
		})
	}
}

func TestNewBase64Encoder(t *testing.T) {
	t.Parallel()

	w := &bytes.Buffer{}
	bw := transfer.NewBase64Encoder(w, nil)
	n, err := bw.Write([]byte(dec))
	assert.Equal(t, len(dec), n)
	assert.NoError(t, err)

	assert.NoError(t, bw.Close())
	assert.Equal(t, enc, w.String())

	for _, line := range strings.Split(strings.TrimSuffix(w.String(), "\n"), "\n") {
		assert.LessOrEqual(t, len(line), transfer.Base64LineLength)
	}
}

func TestNewBase64Encoder_ExactLine(t *testing.T) {
	t.Parallel()

	// 57 bytes encode to exactly 76 characters
	in := bytes.Repeat([]byte{0xff}, 57)

	w := &bytes.Buffer{}
	bw := transfer.NewBase64Encoder(w, []byte("\r\n"))
	_, err := bw.Write(in)
	require.NoError(t, err)
	require.NoError(t, bw.Close())

	assert.Equal(t, strings.Repeat("/", 76)+"\r\n", w.String())
}

func TestNewBase64Encoder_SmallWrites(t *testing.T) {
	t.Parallel()

	w := &bytes.Buffer{}
	bw := transfer.NewBase64Encoder(w, nil)
	for _, c := range []byte(dec) {
		_, err := bw.Write([]byte{c})
		require.NoError(t, err)
	}
	require.NoError(t, bw.Close())

	assert.Equal(t, enc, w.String())
}

func TestNewBase64Decoder(t *testing.T) {
	t.Parallel()

	r := transfer.NewBase64Decoder(strings.NewReader(enc))
	db, err := io.ReadAll(r)
	assert.NoError(t, err)
	assert.Equal(t, []byte(dec), db)
}

func TestApplyTransferEncoding(t *testing.T) {
	t.Parallel()

	w := &bytes.Buffer{}
	tdwc := transfer.ApplyTransferEncoding(transfer.Base64, w, nil)
	n, err := tdwc.Write([]byte(dec))
	assert.Equal(t, len(dec), n)
	assert.NoError(t, err)

	err = tdwc.Close()
	assert.NoError(t, err)

	assert.Equal(t, enc, w.String())

	w.Reset()
	tdwc = transfer.ApplyTransferEncoding(transfer.Bit8, w, nil)
	_, err = tdwc.Write([]byte(dec))
	assert.NoError(t, err)
	assert.NoError(t, tdwc.Close())
	assert.Equal(t, dec, w.String())
}
