package header_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/sysmail/message/header"
)

func TestIsASCII(t *testing.T) {
	t.Parallel()

	assert.True(t, header.IsASCII(""))
	assert.True(t, header.IsASCII("plain text 123 ~"))
	assert.False(t, header.IsASCII("café"))
}

func TestEncodeText(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Weekly report", header.EncodeText("Weekly report"))

	enc := header.EncodeText("Отчёт за неделю")
	assert.Equal(t, "=?UTF-8?B?0J7RgtGH0ZHRgiDQt9CwINC90LXQtNC10LvRjg==?=", enc)

	dec, err := header.DecodeText(enc)
	require.NoError(t, err)
	assert.Equal(t, "Отчёт за неделю", dec)
}

func TestEncodeWord_NotSplit(t *testing.T) {
	t.Parallel()

	long := ""
	for i := 0; i < 40; i++ {
		long += "ж"
	}

	enc := header.EncodeWord(long)
	assert.Regexp(t, `^=\?UTF-8\?B\?[A-Za-z0-9+/=]+\?=$`, enc)

	dec, err := header.DecodeText(enc)
	require.NoError(t, err)
	assert.Equal(t, long, dec)
}

func TestDecodeText_OtherCharset(t *testing.T) {
	t.Parallel()

	dec, err := header.DecodeText("=?ISO-8859-1?Q?caf=E9?=")
	require.NoError(t, err)
	assert.Equal(t, "café", dec)
}

func TestEncodeAddress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		in     string
		expect string
	}{
		{"bare", "a@example.com", "a@example.com"},
		{"ascii name", "Bob <b@example.com>", "Bob <b@example.com>"},
		{"unicode name", "Иван <ivan@example.com>", "=?UTF-8?B?0JjQstCw0L0=?= <ivan@example.com>"},
		{"unicode quoted", `"Иван" <ivan@example.com>`, "=?UTF-8?B?0JjQstCw0L0=?= <ivan@example.com>"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expect, header.EncodeAddress(tt.in))
		})
	}

	assert.Equal(t,
		[]string{"a@example.com", "=?UTF-8?B?0JjQstCw0L0=?= <ivan@example.com>"},
		header.EncodeAddressList([]string{"a@example.com", "Иван <ivan@example.com>"}))
}

func TestBareAddress(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a@example.com", header.BareAddress("a@example.com"))
	assert.Equal(t, "b@example.com", header.BareAddress("Bob <b@example.com>"))
	assert.Equal(t, "ivan@example.com", header.BareAddress("Иван <ivan@example.com>"))
}

func TestParseTime(t *testing.T) {
	t.Parallel()

	for _, s := range []string{
		"Sat, 09 Mar 2024 14:30:05 -0500",
		"2024-03-09T19:30:05Z",
		"Sat Mar 09 19:30:05 2024 UTC",
	} {
		got, err := header.ParseTime(s)
		require.NoError(t, err, s)
		assert.Equal(t, 2024, got.Year(), s)
		assert.Equal(t, 19, got.UTC().Hour(), s)
	}

	_, err := header.ParseTime("not a date")
	assert.Error(t, err)
}

var messageIDRE = regexp.MustCompile(`^<[0-9a-f-]{36}@example\.com>$`)

func TestGenerateMessageID(t *testing.T) {
	t.Parallel()

	a := header.GenerateMessageID("example.com")
	b := header.GenerateMessageID("example.com")
	assert.Regexp(t, messageIDRE, a)
	assert.NotEqual(t, a, b)

	assert.Contains(t, header.GenerateMessageID(""), "@localhost>")
}
