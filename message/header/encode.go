package header

import (
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/araddon/dateparse"
	"github.com/google/uuid"
	"github.com/zostay/go-addr/pkg/addr"
	"golang.org/x/text/encoding/ianaindex"
)

// UnixDateWithEarlyYear is a date format some older mail agents produce.
// ParseTime accepts it.
const UnixDateWithEarlyYear = "Mon Jan 02 15:04:05 2006 MST"

// WordCharset is the charset named in every encoded-word produced here.
const WordCharset = "UTF-8"

// IsASCII returns true if every byte of s is 7-bit.
func IsASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// EncodeWord returns s as a single RFC 2047 encoded-word using the B
// encoding. Unlike mime.BEncoding, the word is never split, however long it
// gets.
func EncodeWord(s string) string {
	return "=?" + WordCharset + "?B?" + base64.StdEncoding.EncodeToString([]byte(s)) + "?="
}

// EncodeText returns s unchanged when it is pure ASCII and as an encoded-word
// otherwise.
func EncodeText(s string) string {
	if IsASCII(s) {
		return s
	}
	return EncodeWord(s)
}

var wordDecoder = &mime.WordDecoder{
	CharsetReader: func(charset string, input io.Reader) (io.Reader, error) {
		enc, err := ianaindex.MIME.Encoding(charset)
		if err != nil {
			return nil, err
		}
		if enc == nil {
			return nil, fmt.Errorf("unsupported charset %q", charset)
		}
		return enc.NewDecoder().Reader(input), nil
	},
}

// DecodeText reverses EncodeText, decoding any encoded-words in s.
func DecodeText(s string) (string, error) {
	return wordDecoder.DecodeHeader(s)
}

// splitAddress pulls the display name and bare address out of a single
// mailbox. It tries a strict parse first and falls back to splitting on the
// last angle bracket.
func splitAddress(a string) (name, email string) {
	if mb, err := addr.ParseEmailMailbox(a); err == nil {
		return mb.DisplayName(), mb.Address()
	}

	a = strings.TrimSpace(a)
	open := strings.LastIndexByte(a, '<')
	if open < 0 {
		return "", a
	}

	name = strings.Trim(strings.TrimSpace(a[:open]), `"`)
	email = strings.TrimSuffix(strings.TrimSpace(a[open+1:]), ">")
	return name, email
}

// BareAddress returns only the address portion of a mailbox, dropping any
// display name and angle brackets. This is the form wanted by an SMTP
// envelope.
func BareAddress(a string) string {
	_, email := splitAddress(a)
	return email
}

// EncodeAddress prepares a single mailbox for a From or To field. A mailbox
// with a non-ASCII display name is rewritten as an encoded-word followed by
// the address in angle brackets. Anything else is returned unchanged.
func EncodeAddress(a string) string {
	if IsASCII(a) {
		return a
	}

	name, email := splitAddress(a)
	if name == "" {
		return a
	}

	return EncodeText(name) + " <" + email + ">"
}

// EncodeAddressList applies EncodeAddress to each mailbox.
func EncodeAddressList(as []string) []string {
	out := make([]string, len(as))
	for i, a := range as {
		out[i] = EncodeAddress(a)
	}
	return out
}

// FormatDate returns t in the form used by the Date field.
func FormatDate(t time.Time) string {
	return t.Format(time.RFC1123Z)
}

// ParseTime parses a date as found in a Date field. It tries RFC 5322 first
// and falls back to parsing it in many other formats.
func ParseTime(body string) (time.Time, error) {
	t, err := mail.ParseDate(body)
	if err == nil {
		return t, nil
	}

	t, err = dateparse.ParseAny(body)
	if err == nil {
		return t, nil
	}

	t, err = time.Parse(UnixDateWithEarlyYear, body)
	if err == nil {
		return t, nil
	}

	return t, fmt.Errorf("time string %q cannot be parsed", body)
}

// GenerateMessageID returns a new globally unique Message-ID for the given
// domain, including the angle brackets.
func GenerateMessageID(domain string) string {
	if domain == "" {
		domain = "localhost"
	}
	return "<" + uuid.NewString() + "@" + domain + ">"
}
