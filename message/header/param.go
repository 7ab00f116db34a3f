package header

import (
	"fmt"
	"strings"
)

// Parameter is a single name=value pair trailing a Content-Type or
// Content-Disposition field.
type Parameter struct {
	Name  string
	Value string

	quote bool
}

// Param returns a parameter that is written as a bare token where the value
// permits and quoted otherwise.
func Param(name, value string) Parameter {
	return Parameter{Name: name, Value: value}
}

// QuotedParam returns a parameter whose value is always quoted.
func QuotedParam(name, value string) Parameter {
	return Parameter{Name: name, Value: value, quote: true}
}

const tspecials = `()<>@,;:\"/[]?=`

func isToken(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c <= ' ' || c >= 0x7f || strings.IndexByte(tspecials, c) >= 0 {
			return false
		}
	}
	return true
}

// String formats the parameter. A non-ASCII value uses the RFC 2231 extended
// form, name*=UTF-8''percent-encoded.
func (p Parameter) String() string {
	if !IsASCII(p.Value) {
		return p.Name + "*=" + WordCharset + "''" + percentEncode(p.Value)
	}

	if !p.quote && isToken(p.Value) {
		return p.Name + "=" + p.Value
	}

	v := strings.ReplaceAll(p.Value, `\`, `\\`)
	v = strings.ReplaceAll(v, `"`, `\"`)
	return p.Name + `="` + v + `"`
}

// attrChars are the punctuation characters RFC 2231 allows unescaped.
const attrChars = "!#$&+-.^_`|~"

func percentEncode(s string) string {
	sb := &strings.Builder{}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
			sb.WriteByte(c)
		case strings.IndexByte(attrChars, c) >= 0:
			sb.WriteByte(c)
		default:
			fmt.Fprintf(sb, "%%%02X", c)
		}
	}
	return sb.String()
}

func joinParams(v string, params []Parameter) string {
	if len(params) == 0 {
		return v
	}

	sb := &strings.Builder{}
	sb.WriteString(v)
	for _, p := range params {
		sb.WriteString("; ")
		sb.WriteString(p.String())
	}
	return sb.String()
}
