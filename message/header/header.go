package header

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// Errors returned by various header methods and functions.
var (
	// ErrNoSuchField is returned by Header methods when the operation
	// being performed failed because the header named does not exist.
	ErrNoSuchField = errors.New("no such header field")

	// ErrManyFields is returned by Header methods when the operation
	// being performed failed because the there are multiple fields with the
	// given name.
	ErrManyFields = errors.New("many header fields found")
)

// These are the header fields a composed message may carry.
const (
	ContentDisposition      = "Content-Disposition"
	ContentTransferEncoding = "Content-Transfer-Encoding"
	ContentType             = "Content-Type"
	Date                    = "Date"
	From                    = "From"
	MessageID               = "Message-ID"
	MIMEVersion             = "MIME-Version"
	Subject                 = "Subject"
	To                      = "To"
)

// Field is a single header field. The Body is written exactly as given.
type Field struct {
	Name string
	Body string
}

// String returns the field as it will appear in the header, without a line
// break.
func (f Field) String() string {
	return f.Name + ": " + f.Body
}

// Header is an ordered list of fields. Field names are matched without regard
// to case. The zero value is an empty header using LF line breaks.
type Header struct {
	lbr    Break
	fields []Field
}

// Break returns the line break used to terminate fields.
func (h *Header) Break() Break {
	if h.lbr == "" {
		return LF
	}
	return h.lbr
}

// SetBreak changes the line break used to terminate fields.
func (h *Header) SetBreak(lb Break) {
	h.lbr = lb
}

// Len returns the number of fields in the header.
func (h *Header) Len() int {
	return len(h.fields)
}

// Fields returns a copy of the fields in order.
func (h *Header) Fields() []Field {
	return append([]Field(nil), h.fields...)
}

// GetIndexesNamed returns the indexes of all fields with the given name.
func (h *Header) GetIndexesNamed(name string) []int {
	var ixs []int
	for i, f := range h.fields {
		if strings.EqualFold(f.Name, name) {
			ixs = append(ixs, i)
		}
	}
	return ixs
}

// Get retrieves the string value of the named field.
//
// If the named field is not set in the header, it will return an empty string
// with ErrNoSuchField. If there are multiple headers for the given named field,
// it will return the first value found and return ErrManyFields.
func (h *Header) Get(name string) (string, error) {
	ixs := h.GetIndexesNamed(name)
	if len(ixs) == 0 {
		return "", ErrNoSuchField
	}

	b := h.fields[ixs[0]].Body
	if len(ixs) > 1 {
		return b, ErrManyFields
	}

	return b, nil
}

// Add appends a field to the end of the header.
func (h *Header) Add(name, body string) {
	h.fields = append(h.fields, Field{Name: name, Body: body})
}

// Set replaces the first field with the given name and removes any others. If
// there is no such field, it is added at the end.
func (h *Header) Set(name, body string) {
	ixs := h.GetIndexesNamed(name)
	if len(ixs) == 0 {
		h.Add(name, body)
		return
	}

	h.fields[ixs[0]].Body = body
	for i := len(ixs) - 1; i > 0; i-- {
		ix := ixs[i]
		h.fields = append(h.fields[:ix], h.fields[ix+1:]...)
	}
}

// Merge appends all the fields of o to this header.
func (h *Header) Merge(o *Header) {
	if o == nil {
		return
	}
	h.fields = append(h.fields, o.fields...)
}

// SetFrom replaces the From field. The address is written exactly as given;
// see EncodeAddress.
func (h *Header) SetFrom(a string) {
	h.Set(From, a)
}

// SetTo replaces the To field with the given addresses joined by ", ".
func (h *Header) SetTo(as ...string) {
	h.Set(To, strings.Join(as, ", "))
}

// GetSubject returns the decoded Subject.
func (h *Header) GetSubject() (string, error) {
	s, err := h.Get(Subject)
	if err != nil {
		return s, err
	}
	return DecodeText(s)
}

// SetSubject replaces the Subject field. A subject with any non-ASCII
// character is written as a single RFC 2047 encoded-word.
func (h *Header) SetSubject(s string) {
	h.Set(Subject, EncodeText(s))
}

// GetDate parses the Date field with ParseTime.
func (h *Header) GetDate() (time.Time, error) {
	body, err := h.Get(Date)
	if err != nil {
		return time.Time{}, err
	}
	return ParseTime(body)
}

// SetDate replaces the Date field with the given time in RFC 5322 format.
func (h *Header) SetDate(d time.Time) {
	h.Set(Date, FormatDate(d))
}

// SetMessageID replaces the Message-ID field. Angle brackets are added if
// they are missing.
func (h *Header) SetMessageID(id string) {
	if !strings.HasPrefix(id, "<") {
		id = "<" + id + ">"
	}
	h.Set(MessageID, id)
}

// SetMIMEVersion sets MIME-Version to 1.0.
func (h *Header) SetMIMEVersion() {
	h.Set(MIMEVersion, "1.0")
}

// SetContentType replaces the Content-Type field with the given media type
// and parameters.
func (h *Header) SetContentType(mt string, params ...Parameter) {
	h.Set(ContentType, joinParams(mt, params))
}

// SetTransferEncoding replaces the Content-Transfer-Encoding field.
func (h *Header) SetTransferEncoding(cte string) {
	h.Set(ContentTransferEncoding, cte)
}

// SetContentDisposition replaces the Content-Disposition field with the
// given presentation and parameters.
func (h *Header) SetContentDisposition(d string, params ...Parameter) {
	h.Set(ContentDisposition, joinParams(d, params))
}

// SetAttachment marks the part as an attachment with the given filename. A
// non-ASCII filename is written twice: quoted as an RFC 2047 encoded word for
// readers that only know filename, then in RFC 2231 form as filename*.
func (h *Header) SetAttachment(filename string) {
	if IsASCII(filename) {
		h.SetContentDisposition("attachment", QuotedParam("filename", filename))
		return
	}

	h.SetContentDisposition("attachment",
		QuotedParam("filename", EncodeWord(filename)),
		QuotedParam("filename", filename))
}

// WriteTo writes every field followed by the line break. It does not write
// the blank line that separates a header from a body.
func (h *Header) WriteTo(w io.Writer) (int64, error) {
	var total int64
	lbr := h.Break()
	for _, f := range h.fields {
		n, err := fmt.Fprint(w, f.String(), lbr)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// String returns the header as WriteTo would write it.
func (h *Header) String() string {
	sb := &strings.Builder{}
	_, _ = h.WriteTo(sb)
	return sb.String()
}
