package message

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"

	"github.com/zostay/sysmail/internal/command"
	"github.com/zostay/sysmail/message/header"
	"github.com/zostay/sysmail/message/transfer"
	"github.com/zostay/sysmail/storage"
	"github.com/zostay/sysmail/transport"
	"github.com/zostay/sysmail/transport/sendmail"
)

// DefaultCharset is used when Compiler.Charset is empty.
const DefaultCharset = "UTF-8"

// Sniffer reports the Content-Type of the attachment stored at path.
type Sniffer interface {
	Sniff(ctx context.Context, path string) (string, error)
}

// Encoder appends the base64 rendering of the file at src to the file at
// dst.
type Encoder interface {
	Encode(ctx context.Context, src, dst string) error
}

// Compiler turns a Spec into a message and hands it to a Transport. The zero
// value works: it writes LF line breaks and UTF-8 bodies, sniffs attachments
// with file(1), encodes them with base64(1) and delivers with sendmail -t.
// When file or base64 is not on PATH, the in-process sniffer or encoder is
// used instead.
type Compiler struct {
	// StorageRoot is the directory under which backing files are made.
	// Empty means os.TempDir().
	StorageRoot string

	// Charset is the charset of every body. Bodies are transcoded from UTF-8
	// when it names anything else.
	Charset string

	// EncodeAddresses turns on RFC 2047 encoding of non-ASCII display names
	// in From and To.
	EncodeAddresses bool

	// Break is the line break written throughout the message.
	Break header.Break

	Sniffer   Sniffer
	Encoder   Encoder
	Transport transport.Transport
	Logger    *slog.Logger
}

// NewCompiler returns a Compiler with address encoding turned on and the
// given transport.
func NewCompiler(tr transport.Transport) *Compiler {
	return &Compiler{
		Charset:         DefaultCharset,
		EncodeAddresses: true,
		Break:           header.LF,
		Transport:       tr,
	}
}

func (c *Compiler) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}

func (c *Compiler) lineBreak() header.Break {
	if c.Break == "" {
		return header.LF
	}
	return c.Break
}

func (c *Compiler) charset() string {
	if c.Charset == "" {
		return DefaultCharset
	}
	return c.Charset
}

func (c *Compiler) sniffer() Sniffer {
	if c.Sniffer == nil {
		return command.NewSniffer(command.DefaultSniffArgv)
	}
	return c.Sniffer
}

func (c *Compiler) encoder() Encoder {
	if c.Encoder == nil {
		return command.NewEncoder(command.DefaultEncodeArgv, c.lineBreak().Bytes())
	}
	return c.Encoder
}

func (c *Compiler) transport() transport.Transport {
	if c.Transport == nil {
		return sendmail.New(nil, c.logger())
	}
	return c.Transport
}

// NewBuffer returns an empty storage.Buffer configured for this compiler.
func (c *Compiler) NewBuffer() *storage.Buffer {
	return storage.New(c.StorageRoot, storage.WithBreak(c.lineBreak().String()))
}

// Deliver validates s, compiles it into a fresh buffer and sends it. The
// buffer is always cleared before returning.
func (c *Compiler) Deliver(ctx context.Context, s *Spec) (err error) {
	if err := s.Validate(); err != nil {
		return err
	}

	buf := c.NewBuffer()
	defer func() {
		if cerr := buf.Clear(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("release storage: %w", cerr))
		}
	}()

	if err := c.Compile(ctx, s, buf); err != nil {
		return err
	}

	tr := c.transport()
	c.logger().InfoContext(ctx, "delivering message",
		"transport", tr.Name(),
		"recipients", len(s.To),
		"spilled", buf.Spilled())

	return tr.Send(ctx, transport.NewEnvelope(s.From, s.To), transport.FromBuffer(buf))
}

// compilation carries the state of one call to Compile.
type compilation struct {
	*Compiler
	buf   *storage.Buffer
	enc   encoding.Encoding
	paths []string
}

// Compile writes the message described by s into buf. Attachments are
// resolved before anything is written.
func (c *Compiler) Compile(ctx context.Context, s *Spec, buf *storage.Buffer) error {
	if err := s.Validate(); err != nil {
		return err
	}

	if len(s.Bodies) == 0 {
		c.logger().WarnContext(ctx, "message body is empty")
	}

	enc, err := c.bodyEncoding()
	if err != nil {
		return err
	}

	paths, err := c.resolveAttachments(s.Attachments, buf)
	if err != nil {
		return err
	}

	cc := &compilation{Compiler: c, buf: buf, enc: enc, paths: paths}

	plan := Plan(s)
	if err := cc.writeHeader(s, plan != nil); err != nil {
		return err
	}

	if plan == nil {
		return nil
	}

	return cc.writePart(ctx, plan)
}

// bodyEncoding returns nil for UTF-8, which needs no transcoding.
func (c *Compiler) bodyEncoding() (encoding.Encoding, error) {
	cs := c.charset()
	if strings.EqualFold(cs, "UTF-8") || strings.EqualFold(cs, "UTF8") {
		return nil, nil
	}

	enc, err := ianaindex.MIME.Encoding(cs)
	if err != nil {
		return nil, fmt.Errorf("charset %q: %w", cs, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("charset %q is not supported", cs)
	}
	return enc, nil
}

// resolveAttachments returns a readable path for every attachment, spooling
// readers into buf.
func (c *Compiler) resolveAttachments(as []Attachment, buf *storage.Buffer) ([]string, error) {
	paths := make([]string, len(as))
	for i, a := range as {
		var path string
		switch {
		case a.Path != "":
			path = a.Path
		case a.File != nil:
			path = a.File.Name()
		case a.Reader != nil:
			p, err := buf.Spool(a.Reader)
			if err != nil {
				return nil, &AttachmentError{Path: a.Filename(), Err: err}
			}
			paths[i] = p
			continue
		default:
			return nil, ErrInvalidAttachment
		}

		if err := checkReadable(path); err != nil {
			return nil, err
		}
		paths[i] = path
	}
	return paths, nil
}

func checkReadable(path string) error {
	fi, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return &AttachmentError{Path: path, Err: fmt.Errorf("%w: %w", ErrNotFound, err)}
	}
	if err != nil {
		return &AttachmentError{Path: path, Err: fmt.Errorf("%w: %w", ErrNotReadable, err)}
	}
	if !fi.Mode().IsRegular() {
		return &AttachmentError{Path: path, Err: ErrNotFound}
	}

	f, err := os.Open(path)
	if err != nil {
		return &AttachmentError{Path: path, Err: fmt.Errorf("%w: %w", ErrNotReadable, err)}
	}
	return f.Close()
}

func (c *Compiler) address(a string) string {
	if c.EncodeAddresses {
		return header.EncodeAddress(a)
	}
	return a
}

// writeHeader writes the message level fields. The fields of the first part
// follow with no separator.
func (cc *compilation) writeHeader(s *Spec, hasBody bool) error {
	h := &header.Header{}
	h.SetBreak(cc.lineBreak())

	if s.From != "" {
		h.SetFrom(cc.address(s.From))
	}

	to := s.To
	if cc.EncodeAddresses {
		to = header.EncodeAddressList(s.To)
	}
	h.SetTo(to...)
	h.SetSubject(s.Subject)

	if !s.Date.IsZero() {
		h.SetDate(s.Date)
	}
	if s.MessageID != "" {
		h.SetMessageID(s.MessageID)
	}
	if hasBody {
		h.SetMIMEVersion()
	}

	return cc.writeFields(h)
}

func (cc *compilation) writeFields(h *header.Header) error {
	return cc.buf.Write(func(w *storage.Writer) error {
		_, err := h.WriteTo(w)
		return err
	})
}

func (cc *compilation) newHeader() *header.Header {
	h := &header.Header{}
	h.SetBreak(cc.lineBreak())
	return h
}

func (cc *compilation) writePart(ctx context.Context, p Part) error {
	switch v := p.(type) {
	case *Multipart:
		return cc.writeMultipart(ctx, v)
	case *Body:
		return cc.writeBody(v)
	case *Enclosure:
		return cc.writeEnclosure(ctx, v)
	}
	return fmt.Errorf("unknown part type %T", p)
}

func (cc *compilation) writeMultipart(ctx context.Context, mm *Multipart) error {
	boundary := GenerateSafeBoundary(mm.Kind, inlineContent(mm)...)

	h := cc.newHeader()
	h.SetContentType(mm.MediaType(), header.QuotedParam("boundary", boundary))
	if err := cc.writeFields(h); err != nil {
		return err
	}

	for _, sub := range mm.parts {
		if err := cc.writeDelimiter(boundary, false); err != nil {
			return err
		}
		if err := cc.writePart(ctx, sub); err != nil {
			return err
		}
	}

	return cc.writeDelimiter(boundary, true)
}

func (cc *compilation) writeDelimiter(boundary string, last bool) error {
	line := "--" + boundary
	if last {
		line += "--"
	}
	return cc.buf.Write(func(w *storage.Writer) error {
		return w.WriteLine("", line)
	})
}

func (cc *compilation) writeBody(b *Body) error {
	content := []byte(b.Content)
	if cc.enc != nil {
		var err error
		content, err = cc.enc.NewEncoder().Bytes(content)
		if err != nil {
			return fmt.Errorf("transcode %s body to %s: %w", b.Kind, cc.charset(), err)
		}
	}

	cte := transfer.Choose(content)

	h := cc.newHeader()
	h.SetContentType(b.MediaType(), header.Param("charset", cc.charset()))
	h.SetTransferEncoding(cte)

	return cc.buf.Write(func(w *storage.Writer) error {
		if _, err := h.WriteTo(w); err != nil {
			return err
		}
		if err := w.WriteLine(); err != nil {
			return err
		}

		if cte == transfer.Bit8 {
			return w.WriteLine(cc.normalizeBreaks(string(content)))
		}

		enc := transfer.NewBase64Encoder(w, cc.lineBreak().Bytes())
		if _, err := enc.Write(content); err != nil {
			return err
		}
		return enc.Close()
	})
}

// normalizeBreaks rewrites LF to the configured break.
func (cc *compilation) normalizeBreaks(s string) string {
	lbr := cc.lineBreak()
	if lbr == header.LF {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\n", lbr.String())
}

func (cc *compilation) writeEnclosure(ctx context.Context, e *Enclosure) error {
	path := cc.paths[e.Index]

	ct, err := cc.sniffer().Sniff(ctx, path)
	if err != nil {
		return &AttachmentError{Path: path, Err: transport.Fail("sniff", err)}
	}

	h := cc.newHeader()
	h.Set(header.ContentType, ct)
	h.SetTransferEncoding(transfer.Base64)
	h.SetAttachment(e.Attachment.Filename())

	err = cc.buf.Write(func(w *storage.Writer) error {
		if _, err := h.WriteTo(w); err != nil {
			return err
		}
		return w.WriteLine()
	})
	if err != nil {
		return err
	}

	err = cc.buf.Capture(func(dst string) error {
		return cc.encoder().Encode(ctx, path, dst)
	})
	if err != nil {
		return &AttachmentError{Path: path, Err: transport.Fail("encode", err)}
	}

	cc.logger().DebugContext(ctx, "attached file",
		"path", path,
		"content_type", ct,
		"storage", cc.buf.Path())

	return nil
}
