package message

// Part is a node of the structure planned for a message. Each Part is either
// a branch or a leaf.
//
// A branch Part is a *Multipart. IsMultipart returns true and GetParts
// returns the nested parts in the order they are written.
//
// A leaf Part is a *Body or an *Enclosure. IsMultipart returns false and
// GetParts returns nil.
type Part interface {
	// IsMultipart returns true if this Part is a branch with nested parts.
	IsMultipart() bool

	// GetParts returns the nested parts of a branch or nil for a leaf.
	GetParts() []Part

	// MediaType returns the media type written in the Content-Type of the
	// part. It is empty for an enclosure, whose type is only known once the
	// file has been sniffed.
	MediaType() string
}

// Body is a leaf holding one rendering of the message text.
type Body struct {
	Kind    BodyKind
	Content string
}

// IsMultipart always returns false.
func (b *Body) IsMultipart() bool { return false }

// GetParts always returns nil.
func (b *Body) GetParts() []Part { return nil }

// MediaType returns the media type for the body kind.
func (b *Body) MediaType() string { return b.Kind.MediaType() }

// Enclosure is a leaf for the attachment at Index in Spec.Attachments.
type Enclosure struct {
	Index      int
	Attachment Attachment
}

// IsMultipart always returns false.
func (e *Enclosure) IsMultipart() bool { return false }

// GetParts always returns nil.
func (e *Enclosure) GetParts() []Part { return nil }

// MediaType always returns the empty string.
func (e *Enclosure) MediaType() string { return "" }

// Multipart kinds.
const (
	Mixed       = "mixed"
	Alternative = "alternative"
)

// Multipart is a branch written as a multipart/<Kind> envelope.
type Multipart struct {
	Kind  string
	parts []Part
}

// IsMultipart always returns true.
func (mm *Multipart) IsMultipart() bool { return true }

// GetParts returns the sub-parts of this envelope.
func (mm *Multipart) GetParts() []Part { return mm.parts }

// MediaType returns multipart/<Kind>.
func (mm *Multipart) MediaType() string { return "multipart/" + mm.Kind }

// MultipartAlternative returns a multipart/alternative Multipart with the
// given parts attached.
func MultipartAlternative(parts ...Part) *Multipart {
	return &Multipart{Kind: Alternative, parts: parts}
}

// MultipartMixed returns a multipart/mixed Multipart with the given parts
// attached.
func MultipartMixed(parts ...Part) *Multipart {
	return &Multipart{Kind: Mixed, parts: parts}
}

// Plan decides the structure of the message described by s. It returns nil
// when there is nothing to write after the header.
//
//   - No bodies: nil.
//   - One body: a single *Body.
//   - Several bodies: a multipart/alternative in BodyOrder.
//   - Any attachments: a multipart/mixed holding the above, if not nil, and
//     then one *Enclosure per attachment in order.
//
// The result depends only on s.
func Plan(s *Spec) Part {
	var body Part

	kinds := s.bodyKinds()
	switch len(kinds) {
	case 0:
	case 1:
		body = &Body{Kind: kinds[0], Content: s.Bodies[kinds[0]]}
	default:
		alts := make([]Part, len(kinds))
		for i, k := range kinds {
			alts[i] = &Body{Kind: k, Content: s.Bodies[k]}
		}
		body = MultipartAlternative(alts...)
	}

	if len(s.Attachments) == 0 {
		return body
	}

	parts := make([]Part, 0, len(s.Attachments)+1)
	if body != nil {
		parts = append(parts, body)
	}
	for i, a := range s.Attachments {
		parts = append(parts, &Enclosure{Index: i, Attachment: a})
	}

	return MultipartMixed(parts...)
}

// inlineContent collects the text content beneath p.
func inlineContent(p Part) []string {
	switch v := p.(type) {
	case *Body:
		return []string{v.Content}
	case *Multipart:
		var out []string
		for _, sub := range v.parts {
			out = append(out, inlineContent(sub)...)
		}
		return out
	}
	return nil
}
