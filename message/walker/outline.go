package walker

import (
	"fmt"
	"io"
	"strings"

	gomessage "github.com/emersion/go-message"
)

// Node summarizes one part of a parsed message.
type Node struct {
	Depth     int
	Index     int
	MediaType string
	Params    map[string]string
	Encoding  string
	Filename  string

	// Content is the decoded body of a leaf part.
	Content []byte
}

// Outline reads the message from r and returns one Node per part in walk
// order.
func Outline(r io.Reader) ([]Node, error) {
	var nodes []Node
	var pw PartWalker = func(depth, i int, e *gomessage.Entity) error {
		n := Node{
			Depth:    depth,
			Index:    i,
			Encoding: e.Header.Get("Content-Transfer-Encoding"),
		}
		n.MediaType, n.Params, _ = e.Header.ContentType()

		if disp, params, err := e.Header.ContentDisposition(); err == nil && disp == "attachment" {
			n.Filename = params["filename"]
		}

		if !strings.HasPrefix(n.MediaType, "multipart/") {
			content, err := io.ReadAll(e.Body)
			if err != nil {
				return fmt.Errorf("read part %d.%d: %w", depth, i, err)
			}
			n.Content = content
		}

		nodes = append(nodes, n)
		return nil
	}

	if err := pw.Walk(r); err != nil {
		return nil, err
	}
	return nodes, nil
}

// String renders the node as a single indented line.
func (n Node) String() string {
	sb := &strings.Builder{}
	sb.WriteString(strings.Repeat("  ", n.Depth))
	if n.MediaType == "" {
		sb.WriteString("(no content type)")
	} else {
		sb.WriteString(n.MediaType)
	}
	if n.Encoding != "" {
		sb.WriteString(" [" + n.Encoding + "]")
	}
	if n.Filename != "" {
		sb.WriteString(" " + n.Filename)
	}
	if n.Content != nil {
		fmt.Fprintf(sb, " (%d bytes)", len(n.Content))
	}
	return sb.String()
}
