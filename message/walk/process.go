package walk

import (
	"strings"

	"github.com/zostay/sysmail/message"
)

// Processor is a callback that can be passed to the AndProcess() function to
// do any kind of generic processing of a planned message and its sub-parts.
//
// The Processor is given a part and the ancestry of the part. If
// len(parents) is zero, then this is the top-level part.
//
// The Processor may return an error to cause AndProcess() to terminate
// immediately and return that error.
type Processor func(part message.Part, parents []message.Part) error

// AndProcess will walk the parts tree of a planned message and call the given
// Processor function for each part found, parents before children. It will
// terminate once all parts have been processed and return nil. If the
// Processor function returns an error, it will terminate early and return
// that error. A nil part is not processed.
func AndProcess(
	processor Processor,
	msg message.Part,
) error {
	if msg == nil {
		return nil
	}
	parents := make([]message.Part, 0, 10)
	return andProcess(processor, msg, parents)
}

func andProcess(
	processor Processor,
	part message.Part,
	parents []message.Part,
) error {
	err := processor(part, parents)
	if err != nil {
		return err
	}

	if part.IsMultipart() {
		parents = append(parents, part)
		for _, subPart := range part.GetParts() {
			err := andProcess(processor, subPart, parents)
			if err != nil {
				return err
			}
		}
	}

	return nil
}

// Describe returns one line per part, indented two spaces per level, naming
// the media type or attachment filename. It returns "(headers only)" for a
// nil part.
func Describe(msg message.Part) string {
	if msg == nil {
		return "(headers only)\n"
	}

	sb := &strings.Builder{}
	_ = AndProcess(func(part message.Part, parents []message.Part) error {
		sb.WriteString(strings.Repeat("  ", len(parents)))
		if e, isEnclosure := part.(*message.Enclosure); isEnclosure {
			sb.WriteString("attachment " + e.Attachment.Filename())
		} else {
			sb.WriteString(part.MediaType())
		}
		sb.WriteString("\n")
		return nil
	}, msg)
	return sb.String()
}
