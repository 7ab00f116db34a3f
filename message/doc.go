// Package message composes MIME messages from a Spec and hands them to a
// transport.
//
// Plan decides the structure: a single text part, a multipart/alternative of
// several renderings or a multipart/mixed carrying attachments. A Compiler
// writes that structure into a storage.Buffer, choosing 8bit or base64 for
// each body by line length and asking its Sniffer and Encoder to type and
// encode each attachment. Deliver does both and then sends:
//
//	s := &message.Spec{
//	  From:    "sterling@example.com",
//	  To:      []string{"Иван <ivan@example.com>"},
//	  Subject: "Отчёт",
//	}
//	s.SetBody(message.Text, "See attached.")
//	s.Attach(message.AttachPath("report.pdf"))
//
//	c := message.NewCompiler(sendmail.New(nil, nil))
//	err := c.Deliver(ctx, s)
package message
