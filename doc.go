// Package sysmail composes MIME email messages and hands them to a delivery
// transport. It is meant for programs that need to send the occasional report
// or alert with attachments without running a mail library of their own.
//
// The message package holds the compiler. It decides whether a message is a
// single part, a multipart/alternative of several bodies or a
// multipart/mixed carrying attachments, chooses a transfer encoding for each
// part and writes the result into a storage.Buffer. The buffer keeps small
// messages in memory and moves to a file as soon as an attachment is
// appended to it by an encoder, so large attachments never pass through
// memory.
//
// The finished message is delivered by one of the transports: a local
// sendmail, an SMTP relay, Amazon SES or a plain writer for dry runs. New
// wires all of these together from config.Settings:
//
//	s, err := config.Load("/etc/sysmail.toml")
//	if err != nil {
//		return err
//	}
//
//	c, err := sysmail.New(ctx, s)
//	if err != nil {
//		return err
//	}
//
//	spec := &message.Spec{To: []string{"ops@example.com"}, Subject: "backup"}
//	spec.SetBody(message.Text, "The nightly backup finished.")
//	spec.Attach(message.AttachPath("/var/log/backup.log"))
//
//	return c.Deliver(ctx, spec)
package sysmail
