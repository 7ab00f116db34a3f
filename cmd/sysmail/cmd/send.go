package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/zostay/sysmail"
	"github.com/zostay/sysmail/config"
	"github.com/zostay/sysmail/message"
	"github.com/zostay/sysmail/message/header"
	"github.com/zostay/sysmail/message/walk"
	"github.com/zostay/sysmail/transport/stdout"
)

type sendFlags struct {
	from      string
	to        []string
	subject   string
	text      string
	html      string
	enriched  string
	attach    []string
	date      string
	now       bool
	messageID string
	msgDomain string
	transport string
	dryRun    bool
	plan      bool
}

func newSendCommand(g *globalFlags) *cobra.Command {
	f := &sendFlags{}

	sendCmd := &cobra.Command{
		Use:   "send",
		Short: "Compose a message and deliver it",
		Long: `Compose a message and deliver it with the configured transport.

Body flags take the body text directly. A value starting with @ names a file
to read the body from, and - reads it from standard input.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSend(cmd, g, f)
		},
	}

	fl := sendCmd.Flags()
	fl.StringVarP(&f.from, "from", "f", "", "sender address")
	fl.StringArrayVarP(&f.to, "to", "t", nil, "recipient address (repeatable)")
	fl.StringVarP(&f.subject, "subject", "s", "", "subject line")
	fl.StringVar(&f.text, "text", "", "text/plain body")
	fl.StringVar(&f.html, "html", "", "text/html body")
	fl.StringVar(&f.enriched, "enriched", "", "text/enriched body")
	fl.StringArrayVarP(&f.attach, "attach", "a", nil, "file to attach (repeatable)")
	fl.StringVar(&f.date, "date", "", "value of the Date header")
	fl.BoolVar(&f.now, "now", false, "set the Date header to the current time")
	fl.StringVar(&f.messageID, "message-id", "", "value of the Message-ID header")
	fl.StringVar(&f.msgDomain, "generate-message-id", "", "generate a Message-ID in the given domain")
	fl.StringVar(&f.transport, "transport", "", "transport: sendmail, smtp, ses or stdout")
	fl.BoolVarP(&f.dryRun, "dry-run", "n", false, "write the message to standard output instead of delivering it")
	fl.BoolVar(&f.plan, "plan", false, "print the part structure and exit")

	_ = sendCmd.MarkFlagRequired("to")
	sendCmd.MarkFlagsMutuallyExclusive("date", "now")
	sendCmd.MarkFlagsMutuallyExclusive("message-id", "generate-message-id")

	return sendCmd
}

func runSend(cmd *cobra.Command, g *globalFlags, f *sendFlags) error {
	spec, err := f.spec(cmd.InOrStdin())
	if err != nil {
		return err
	}

	if f.plan {
		_, err := fmt.Fprint(cmd.OutOrStdout(), walk.Describe(message.Plan(spec)))
		return err
	}

	s, err := g.settings(func(s *config.Settings) {
		if f.transport != "" {
			s.Transport = f.transport
		}
		if f.dryRun {
			s.Transport = stdout.Name
		}
	})
	if err != nil {
		return err
	}

	logger, err := s.Logger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	c, err := sysmail.New(cmd.Context(), s,
		sysmail.WithLogger(logger),
		sysmail.WithOutput(cmd.OutOrStdout()))
	if err != nil {
		return err
	}

	return c.Deliver(cmd.Context(), spec)
}

func (f *sendFlags) spec(stdin io.Reader) (*message.Spec, error) {
	spec := &message.Spec{
		From:      f.from,
		To:        f.to,
		Subject:   f.subject,
		MessageID: f.messageID,
	}

	if f.msgDomain != "" {
		spec.MessageID = header.GenerateMessageID(f.msgDomain)
	}

	switch {
	case f.now:
		spec.Date = time.Now()
	case f.date != "":
		d, err := header.ParseTime(f.date)
		if err != nil {
			return nil, fmt.Errorf("--date: %w", err)
		}
		spec.Date = d
	}

	bodies := []struct {
		kind  message.BodyKind
		value string
	}{
		{message.Text, f.text},
		{message.Enriched, f.enriched},
		{message.HTML, f.html},
	}
	for _, b := range bodies {
		if b.value == "" {
			continue
		}
		content, err := readBody(b.value, stdin)
		if err != nil {
			return nil, fmt.Errorf("--%s: %w", b.kind, err)
		}
		spec.SetBody(b.kind, content)
	}

	for _, path := range f.attach {
		spec.Attach(message.AttachPath(path))
	}

	return spec, spec.Validate()
}

// readBody resolves the @file and - forms of a body flag.
func readBody(v string, stdin io.Reader) (string, error) {
	switch {
	case v == "-":
		b, err := io.ReadAll(stdin)
		return string(b), err
	case strings.HasPrefix(v, "@"):
		b, err := os.ReadFile(v[1:])
		return string(b), err
	}
	return v, nil
}
