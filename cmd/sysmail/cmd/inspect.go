package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/zostay/sysmail/message/walker"
)

func newInspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [message]",
		Short: "Print the part structure of a composed message",
		Long: `Print one line per part of a message read from the named file or from
standard input: the media type, transfer encoding, attachment filename and
decoded size.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runInspect,
	}
}

func runInspect(cmd *cobra.Command, args []string) error {
	var r io.Reader = cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	nodes, err := walker.Outline(r)
	if err != nil {
		return fmt.Errorf("inspect: %w", err)
	}

	out := cmd.OutOrStdout()
	for _, n := range nodes {
		if _, err := fmt.Fprintln(out, n.String()); err != nil {
			return err
		}
	}
	return nil
}
