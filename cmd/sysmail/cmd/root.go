// Package cmd holds the sysmail command line.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/zostay/sysmail/config"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	envFiles   []string
	logLevel   string
	logFormat  string
}

// NewRootCommand returns the sysmail command with its subcommands attached.
func NewRootCommand() *cobra.Command {
	g := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:           "sysmail",
		Short:         "Compose MIME messages and hand them to a mail transport",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&g.configPath, "config", "c", "", "TOML settings file")
	pf.StringArrayVar(&g.envFiles, "env-file", []string{".env"}, "dotenv file to load before reading the environment")
	pf.StringVar(&g.logLevel, "log-level", "", "log level: debug, info, warn or error")
	pf.StringVar(&g.logFormat, "log-format", "", "log format: text or json")

	rootCmd.AddCommand(newSendCommand(g))
	rootCmd.AddCommand(newInspectCommand())

	return rootCmd
}

// Execute runs the sysmail command.
func Execute() error {
	return NewRootCommand().Execute()
}

// settings loads the settings in order of precedence and applies the
// command line overrides given by modify before validating.
func (g *globalFlags) settings(modify func(*config.Settings)) (*config.Settings, error) {
	s := config.Default()

	if g.configPath != "" {
		if err := s.LoadFile(g.configPath); err != nil {
			return nil, err
		}
	}

	if err := config.LoadEnvFiles(g.envFiles...); err != nil {
		return nil, err
	}

	if err := s.LoadEnv(); err != nil {
		return nil, err
	}

	if g.logLevel != "" {
		s.LogLevel = g.logLevel
	}
	if g.logFormat != "" {
		s.LogFormat = g.logFormat
	}
	if modify != nil {
		modify(s)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}
