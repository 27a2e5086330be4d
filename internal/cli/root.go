// Package cli provides the Cobra command structure for hl7lint.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/hl7lint/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root hl7lint command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var (
		debug      bool
		configPath string
		color      string
	)

	rootCmd := &cobra.Command{
		Use:   "hl7lint",
		Short: "A fast, self-fixing linter and parser for HL7 v2 messages",
		Long: `hl7lint parses HL7 v2 messages in ER7 encoding and checks their structure.

Delimiters are read from each message's MSH header. Malformed segments are
kept in the tree with error nodes, so a single bad escape or a missing
terminator is reported without losing the rest of the message. Fixable
findings, such as line-feed terminators, can be rewritten in place.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	rootCmd.AddCommand(newLintCommand())
	rootCmd.AddCommand(newParseCommand())
	rootCmd.AddCommand(newWatchCommand())
	rootCmd.AddCommand(newLSPCommand(info))
	rootCmd.AddCommand(newServeCommand(info))
	rootCmd.AddCommand(newRulesCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	NewHelpFormatter(color, os.Stdout).ApplyToCommand(rootCmd)

	return rootCmd
}
