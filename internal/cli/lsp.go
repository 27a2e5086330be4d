package cli

import (
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"github.com/yaklabco/hl7lint/pkg/config"
	"github.com/yaklabco/hl7lint/pkg/lsp"
)

type lspFlags struct {
	logFile   string
	verbosity int
	trace     bool
}

func newLSPCommand(info BuildInfo) *cobra.Command {
	flags := &lspFlags{}

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Run the language server on stdin and stdout",
		Long: `Run a Language Server Protocol server for HL7 v2 messages over stdio.

Editors get diagnostics from the lint rules, hover with the HL7 path and
decoded value of the node under the cursor, an outline of segments and
fields, and inlay hints numbering every field. Edits are applied
incrementally, so only the segments an edit touches are parsed again.

Logs go to stderr unless --log-file names a file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLSP(cmd, info, flags)
		},
	}

	cmd.Flags().StringVar(&flags.logFile, "log-file", "", "write server logs to this file")
	cmd.Flags().CountVarP(&flags.verbosity, "verbose", "v", "log verbosity (repeat for more)")
	cmd.Flags().BoolVar(&flags.trace, "trace", false, "log every JSON-RPC message")

	return cmd
}

func runLSP(cmd *cobra.Command, info BuildInfo, flags *lspFlags) error {
	// Stdout carries the protocol, so logs go to stderr or the log file.
	if flags.logFile != "" {
		commonlog.Configure(flags.verbosity, &flags.logFile)
	} else {
		commonlog.Configure(flags.verbosity, nil)
	}

	cfg, _, err := loadConfig(cmd, &config.Config{})
	if err != nil {
		return err
	}

	server := lsp.New(lsp.Options{
		Version: info.Version,
		Config:  cfg,
		Debug:   flags.trace,
	})

	return server.RunStdio()
}
