package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/hl7lint/internal/logging"
	"github.com/yaklabco/hl7lint/internal/ui/pretty"
	"github.com/yaklabco/hl7lint/pkg/fsutil"
	"github.com/yaklabco/hl7lint/pkg/hl7ast"
	"github.com/yaklabco/hl7lint/pkg/parser/er7"
	"github.com/yaklabco/hl7lint/pkg/treefmt"
)

// stdinName is the path argument that reads the message from stdin.
const stdinName = "-"

type parseFlags struct {
	format     string
	path       string
	depth      int
	delimiters bool
	output     string
}

func newParseCommand() *cobra.Command {
	flags := &parseFlags{}

	formats := make([]string, 0, len(treefmt.Formats()))
	for _, f := range treefmt.Formats() {
		formats = append(formats, string(f))
	}

	cmd := &cobra.Command{
		Use:   "parse <file|->",
		Short: "Print the parse tree of a message",
		Long: `Parse one HL7 v2 message and print its tree.

The text format draws an outline for the terminal. json, yaml and cbor
serialize the same tree for other tools; cbor output is canonical, so equal
trees produce identical bytes.

Examples:
  hl7lint parse adt_a01.hl7
  hl7lint parse adt_a01.hl7 --path PID-5        # Only the patient name
  hl7lint parse adt_a01.hl7 --depth 2           # Segments and fields only
  cat msg.hl7 | hl7lint parse - --format json
  hl7lint parse msg.hl7 --format cbor -o msg.cbor`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.format, "format", "f", "text", "output format: "+strings.Join(formats, ", "))
	cmd.Flags().StringVarP(&flags.path, "path", "p", "", "print only the nodes at this HL7 path, e.g. PID-3[1].1")
	cmd.Flags().IntVar(&flags.depth, "depth", 0, "stop descending below this depth (0 = unlimited)")
	cmd.Flags().BoolVar(&flags.delimiters, "delimiters", false, "include delimiter leaves")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "write to this file instead of stdout")

	return cmd
}

func runParse(cmd *cobra.Command, name string, flags *parseFlags) error {
	ctx := commandContext(cmd)
	logger := logging.Default()

	format, err := treefmt.ParseFormat(flags.format)
	if err != nil {
		return errors.Join(errUsage, err)
	}

	opts := treefmt.WriteOptions{
		Options: treefmt.Options{MaxDepth: flags.depth, Delimiters: flags.delimiters},
		Format:  format,
	}

	if flags.path != "" {
		path, err := hl7ast.ParsePath(flags.path)
		if err != nil {
			return errors.Join(errUsage, err)
		}

		opts.Select = &path
	}

	content, err := readMessage(cmd, name)
	if err != nil {
		return err
	}

	snap, err := er7.New().Parse(ctx, name, content)
	if err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}

	logger.Debug("parsed",
		logging.FieldPath, name,
		logging.FieldBytes, len(content),
		logging.FieldSegments, len(snap.Segments),
		logging.FieldDelimiters, snap.Delimiters.String(),
		logging.FieldIssues, len(snap.Issues()),
	)

	var w io.Writer = cmd.OutOrStdout()

	if flags.output != "" {
		f, err := os.Create(flags.output)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}

		defer f.Close()

		w = f
	} else if format.IsBinary() && isTerminal(w) {
		return errors.Join(errUsage, fmt.Errorf("refusing to write %s to a terminal; use --output", format))
	}

	if format == treefmt.FormatText {
		opts.Styles = pretty.NewStyles(pretty.IsColorEnabled(colorMode(cmd), w))
		opts.Width = pretty.TerminalWidth(w)
	}

	if err := treefmt.Write(w, snap, opts); err != nil {
		return fmt.Errorf("write tree: %w", err)
	}

	return nil
}

// readMessage reads the named file, or stdin for "-".
func readMessage(cmd *cobra.Command, name string) ([]byte, error) {
	if name == stdinName {
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}

		return content, nil
	}

	content, _, err := fsutil.ReadFile(commandContext(cmd), name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	return content, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)

	return ok && term.IsTerminal(int(f.Fd()))
}
