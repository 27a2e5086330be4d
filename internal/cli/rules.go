package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/yaklabco/hl7lint/internal/ui/pretty"
	"github.com/yaklabco/hl7lint/pkg/config"
	"github.com/yaklabco/hl7lint/pkg/lint"
	"github.com/yaklabco/hl7lint/pkg/lint/rules"
)

type rulesFlags struct {
	format string
	tag    string
}

const formatJSON = "json"

// ruleJSON represents a rule in JSON output.
type ruleJSON struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Severity    string   `json:"severity"`
	Enabled     bool     `json:"enabled"`
	Fixable     bool     `json:"fixable"`
	Tags        []string `json:"tags,omitempty"`
}

func newRulesCommand() *cobra.Command {
	flags := &rulesFlags{}

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List available lint rules",
		Long: `List all available lint rules with their IDs, descriptions,
default severity, and whether they support auto-fixing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRules(cmd, lint.DefaultRegistry, flags)
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json")
	cmd.Flags().StringVar(&flags.tag, "tag", "", "only list rules with this tag")

	return cmd
}

func runRules(cmd *cobra.Command, registry *lint.Registry, flags *rulesFlags) error {
	infos := rules.RuleInfos(registry)

	if flags.tag != "" {
		filtered := infos[:0:0]

		for _, info := range infos {
			if slices.Contains(info.Tags, flags.tag) {
				filtered = append(filtered, info)
			}
		}

		infos = filtered
	}

	out := cmd.OutOrStdout()

	switch flags.format {
	case formatJSON:
		return writeRulesJSON(out, infos)
	case "text", "":
	default:
		return errors.Join(errUsage, fmt.Errorf("unknown format %q; valid formats: text, json", flags.format))
	}

	styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode(cmd), out))

	if _, err := io.WriteString(out, pretty.NewRulesTable(styles, pretty.TerminalWidth(out)).Format(infos)); err != nil {
		return fmt.Errorf("write rules: %w", err)
	}

	return nil
}

func writeRulesJSON(w io.Writer, infos []config.RuleInfo) error {
	out := make([]ruleJSON, 0, len(infos))

	for _, info := range infos {
		out = append(out, ruleJSON{
			ID:          info.ID,
			Name:        info.Name,
			Description: info.Description,
			Severity:    string(info.Severity),
			Enabled:     info.Enabled,
			Fixable:     info.CanFix,
			Tags:        info.Tags,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encoding rules: %w", err)
	}

	return nil
}
