package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/hl7lint/internal/logging"
	"github.com/yaklabco/hl7lint/pkg/config"
	"github.com/yaklabco/hl7lint/pkg/lint/rules"
)

// configFilePermissions is the file mode for configuration files (world-readable).
const configFilePermissions = 0o644

type initFlags struct {
	force  bool
	full   bool
	format string
	pack   string
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create an hl7lint configuration file",
		Long: `Create a .hl7lint.yml configuration file in the current directory.

Examples:
  hl7lint init                     Create a minimal .hl7lint.yml
  hl7lint init --full              List every rule with its defaults
  hl7lint init --pack strict       Start from the strict rule pack
  hl7lint init --format toml       Create .hl7lint.toml instead
  hl7lint init -o ci/hl7lint.yml   Write to a custom path

Packs: ` + strings.Join(rules.PackNames(), ", "),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "overwrite an existing configuration file")
	cmd.Flags().BoolVar(&flags.full, "full", false, "list every rule with its description and defaults")
	cmd.Flags().StringVar(&flags.format, "format", config.TemplateYAML, "file format: yaml or toml")
	cmd.Flags().StringVar(&flags.pack, "pack", "", "write the rule settings of a pack: "+strings.Join(rules.PackNames(), ", "))
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output path (default .hl7lint.yml or .hl7lint.toml)")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	logger := logging.NewInteractive()

	if flags.format != config.TemplateYAML && flags.format != config.TemplateTOML {
		return errors.Join(errUsage, fmt.Errorf("invalid format %q: must be yaml or toml", flags.format))
	}

	outputPath := flags.output
	if outputPath == "" {
		outputPath = ".hl7lint.yml"
		if flags.format == config.TemplateTOML {
			outputPath = ".hl7lint.toml"
		}
	}

	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if _, err := os.Stat(absPath); err == nil {
		if !flags.force {
			return errors.Join(errUsage, fmt.Errorf("file %q already exists; use --force to overwrite", outputPath))
		}

		logger.Warn("overwriting existing file", logging.FieldPath, outputPath)
	}

	var content []byte

	if flags.pack != "" {
		content, err = packTemplate(flags.pack, flags.format)
	} else {
		content, err = config.GenerateTemplate(config.TemplateOptions{Full: flags.full, Format: flags.format})
	}

	if err != nil {
		return err
	}

	if err := os.WriteFile(absPath, content, configFilePermissions); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	logger.Info("created configuration file", logging.FieldPath, outputPath)

	if flags.pack != "" {
		logger.Info("rule settings from pack", logging.FieldPack, flags.pack)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Run 'hl7lint rules' to see all available rules.")

	return nil
}

// packTemplate renders the rule settings of the named pack.
func packTemplate(name, format string) ([]byte, error) {
	pack := rules.PackByName(name)
	if pack == nil {
		return nil, errors.Join(errUsage,
			fmt.Errorf("unknown pack %q; available: %s", name, strings.Join(rules.PackNames(), ", ")))
	}

	cfg := &config.Config{Rules: pack.Rules}

	var (
		body []byte
		err  error
	)

	if format == config.TemplateTOML {
		body, err = cfg.ToTOML()
	} else {
		body, err = cfg.ToYAML()
	}

	if err != nil {
		return nil, fmt.Errorf("encode pack: %w", err)
	}

	header := fmt.Sprintf("%s\n# Pack %q: %s\n\n", config.DefaultTemplateHeader(), pack.Name, pack.Description)

	return append([]byte(header), body...), nil
}
