package cli

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yaklabco/hl7lint/internal/ui/pretty"
)

// HelpStyles holds the lipgloss styles used when rendering command help.
type HelpStyles struct {
	Command    lipgloss.Style
	Heading    lipgloss.Style
	Subcommand lipgloss.Style
	Flag       lipgloss.Style
	Dim        lipgloss.Style
}

// NewHelpStyles returns colored styles, or plain ones when color is off.
func NewHelpStyles(colorEnabled bool) HelpStyles {
	plain := lipgloss.NewStyle()
	if !colorEnabled {
		return HelpStyles{Command: plain, Heading: plain, Subcommand: plain, Flag: plain, Dim: plain}
	}

	return HelpStyles{
		Command:    plain.Foreground(lipgloss.Color("14")).Bold(true),
		Heading:    plain.Foreground(lipgloss.Color("11")).Bold(true),
		Subcommand: plain.Foreground(lipgloss.Color("10")),
		Flag:       plain.Foreground(lipgloss.Color("12")),
		Dim:        plain.Foreground(lipgloss.Color("8")),
	}
}

// HelpFormatter renders cobra help and usage text with HelpStyles.
type HelpFormatter struct {
	colorMode string
	writer    io.Writer
}

// NewHelpFormatter creates a formatter. The --color flag, when set on the
// invoked command, takes precedence over colorMode.
func NewHelpFormatter(colorMode string, writer io.Writer) *HelpFormatter {
	return &HelpFormatter{colorMode: colorMode, writer: writer}
}

const usageTemplate = `{{heading "Usage:"}}
{{- if .Runnable}}
  {{command .UseLine}}{{end}}
{{- if .HasAvailableSubCommands}}
  {{command .CommandPath}} [command]{{end}}
{{- if gt (len .Aliases) 0}}

{{heading "Aliases:"}}
  {{dim (join .Aliases ", ")}}{{end}}
{{- if .HasExample}}

{{heading "Examples:"}}
{{dim .Example}}{{end}}
{{- if .HasAvailableSubCommands}}

{{heading "Commands:"}}
{{- range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{subcommand (rpad .Name .NamePadding)}} {{.Short}}{{end}}{{end}}{{end}}
{{- if .HasAvailableLocalFlags}}

{{heading "Flags:"}}
{{flags .LocalFlags}}{{end}}
{{- if .HasAvailableInheritedFlags}}

{{heading "Global Flags:"}}
{{flags .InheritedFlags}}{{end}}
{{- if .HasAvailableSubCommands}}

Use "{{command (print .CommandPath " [command] --help")}}" for more about a command.{{end}}
`

const helpTemplate = `{{with (or .Long .Short)}}{{trimRight .}}

{{end}}` + usageTemplate

// flagLine splits a pflag usage line into indent, names and description.
var flagLine = regexp.MustCompile(`^(\s*)(\S.*?)(\s{2,})(\S.*)$`)

// ApplyToCommand installs styled help and usage functions on cmd. Cobra
// inherits them into every subcommand.
func (h *HelpFormatter) ApplyToCommand(cmd *cobra.Command) {
	render := func(command *cobra.Command, name, text string) error {
		tmpl, err := template.New(name).Funcs(h.funcs(command)).Parse(text)
		if err != nil {
			return fmt.Errorf("parse %s template: %w", name, err)
		}

		return tmpl.Execute(command.OutOrStdout(), command)
	}

	cmd.SetUsageFunc(func(command *cobra.Command) error {
		return render(command, "usage", usageTemplate)
	})
	cmd.SetHelpFunc(func(command *cobra.Command, _ []string) {
		if err := render(command, "help", helpTemplate); err != nil {
			command.PrintErrln(err)
		}
	})
}

func (h *HelpFormatter) funcs(command *cobra.Command) template.FuncMap {
	mode := h.colorMode
	if flag := command.Flag("color"); flag != nil && flag.Changed {
		mode = flag.Value.String()
	}

	writer := h.writer
	if writer == nil {
		writer = command.OutOrStdout()
	}

	styles := NewHelpStyles(pretty.IsColorEnabled(mode, writer))

	return template.FuncMap{
		"command":    styles.Command.Render,
		"heading":    styles.Heading.Render,
		"subcommand": styles.Subcommand.Render,
		"dim":        styles.Dim.Render,
		"join":       strings.Join,
		"trimRight":  func(s string) string { return strings.TrimRight(s, " \t\n") },
		"rpad":       func(s string, n int) string { return fmt.Sprintf("%-*s", n, s) },
		"flags":      func(fs *pflag.FlagSet) string { return styleFlags(styles, fs.FlagUsages()) },
	}
}

// styleFlags colors flag names and dims their value types.
func styleFlags(styles HelpStyles, usages string) string {
	lines := strings.Split(strings.TrimRight(usages, "\n"), "\n")

	for i, line := range lines {
		m := flagLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		names := strings.Fields(m[2])
		for j, name := range names {
			if strings.HasPrefix(name, "-") {
				names[j] = styles.Flag.Render(strings.TrimSuffix(name, ","))
				if strings.HasSuffix(name, ",") {
					names[j] += ","
				}
			} else {
				names[j] = styles.Dim.Render(name)
			}
		}

		lines[i] = m[1] + strings.Join(names, " ") + m[3] + m[4]
	}

	return strings.Join(lines, "\n")
}
