// Package pretty renders styled terminal output with lipgloss.
package pretty

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// DefaultWidth is used when the output is not a terminal.
const DefaultWidth = 100

// Styles contains all styled renderers for CLI output.
type Styles struct {
	// Severity styles
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	// Diagnostic components
	FilePath   lipgloss.Style
	Location   lipgloss.Style
	HL7Path    lipgloss.Style
	RuleID     lipgloss.Style
	Message    lipgloss.Style
	Suggestion lipgloss.Style
	SourceLine lipgloss.Style
	Caret      lipgloss.Style

	// Summary styles
	SummaryTitle lipgloss.Style
	SummaryValue lipgloss.Style
	Success      lipgloss.Style
	Failure      lipgloss.Style

	// Table styles
	TableHeader    lipgloss.Style
	TableSeparator lipgloss.Style
	TableFixable   lipgloss.Style
	TableDisabled  lipgloss.Style

	// Tree styles
	TreeGuide     lipgloss.Style
	TreeContainer lipgloss.Style
	TreeLiteral   lipgloss.Style
	TreeDelimiter lipgloss.Style
	TreeError     lipgloss.Style
	TreeRange     lipgloss.Style

	// Misc
	Dim  lipgloss.Style
	Bold lipgloss.Style
}

// NewStyles creates a new Styles with the given color mode.
func NewStyles(colorEnabled bool) *Styles {
	if !colorEnabled {
		return newNoColorStyles()
	}

	return newColorStyles()
}

func newColorStyles() *Styles {
	color := func(c string) lipgloss.Style { return lipgloss.NewStyle().Foreground(lipgloss.Color(c)) }

	return &Styles{
		Error:   color("9").Bold(true),
		Warning: color("11").Bold(true),
		Info:    color("12").Bold(true),

		FilePath:   lipgloss.NewStyle().Bold(true),
		Location:   color("8"),
		HL7Path:    color("14"),
		RuleID:     color("8"),
		Message:    lipgloss.NewStyle(),
		Suggestion: color("10").Italic(true),
		SourceLine: color("7"),
		Caret:      color("9"),

		SummaryTitle: lipgloss.NewStyle().Bold(true),
		SummaryValue: lipgloss.NewStyle(),
		Success:      color("10").Bold(true),
		Failure:      color("9").Bold(true),

		TableHeader:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7")),
		TableSeparator: color("8"),
		TableFixable:   color("10"),
		TableDisabled:  color("8").Italic(true),

		TreeGuide:     color("8"),
		TreeContainer: color("12"),
		TreeLiteral:   color("7"),
		TreeDelimiter: color("13"),
		TreeError:     color("9").Bold(true),
		TreeRange:     color("8"),

		Dim:  color("8"),
		Bold: lipgloss.NewStyle().Bold(true),
	}
}

func newNoColorStyles() *Styles {
	plain := lipgloss.NewStyle()

	return &Styles{
		Error:          plain,
		Warning:        plain,
		Info:           plain,
		FilePath:       plain,
		Location:       plain,
		HL7Path:        plain,
		RuleID:         plain,
		Message:        plain,
		Suggestion:     plain,
		SourceLine:     plain,
		Caret:          plain,
		SummaryTitle:   plain,
		SummaryValue:   plain,
		Success:        plain,
		Failure:        plain,
		TableHeader:    plain,
		TableSeparator: plain,
		TableFixable:   plain,
		TableDisabled:  plain,
		TreeGuide:      plain,
		TreeContainer:  plain,
		TreeLiteral:    plain,
		TreeDelimiter:  plain,
		TreeError:      plain,
		TreeRange:      plain,
		Dim:            plain,
		Bold:           plain,
	}
}

// IsColorEnabled determines if color should be enabled based on mode and writer.
// Mode values: "auto" (default), "always", "never".
// In auto mode, color is enabled only if the writer is a TTY and NO_COLOR is not set.
func IsColorEnabled(mode string, writer io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		// https://no-color.org/
		if os.Getenv("NO_COLOR") != "" {
			return false
		}

		if f, ok := writer.(*os.File); ok {
			return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}

		return false
	}
}

// TerminalWidth returns the column count of writer when it is a terminal,
// and DefaultWidth otherwise.
func TerminalWidth(writer io.Writer) int {
	f, ok := writer.(*os.File)
	if !ok {
		return DefaultWidth
	}

	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return DefaultWidth
	}

	return width
}
