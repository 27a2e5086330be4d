package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/hl7lint/pkg/config"
	"github.com/yaklabco/hl7lint/pkg/lint"
)

// contextIndent aligns source context under the diagnostic line.
const contextIndent = "        "

// maxContextWidth caps the source excerpt printed under a diagnostic.
const maxContextWidth = 80

// FormatDiagnostic formats a single diagnostic for terminal output. When
// sourceLine is non-empty it is printed under the diagnostic with a caret
// marking the range.
func (s *Styles) FormatDiagnostic(diag *lint.Diagnostic, ruleFormat config.RuleFormat, sourceLine string) string {
	var builder strings.Builder

	location := s.FilePath.Render(diag.FilePath) +
		s.Location.Render(fmt.Sprintf(":%d:%d", diag.StartLine, diag.StartColumn))

	ruleIdentifier := config.FormatRuleID(ruleFormat, diag.RuleID, diag.RuleName)

	fmt.Fprintf(&builder, "  %s  %s  %s", location, s.FormatSeverity(diag.Severity), s.Message.Render(diag.Message))

	if diag.Path != "" {
		builder.WriteString("  " + s.HL7Path.Render("["+diag.Path+"]"))
	}

	builder.WriteString("  " + s.RuleID.Render("("+ruleIdentifier+")") + "\n")

	if sourceLine != "" {
		width := 1
		if diag.EndLine == diag.StartLine && diag.EndColumn > diag.StartColumn {
			width = diag.EndColumn - diag.StartColumn
		}

		builder.WriteString(s.FormatSourceContext(sourceLine, diag.StartColumn, width))
	}

	if diag.Suggestion != "" {
		builder.WriteString("    " + s.Dim.Render("Suggestion:") + " " + s.Suggestion.Render(diag.Suggestion) + "\n")
	}

	return builder.String()
}

// FormatSeverity returns a styled severity string.
func (s *Styles) FormatSeverity(sev config.Severity) string {
	switch sev {
	case config.SeverityError:
		return s.Error.Render("error")
	case config.SeverityWarning:
		return s.Warning.Render("warning")
	case config.SeverityInfo:
		return s.Info.Render("info")
	default:
		return string(sev)
	}
}

// FormatSourceContext prints line with carets under width columns starting
// at the 1-based column. Long lines are cut to a window around the column.
func (s *Styles) FormatSourceContext(line string, column, width int) string {
	if column < 1 {
		return indentLine(s.SourceLine.Render(VisibleText(line)))
	}

	offset := 0
	if len(line) > maxContextWidth && column > maxContextWidth/2 {
		offset = min(column-1-maxContextWidth/4, len(line)-maxContextWidth)
		offset = max(offset, 0)
	}

	excerpt := line[offset:]
	if len(excerpt) > maxContextWidth {
		excerpt = excerpt[:maxContextWidth]
	}

	width = max(1, min(width, len(excerpt)-(column-1-offset)))

	var builder strings.Builder

	builder.WriteString(indentLine(s.SourceLine.Render(VisibleText(excerpt))))
	builder.WriteString(contextIndent + strings.Repeat(" ", column-1-offset) +
		s.Caret.Render(strings.Repeat("^", width)) + "\n")

	return builder.String()
}

// FormatFileHeader formats a file header for grouped output.
func (s *Styles) FormatFileHeader(path string, issueCount int) string {
	header := s.FilePath.Render(path)

	switch issueCount {
	case 0:
	case 1:
		header += s.Dim.Render(" (1 issue)")
	default:
		header += s.Dim.Render(fmt.Sprintf(" (%d issues)", issueCount))
	}

	return header
}

// VisibleText replaces control bytes with printable stand-ins so that a
// message line keeps its column layout on a terminal.
func VisibleText(text string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\t':
			return '→'
		case r < 0x20 || r == 0x7f:
			return '·'
		default:
			return r
		}
	}, text)
}

func indentLine(line string) string {
	return contextIndent + line + "\n"
}
