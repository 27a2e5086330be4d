package pretty

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/yaklabco/hl7lint/pkg/runner"
)

const summaryDividerWidth = 40

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}

	return fmt.Sprintf("%d %s", n, many)
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "12 issues (8 errors, 4 warnings) in 3 files, 6 fixable".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	var parts []string

	if stats.DiagnosticsTotal == 0 {
		parts = append(parts, s.Success.Render("No issues found")+
			s.Dim.Render(fmt.Sprintf(" (%s checked)", plural(stats.FilesProcessed, "file", "files"))))
	} else {
		var bySeverity []string
		if n := stats.Errors(); n > 0 {
			bySeverity = append(bySeverity, s.Error.Render(plural(n, "error", "errors")))
		}

		if n := stats.Warnings(); n > 0 {
			bySeverity = append(bySeverity, s.Warning.Render(plural(n, "warning", "warnings")))
		}

		if n := stats.Infos(); n > 0 {
			bySeverity = append(bySeverity, s.Info.Render(fmt.Sprintf("%d info", n)))
		}

		total := plural(stats.DiagnosticsTotal, "issue", "issues")
		if len(bySeverity) > 0 {
			total += " (" + strings.Join(bySeverity, ", ") + ")"
		}

		parts = append(parts, total+" in "+plural(stats.FilesWithIssues, "file", "files"))

		if stats.DiagnosticsFixable > 0 {
			parts = append(parts, s.Success.Render(fmt.Sprintf("%d fixable", stats.DiagnosticsFixable)))
		}
	}

	if stats.DiagnosticsFixed > 0 {
		parts = append(parts, s.Success.Render(fmt.Sprintf("%d fixed in %s",
			stats.DiagnosticsFixed, plural(stats.FilesModified, "file", "files"))))
	}

	if stats.FilesErrored > 0 {
		parts = append(parts, s.Failure.Render(plural(stats.FilesErrored, "file", "files")+" failed"))
	}

	return strings.Join(parts, ", ") + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	row := func(label string, style func(...string) string, n int) {
		fmt.Fprintf(&builder, "  %-19s%s\n", label, style(strconv.Itoa(n)))
	}

	builder.WriteString("\n" + s.SummaryTitle.Render("Summary") + "\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth) + "\n")

	row("Files checked:", s.SummaryValue.Render, stats.FilesProcessed)

	if stats.FilesWithIssues > 0 {
		row("Files with issues:", s.Failure.Render, stats.FilesWithIssues)
	}

	if stats.FilesModified > 0 {
		row("Files modified:", s.Success.Render, stats.FilesModified)
	}

	if stats.FilesSkipped > 0 {
		row("Files skipped:", s.Warning.Render, stats.FilesSkipped)
	}

	if stats.FilesErrored > 0 {
		row("Files failed:", s.Failure.Render, stats.FilesErrored)
	}

	builder.WriteString("\n")
	row("Total issues:", s.SummaryValue.Render, stats.DiagnosticsTotal)

	if n := stats.Errors(); n > 0 {
		row("  Errors:", s.Error.Render, n)
	}

	if n := stats.Warnings(); n > 0 {
		row("  Warnings:", s.Warning.Render, n)
	}

	if n := stats.Infos(); n > 0 {
		row("  Info:", s.Info.Render, n)
	}

	if stats.Reparses > 0 {
		row("Reparses:", s.Dim.Render, stats.Reparses)
	}

	if stats.Duration > 0 {
		fmt.Fprintf(&builder, "  %-19s%s\n", "Duration:", s.Dim.Render(stats.Duration.Round(time.Millisecond).String()))
	}

	builder.WriteString("\n")

	switch {
	case stats.Errors() > 0 || stats.FilesErrored > 0:
		builder.WriteString(s.Failure.Render("Lint failed with errors"))
	case stats.Warnings() > 0:
		builder.WriteString(s.Warning.Render("Lint completed with warnings"))
	default:
		builder.WriteString(s.Success.Render("Lint passed"))
	}

	builder.WriteString("\n")

	return builder.String()
}
