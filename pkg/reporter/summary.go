package reporter

import (
	"bufio"
	"cmp"
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/yaklabco/hl7lint/internal/ui/pretty"
	"github.com/yaklabco/hl7lint/pkg/config"
	"github.com/yaklabco/hl7lint/pkg/runner"
)

// Summary table layout.
const (
	tableWidth        = 78
	labelColWidth     = 40
	numColWidth       = 8
	maxLabelLength    = 38
	summaryRuleTitle  = "Rules"
	summaryFilesTitle = "Files"
)

// Tally counts diagnostics for one rule or one file.
type Tally struct {
	Label    string
	Issues   int
	Errors   int
	Warnings int
	Infos    int
	Fixable  int
}

func (t *Tally) add(sev config.Severity, fixable bool) {
	t.Issues++

	switch sev {
	case config.SeverityError:
		t.Errors++
	case config.SeverityInfo:
		t.Infos++
	default:
		t.Warnings++
	}

	if fixable {
		t.Fixable++
	}
}

// Tallies groups the diagnostics of result by rule and by file. Both lists
// are ordered by issue count, most first, then by label.
func Tallies(result *runner.Result, ruleFormat config.RuleFormat, displayPath func(string) string) (byRule, byFile []Tally) {
	rules := map[string]*Tally{}

	for _, file := range result.Files {
		if file.Result == nil || file.Result.FileResult == nil || len(file.Result.Diagnostics) == 0 {
			continue
		}

		ft := Tally{Label: displayPath(file.Path)}

		for _, diag := range file.Result.Diagnostics {
			label := config.FormatRuleID(ruleFormat, diag.RuleID, diag.RuleName)

			rt, ok := rules[label]
			if !ok {
				rt = &Tally{Label: label}
				rules[label] = rt
			}

			rt.add(diag.Severity, diag.HasFix())
			ft.add(diag.Severity, diag.HasFix())
		}

		byFile = append(byFile, ft)
	}

	for _, rt := range rules {
		byRule = append(byRule, *rt)
	}

	order := func(a, b Tally) int {
		return cmp.Or(cmp.Compare(b.Issues, a.Issues), cmp.Compare(a.Label, b.Label))
	}

	slices.SortFunc(byRule, order)
	slices.SortFunc(byFile, order)

	return byRule, byFile
}

// SummaryReporter prints per-rule and per-file tables instead of individual
// diagnostics.
type SummaryReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewSummaryReporter creates a new summary reporter.
func NewSummaryReporter(opts Options) *SummaryReporter {
	return &SummaryReporter{
		opts:   opts,
		styles: pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.Writer)),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *SummaryReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || result.Stats.DiagnosticsTotal == 0 {
		fmt.Fprintln(r.bw, r.styles.Success.Render("No issues found"))

		if result != nil && r.opts.ShowSummary {
			fmt.Fprint(r.bw, r.styles.FormatSummary(result.Stats))
		}

		return 0, nil
	}

	byRule, byFile := Tallies(result, r.opts.RuleFormat, r.opts.displayPath)

	r.table(summaryRuleTitle, byRule, true)
	fmt.Fprintln(r.bw)
	r.table(summaryFilesTitle, byFile, false)

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummary(result.Stats))
	}

	return result.Stats.DiagnosticsTotal, nil
}

func (r *SummaryReporter) table(title string, rows []Tally, trimRight bool) {
	rule := r.styles.TableSeparator.Render(strings.Repeat("─", tableWidth))

	fmt.Fprintln(r.bw, r.styles.Bold.Render(title))
	fmt.Fprintln(r.bw, rule)
	fmt.Fprintln(r.bw, r.styles.TableHeader.Render(padRight(title[:len(title)-1], labelColWidth)+
		padLeft("Issues", numColWidth)+padLeft("Errors", numColWidth)+
		padLeft("Warnings", numColWidth+2)+padLeft("Fixable", numColWidth+2)))
	fmt.Fprintln(r.bw, rule)

	for _, row := range rows {
		label := row.Label
		if len(label) > maxLabelLength {
			if trimRight {
				label = label[:maxLabelLength-1] + "…"
			} else {
				label = "…" + label[len(label)-(maxLabelLength-1):]
			}
		}

		// Pad before styling so escape codes do not skew the columns.
		styled := padRight(label, labelColWidth)

		switch {
		case row.Errors > 0:
			styled = r.styles.Error.Render(styled)
		case row.Warnings > 0:
			styled = r.styles.Warning.Render(styled)
		}

		fmt.Fprintln(r.bw, styled+
			padLeft(strconv.Itoa(row.Issues), numColWidth)+
			padLeft(strconv.Itoa(row.Errors), numColWidth)+
			padLeft(strconv.Itoa(row.Warnings), numColWidth+2)+
			padLeft(strconv.Itoa(row.Fixable), numColWidth+2))
	}
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}

	return s + strings.Repeat(" ", width-len(s))
}

func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}

	return strings.Repeat(" ", width-len(s)) + s
}
