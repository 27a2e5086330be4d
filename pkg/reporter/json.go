package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/hl7lint/pkg/config"
	"github.com/yaklabco/hl7lint/pkg/runner"
)

// JSONVersion is the version of the JSON output layout.
const JSONVersion = "1.0.0"

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult represents a single file's results.
type JSONFileResult struct {
	Path        string           `json:"path"`
	Segments    int              `json:"segments"`
	Diagnostics []JSONDiagnostic `json:"diagnostics"`
	Modified    bool             `json:"modified,omitempty"`
	Skipped     string           `json:"skipped,omitempty"`
	Error       string           `json:"error,omitempty"`
}

// JSONDiagnostic represents a single diagnostic.
type JSONDiagnostic struct {
	RuleID      string    `json:"ruleId"`
	RuleName    string    `json:"ruleName"`
	Severity    string    `json:"severity"`
	Message     string    `json:"message"`
	Path        string    `json:"path,omitempty"`
	StartOffset int       `json:"startOffset"`
	EndOffset   int       `json:"endOffset"`
	StartLine   int       `json:"startLine"`
	StartColumn int       `json:"startColumn"`
	EndLine     int       `json:"endLine"`
	EndColumn   int       `json:"endColumn"`
	Suggestion  string    `json:"suggestion,omitempty"`
	Fixable     bool      `json:"fixable"`
	Fixes       []JSONFix `json:"fixes,omitempty"`
}

// JSONFix represents a proposed fix.
type JSONFix struct {
	StartOffset int    `json:"startOffset"`
	EndOffset   int    `json:"endOffset"`
	NewText     string `json:"newText"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesChecked    int                     `json:"filesChecked"`
	FilesWithIssues int                     `json:"filesWithIssues"`
	FilesModified   int                     `json:"filesModified"`
	FilesErrored    int                     `json:"filesErrored"`
	TotalIssues     int                     `json:"totalIssues"`
	Fixable         int                     `json:"fixable"`
	Fixed           int                     `json:"fixed"`
	BySeverity      map[config.Severity]int `json:"bySeverity"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.BuildOutput(result)

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.TotalIssues, nil
}

// BuildOutput converts result into its JSON document.
func (r *JSONReporter) BuildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: JSONVersion,
		Files:   []JSONFileResult{},
		Summary: JSONSummary{BySeverity: map[config.Severity]int{}},
	}

	if result == nil {
		return output
	}

	stats := result.Stats
	output.Summary.FilesChecked = len(result.Files)
	output.Summary.FilesWithIssues = stats.FilesWithIssues
	output.Summary.FilesModified = stats.FilesModified
	output.Summary.FilesErrored = stats.FilesErrored
	output.Summary.TotalIssues = stats.DiagnosticsTotal
	output.Summary.Fixable = stats.DiagnosticsFixable
	output.Summary.Fixed = stats.DiagnosticsFixed

	for sev, n := range stats.DiagnosticsBySeverity {
		output.Summary.BySeverity[sev] = n
	}

	for _, file := range result.Files {
		output.Files = append(output.Files, r.fileResult(file))
	}

	return output
}

func (r *JSONReporter) fileResult(file runner.FileOutcome) JSONFileResult {
	out := JSONFileResult{
		Path:        r.opts.displayPath(file.Path),
		Diagnostics: []JSONDiagnostic{},
	}

	if file.Error != nil {
		out.Error = file.Error.Error()

		return out
	}

	pr := file.Result
	if pr == nil {
		return out
	}

	out.Modified = pr.Written
	if pr.Skipped {
		out.Skipped = pr.SkipReason
	}

	if pr.FileResult == nil {
		return out
	}

	if pr.Snapshot != nil {
		out.Segments = len(pr.Snapshot.Segments)
	}

	for _, diag := range pr.Diagnostics {
		jd := JSONDiagnostic{
			RuleID:      diag.RuleID,
			RuleName:    diag.RuleName,
			Severity:    string(diag.Severity),
			Message:     diag.Message,
			Path:        diag.Path,
			StartOffset: diag.StartOffset,
			EndOffset:   diag.EndOffset,
			StartLine:   diag.StartLine,
			StartColumn: diag.StartColumn,
			EndLine:     diag.EndLine,
			EndColumn:   diag.EndColumn,
			Suggestion:  diag.Suggestion,
			Fixable:     diag.HasFix(),
		}

		for _, edit := range diag.FixEdits {
			jd.Fixes = append(jd.Fixes, JSONFix{
				StartOffset: edit.StartOffset,
				EndOffset:   edit.EndOffset,
				NewText:     edit.NewText,
			})
		}

		out.Diagnostics = append(out.Diagnostics, jd)
	}

	return out
}
