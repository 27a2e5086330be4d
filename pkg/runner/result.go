package runner

import (
	"time"

	"github.com/yaklabco/hl7lint/pkg/config"
	"github.com/yaklabco/hl7lint/pkg/lint"
)

// FileOutcome is the result of processing one file.
type FileOutcome struct {
	Path string

	// Result is nil when Error is set.
	Result *lint.PipelineResult

	Error error
}

// Stats aggregates a run.
type Stats struct {
	FilesDiscovered int
	FilesProcessed  int

	// FilesSkipped counts files that changed on disk while being fixed.
	FilesSkipped int
	FilesErrored int

	FilesWithIssues int
	FilesModified   int

	DiagnosticsTotal   int
	DiagnosticsFixable int

	// DiagnosticsFixed counts the fix edits applied across all passes.
	DiagnosticsFixed int

	DiagnosticsBySeverity map[config.Severity]int

	// Reparses counts incremental reparses run by fix loops.
	Reparses int

	Duration time.Duration
}

// Errors returns the number of error-severity diagnostics.
func (s Stats) Errors() int { return s.DiagnosticsBySeverity[config.SeverityError] }

// Warnings returns the number of warning-severity diagnostics.
func (s Stats) Warnings() int { return s.DiagnosticsBySeverity[config.SeverityWarning] }

// Infos returns the number of info-severity diagnostics.
func (s Stats) Infos() int { return s.DiagnosticsBySeverity[config.SeverityInfo] }

// Result is the outcome of a run. Files are ordered by path.
type Result struct {
	Files []FileOutcome
	Stats Stats
}

// HasFailures reports whether any error-severity diagnostic or file error
// occurred.
func (r *Result) HasFailures() bool {
	if r == nil {
		return false
	}

	return r.Stats.Errors() > 0 || r.Stats.FilesErrored > 0
}

// HasIssues reports whether any diagnostics were found.
func (r *Result) HasIssues() bool {
	return r != nil && r.Stats.DiagnosticsTotal > 0
}

// Add records outcome in r.
func (r *Result) Add(outcome FileOutcome) {
	if r.Stats.DiagnosticsBySeverity == nil {
		r.Stats.DiagnosticsBySeverity = make(map[config.Severity]int)
	}

	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++

		return
	}

	pr := outcome.Result
	if pr == nil {
		return
	}

	r.Stats.FilesProcessed++
	r.Stats.DiagnosticsFixed += pr.TotalEditsApplied
	r.Stats.Reparses += pr.Reparses

	if pr.Skipped {
		r.Stats.FilesSkipped++
	}

	if pr.Written {
		r.Stats.FilesModified++
	}

	if pr.FileResult == nil {
		return
	}

	r.Stats.DiagnosticsTotal += len(pr.Diagnostics)
	r.Stats.DiagnosticsFixable += pr.FixableCount()

	if len(pr.Diagnostics) > 0 {
		r.Stats.FilesWithIssues++
	}

	for _, diag := range pr.Diagnostics {
		sev := diag.Severity
		if sev == "" {
			sev = config.SeverityWarning
		}

		r.Stats.DiagnosticsBySeverity[sev]++
	}
}
