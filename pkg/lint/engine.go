package lint

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/yaklabco/hl7lint/pkg/config"
	"github.com/yaklabco/hl7lint/pkg/fix"
	"github.com/yaklabco/hl7lint/pkg/hl7ast"
)

// FileResult is the outcome of linting one snapshot.
type FileResult struct {
	Snapshot    *hl7ast.Snapshot
	Diagnostics []Diagnostic

	// Edits are the accepted fix edits, sorted and non-overlapping. Empty
	// unless fixing was requested.
	Edits []fix.TextEdit

	// SkippedEdits lost a conflict to an earlier edit. A later fix pass
	// may still apply them.
	SkippedEdits []fix.TextEdit

	EditConflicts bool

	// RuleErrors maps rule IDs to internal rule failures.
	RuleErrors map[string]error
}

// HasIssues reports whether any diagnostics were produced.
func (fr *FileResult) HasIssues() bool {
	return len(fr.Diagnostics) > 0
}

// HasFixes reports whether any edits are ready to apply.
func (fr *FileResult) HasFixes() bool {
	return len(fr.Edits) > 0
}

// IssueCount returns the number of diagnostics.
func (fr *FileResult) IssueCount() int {
	return len(fr.Diagnostics)
}

// FixableCount returns the number of diagnostics that carry a fix.
func (fr *FileResult) FixableCount() int {
	count := 0

	for i := range fr.Diagnostics {
		if fr.Diagnostics[i].HasFix() {
			count++
		}
	}

	return count
}

// CountBySeverity returns how many diagnostics have severity s.
func (fr *FileResult) CountBySeverity(s config.Severity) int {
	count := 0

	for i := range fr.Diagnostics {
		if fr.Diagnostics[i].Severity == s {
			count++
		}
	}

	return count
}

// Engine parses messages and runs rules over them.
type Engine struct {
	Parser   Parser
	Registry *Registry
}

// NewEngine creates an Engine.
func NewEngine(parser Parser, registry *Registry) *Engine {
	return &Engine{
		Parser:   parser,
		Registry: registry,
	}
}

// LintFile parses content and lints the result.
func (e *Engine) LintFile(ctx context.Context, path string, content []byte, cfg *config.Config) (*FileResult, error) {
	snapshot, err := e.Parser.Parse(ctx, path, content)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	return e.LintSnapshot(ctx, snapshot, cfg)
}

// LintSnapshot runs the resolved rules over an existing snapshot. Callers
// holding an incrementally reparsed snapshot use it to skip parsing.
func (e *Engine) LintSnapshot(ctx context.Context, snapshot *hl7ast.Snapshot, cfg *config.Config) (*FileResult, error) {
	result := &FileResult{
		Snapshot:   snapshot,
		RuleErrors: make(map[string]error),
	}

	cache := NewNodeCache(snapshot.Root())

	var edits []fix.TextEdit

	for _, rr := range ResolveRules(e.Registry, cfg) {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("linting cancelled: %w", err)
		}

		ruleCtx := NewRuleContext(ctx, snapshot, cfg, rr.Config)
		ruleCtx.Registry = e.Registry
		ruleCtx.cache = cache

		diags, err := rr.Rule.Apply(ruleCtx)
		if err != nil {
			result.RuleErrors[rr.Rule.ID()] = err

			continue
		}

		for i := range diags {
			diag := &diags[i]
			diag.Severity = rr.Severity

			if diag.FilePath == "" {
				diag.FilePath = snapshot.Path
			}

			if diag.RuleName == "" {
				diag.RuleName = rr.Rule.Name()
			}

			if rr.AutoFix {
				edits = append(edits, diag.FixEdits...)
			}
		}

		result.Diagnostics = append(result.Diagnostics, diags...)
	}

	SortDiagnostics(result.Diagnostics)

	if len(edits) > 0 {
		accepted, skipped, _, err := fix.PrepareEditsFiltered(edits, len(snapshot.Content))
		if err != nil {
			result.EditConflicts = true
		} else {
			result.Edits = accepted
			result.SkippedEdits = skipped
			result.EditConflicts = len(skipped) > 0
		}
	}

	return result, nil
}

// SortDiagnostics orders diagnostics by position, then rule ID.
func SortDiagnostics(diags []Diagnostic) {
	slices.SortStableFunc(diags, func(a, b Diagnostic) int {
		return cmp.Or(
			cmp.Compare(a.StartOffset, b.StartOffset),
			cmp.Compare(a.EndOffset, b.EndOffset),
			cmp.Compare(a.RuleID, b.RuleID),
		)
	})
}
