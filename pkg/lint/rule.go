// Package lint provides the rule engine, diagnostics and registry for hl7lint.
package lint

import (
	"github.com/yaklabco/hl7lint/pkg/config"
	"github.com/yaklabco/hl7lint/pkg/fix"
	"github.com/yaklabco/hl7lint/pkg/hl7ast"
)

// Diagnostic is a single lint finding.
type Diagnostic struct {
	// RuleID identifies the rule, e.g. "HL7004".
	RuleID string

	// RuleName is the rule's readable name, e.g. "segment-terminator".
	RuleName string

	Message  string
	Severity config.Severity
	FilePath string

	// StartOffset and EndOffset bound the finding in the message buffer.
	StartOffset int
	EndOffset   int

	// 1-based line and column of the finding. Lines are split at CR, LF and CRLF.
	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int

	// Path locates the finding in HL7 terms, e.g. "PID-3[1].4".
	Path string

	// Suggestion is an optional hint shown to the user.
	Suggestion string

	// FixEdits repairs the finding when non-empty.
	FixEdits []fix.TextEdit
}

// HasFix reports whether the diagnostic carries fix edits.
func (d *Diagnostic) HasFix() bool {
	return len(d.FixEdits) > 0
}

// SourcePosition returns the diagnostic's line/column range.
func (d *Diagnostic) SourcePosition() hl7ast.SourcePosition {
	return hl7ast.SourcePosition{
		StartLine:   d.StartLine,
		StartColumn: d.StartColumn,
		EndLine:     d.EndLine,
		EndColumn:   d.EndColumn,
	}
}

// Range returns the diagnostic's byte range.
func (d *Diagnostic) Range() hl7ast.SourceRange {
	return hl7ast.SourceRange{StartOffset: d.StartOffset, EndOffset: d.EndOffset}
}

// Rule is implemented by every lint rule.
type Rule interface {
	// ID returns the unique identifier, e.g. "HL7001".
	ID() string

	// Name returns the readable name.
	Name() string

	Description() string
	DefaultEnabled() bool
	DefaultSeverity() config.Severity
	Tags() []string

	// CanFix reports whether Apply may attach fix edits.
	CanFix() bool

	// Apply checks one snapshot. It returns an error only for internal
	// failures; findings are diagnostics.
	Apply(ctx *RuleContext) ([]Diagnostic, error)
}
