package rules

import (
	"fmt"
	"slices"

	"github.com/yaklabco/hl7lint/pkg/config"
	"github.com/yaklabco/hl7lint/pkg/hl7ast"
	"github.com/yaklabco/hl7lint/pkg/lint"
)

// EscapeErrorRule reports escape sequences that never close.
type EscapeErrorRule struct {
	lint.BaseRule
}

// NewEscapeErrorRule creates a new escape error rule.
func NewEscapeErrorRule() *EscapeErrorRule {
	return &EscapeErrorRule{
		BaseRule: lint.NewBaseRule(
			"HL7001",
			"escape-error",
			"Escape sequences must be closed before the next delimiter",
			[]string{"escape", "structure"},
			false,
		).WithSeverity(config.SeverityError),
	}
}

// Apply reports every EscapeError node.
func (r *EscapeErrorRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	var diags []lint.Diagnostic

	for _, n := range ctx.Nodes().Errors() {
		if n.ErrorCode() != hl7ast.CodeEscapeError {
			continue
		}

		diag := lint.NewDiagnostic(r.ID(), n, fmt.Sprintf("Unterminated escape sequence %q", n.Text())).
			WithSeverity(config.SeverityError).
			WithSuggestion(fmt.Sprintf("Close the sequence with %q or escape the escape character as %q",
				ctx.File.Delimiters.Escape, escapedEscape(ctx.File.Delimiters))).
			Build()
		diags = append(diags, diag)
	}

	return diags, nil
}

func escapedEscape(d hl7ast.Delimiters) string {
	return string([]byte{d.Escape, 'E', d.Escape})
}

// AmbiguousDelimitersRule reports header declarations that reuse a byte
// for more than one role.
type AmbiguousDelimitersRule struct {
	lint.BaseRule
}

// NewAmbiguousDelimitersRule creates a new ambiguous delimiters rule.
func NewAmbiguousDelimitersRule() *AmbiguousDelimitersRule {
	return &AmbiguousDelimitersRule{
		BaseRule: lint.NewBaseRule(
			"HL7002",
			"ambiguous-delimiters",
			"Each delimiter role should have its own character",
			[]string{"header", "delimiters"},
			false,
		),
	}
}

// Apply converts the snapshot's delimiter warnings into diagnostics.
func (r *AmbiguousDelimitersRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	var diags []lint.Diagnostic

	for _, issue := range ctx.File.Warnings {
		if issue.Code != hl7ast.CodeAmbiguousDelimiter {
			continue
		}

		diag := lint.NewDiagnosticAt(r.ID(), ctx.File, issue.Range, issue.Message).
			WithSeverity(config.SeverityWarning).
			WithPath("MSH-2").
			WithSuggestion("Declare distinct encoding characters, e.g. " + hl7ast.DefaultDelimiters().EncodingCharacters()).
			Build()
		diags = append(diags, diag)
	}

	return diags, nil
}

// HeaderPositionRule checks that header segments appear only where a
// message or batch may start.
type HeaderPositionRule struct {
	lint.BaseRule
}

// NewHeaderPositionRule creates a new header position rule.
func NewHeaderPositionRule() *HeaderPositionRule {
	return &HeaderPositionRule{
		BaseRule: lint.NewBaseRule(
			"HL7009",
			"header-position",
			"MSH must start the message or follow a batch or file header",
			[]string{"structure", "header"},
			false,
		).WithSeverity(config.SeverityError),
	}
}

// headerPredecessors lists the segments each header may follow.
//
//nolint:gochecknoglobals // lookup table
var headerPredecessors = map[string][]string{
	"MSH": {"BHS", "FHS"},
	"BHS": {"FHS"},
	"FHS": nil,
}

// Apply reports every header segment after the first segment whose
// previous non-blank segment is not an allowed predecessor.
func (r *HeaderPositionRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	var (
		diags []lint.Diagnostic
		prev  string
	)

	for i, seg := range ctx.Segments() {
		if ctx.Cancelled() {
			return diags, fmt.Errorf("rule cancelled: %w", ctx.Ctx.Err())
		}

		name := seg.SegmentName()
		if seg.ChildCount() == 0 || isBlankSegment(seg) {
			continue
		}

		allowed, isHeader := headerPredecessors[name]
		if isHeader && i > 0 && !slices.Contains(allowed, prev) {
			msg := fmt.Sprintf("%s segment cannot follow %s", name, describeSegment(prev))
			if len(allowed) == 0 {
				msg = fmt.Sprintf("%s segment must be the first segment", name)
			}

			diag := lint.NewDiagnostic(r.ID(), seg.Child(0), msg).
				WithSeverity(config.SeverityError).
				WithSuggestion("Split the buffer into one message per header").
				Build()
			diags = append(diags, diag)
		}

		prev = name
	}

	return diags, nil
}

func describeSegment(name string) string {
	if name == "" {
		return "a segment without an ID"
	}

	return name
}
