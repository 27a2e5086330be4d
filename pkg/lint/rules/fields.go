package rules

import (
	"fmt"

	"github.com/yaklabco/hl7lint/pkg/config"
	"github.com/yaklabco/hl7lint/pkg/fix"
	"github.com/yaklabco/hl7lint/pkg/hl7ast"
	"github.com/yaklabco/hl7lint/pkg/lint"
)

// TrailingDelimitersRule reports separators that only introduce empty
// trailing values, as in "OBX|1|||\r" or "DOE^JANE^^".
type TrailingDelimitersRule struct {
	lint.BaseRule
}

// NewTrailingDelimitersRule creates a new trailing delimiters rule.
func NewTrailingDelimitersRule() *TrailingDelimitersRule {
	return &TrailingDelimitersRule{
		BaseRule: lint.NewBaseRule(
			"HL7007",
			"trailing-delimiters",
			"Segments and fields should not end with empty separators",
			[]string{"field", "whitespace"},
			true,
		).WithSeverity(config.SeverityInfo).Disabled(),
	}
}

// Apply checks every segment and every composite inside it.
//
// Options:
//   - segments_only: only trim trailing empty fields (default false)
func (r *TrailingDelimitersRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	segmentsOnly := ctx.OptionBool("segments_only", false)

	var diags []lint.Diagnostic

	for _, seg := range ctx.Segments() {
		if ctx.Cancelled() {
			return diags, fmt.Errorf("rule cancelled: %w", ctx.Ctx.Err())
		}

		if hasErrors(seg) {
			continue
		}

		_ = hl7ast.Walk(seg, func(n hl7ast.Node) error {
			if n.Kind().IsLeaf() {
				return hl7ast.ErrSkipChildren
			}

			if n.Kind() != hl7ast.NodeSegment && segmentsOnly {
				return nil
			}

			start, end, ok := trailingSeparators(n)
			if !ok {
				return nil
			}

			builder := fix.NewEditBuilder()
			builder.Delete(start, end)

			diag := lint.NewDiagnosticAt(r.ID(), ctx.File, hl7ast.SourceRange{StartOffset: start, EndOffset: end},
				fmt.Sprintf("%d trailing empty %s", end-start, trailingNoun(n.Kind(), end-start))).
				WithSeverity(config.SeverityInfo).
				WithPath(ctx.File.PathOf(n).String()).
				WithSuggestion("Remove the trailing separators").
				WithFix(builder).
				Build()
			diags = append(diags, diag)

			return nil
		})
	}

	return diags, nil
}

// trailingSeparators returns the byte range of separators in n that are
// followed only by empty siblings. Segment terminators stay in place.
func trailingSeparators(n hl7ast.Node) (int, int, bool) {
	kids := n.Children()
	end := n.End()

	if n.Kind() == hl7ast.NodeSegment {
		if term := terminator(n); term.IsValid() {
			kids = kids[:len(kids)-1]
			end = term.Start()
		}
	}

	contentEnd := n.Start()

	for _, kid := range kids {
		if kid.Kind() != hl7ast.NodeDelimiter && !kid.IsEmpty() {
			contentEnd = kid.End()
		}
	}

	if contentEnd >= end {
		return 0, 0, false
	}

	return contentEnd, end, true
}

func trailingNoun(kind hl7ast.NodeKind, count int) string {
	var noun string

	switch kind {
	case hl7ast.NodeSegment:
		noun = "field"
	case hl7ast.NodeField:
		noun = "repetition"
	case hl7ast.NodeRepetition:
		noun = "component"
	default:
		noun = "subcomponent"
	}

	if count != 1 {
		noun += "s"
	}

	return noun
}

func hasErrors(n hl7ast.Node) bool {
	found := false

	_ = hl7ast.Walk(n, func(c hl7ast.Node) error {
		if c.Kind() == hl7ast.NodeError {
			found = true
		}

		return nil
	})

	return found
}
