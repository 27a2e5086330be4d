package rules

import (
	"fmt"

	"github.com/yaklabco/hl7lint/pkg/config"
	"github.com/yaklabco/hl7lint/pkg/fix"
	"github.com/yaklabco/hl7lint/pkg/hl7ast"
	"github.com/yaklabco/hl7lint/pkg/lint"
)

// SegmentTerminatorRule checks that segments end with a carriage return.
type SegmentTerminatorRule struct {
	lint.BaseRule
}

// NewSegmentTerminatorRule creates a new segment terminator rule.
func NewSegmentTerminatorRule() *SegmentTerminatorRule {
	return &SegmentTerminatorRule{
		BaseRule: lint.NewBaseRule(
			"HL7004",
			"segment-terminator",
			"Segments should be terminated by a carriage return",
			[]string{"segment", "whitespace"},
			true,
		),
	}
}

// Apply reports LF and CRLF terminators and rewrites them to CR.
func (r *SegmentTerminatorRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	content := ctx.File.Content

	var diags []lint.Diagnostic

	for _, seg := range ctx.Segments() {
		if ctx.Cancelled() {
			return diags, fmt.Errorf("rule cancelled: %w", ctx.Ctx.Err())
		}

		term := terminator(seg)
		if !term.IsValid() {
			continue
		}

		start, end := term.Start(), term.End()

		// An LF scheme leaves the CR of a CRLF pair in the last literal.
		if string(term.Text()) == "\n" && start > seg.Start() && content[start-1] == '\r' {
			start--
		}

		if string(content[start:end]) == "\r" {
			continue
		}

		builder := fix.NewEditBuilder()
		builder.ReplaceRange(start, end, "\r")

		diag := lint.NewDiagnosticAt(r.ID(), ctx.File, hl7ast.SourceRange{StartOffset: start, EndOffset: end},
			fmt.Sprintf("Segment terminated by %q instead of \"\\r\"", content[start:end])).
			WithSeverity(config.SeverityWarning).
			WithPath(segmentLabel(seg)).
			WithSuggestion("Terminate segments with a carriage return").
			WithFix(builder).
			Build()
		diags = append(diags, diag)
	}

	return diags, nil
}

// MissingFinalTerminatorRule checks that the last segment is terminated.
type MissingFinalTerminatorRule struct {
	lint.BaseRule
}

// NewMissingFinalTerminatorRule creates a new missing final terminator rule.
func NewMissingFinalTerminatorRule() *MissingFinalTerminatorRule {
	return &MissingFinalTerminatorRule{
		BaseRule: lint.NewBaseRule(
			"HL7005",
			"missing-final-terminator",
			"The last segment should end with a segment terminator",
			[]string{"segment"},
			true,
		),
	}
}

// Apply reports a truncated final segment and terminates it. Line breaks
// left at the end of the segment by a different terminator scheme are
// replaced rather than kept as data.
func (r *MissingFinalTerminatorRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	content := ctx.File.Content
	term := string(ctx.File.Delimiters.Segment)

	for _, n := range ctx.Nodes().Errors() {
		if n.ErrorCode() != hl7ast.CodeTruncated {
			continue
		}

		seg := n.Segment()
		start, end := n.End(), n.End()

		for start > seg.Start() && (content[start-1] == '\r' || content[start-1] == '\n') {
			start--
		}

		msg := "Last segment is not terminated"
		if start < end {
			msg = fmt.Sprintf("Last segment ends with %q, which is not the segment terminator", content[start:end])
		}

		builder := fix.NewEditBuilder()
		builder.ReplaceRange(start, end, term)

		diag := lint.NewDiagnosticAt(r.ID(), ctx.File, hl7ast.SourceRange{StartOffset: start, EndOffset: end}, msg).
			WithSeverity(config.SeverityWarning).
			WithPath(segmentLabel(seg)).
			WithSuggestion(fmt.Sprintf("End the message with %q", term)).
			WithFix(builder).
			Build()

		return []lint.Diagnostic{diag}, nil
	}

	return nil, nil
}

// terminator returns the delimiter leaf closing seg, or an invalid node.
func terminator(seg hl7ast.Node) hl7ast.Node {
	count := seg.ChildCount()
	if count == 0 {
		return hl7ast.Node{}
	}

	last := seg.Child(count - 1)
	if last.Kind() != hl7ast.NodeDelimiter || seg.Snapshot().Delimiters.Role(last.Text()[0]) != hl7ast.RoleSegment {
		return hl7ast.Node{}
	}

	return last
}

// segmentLabel names seg by ID, or by position when it has none.
func segmentLabel(seg hl7ast.Node) string {
	if name := seg.SegmentName(); name != "" {
		return name
	}

	return fmt.Sprintf("#%d", seg.SegmentIndex()+1)
}
