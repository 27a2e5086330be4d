package rules

import (
	"bytes"
	"fmt"

	"github.com/yaklabco/hl7lint/pkg/config"
	"github.com/yaklabco/hl7lint/pkg/hl7ast"
	"github.com/yaklabco/hl7lint/pkg/lint"
)

// UnknownEscapeRule reports escape sequences with codes HL7 does not define.
type UnknownEscapeRule struct {
	lint.BaseRule
}

// NewUnknownEscapeRule creates a new unknown escape rule.
func NewUnknownEscapeRule() *UnknownEscapeRule {
	return &UnknownEscapeRule{
		BaseRule: lint.NewBaseRule(
			"HL7008",
			"unknown-escape",
			"Escape sequences should use a defined escape code",
			[]string{"escape"},
			false,
		),
	}
}

// Apply scans every literal containing the escape character.
//
// Options:
//   - allow_local: accept locally defined \Zxx\ escapes (default true)
//   - allow_charset: accept \Cxxyy\ and \Mxxyyzz\ escapes (default true)
func (r *UnknownEscapeRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	allowLocal := ctx.OptionBool("allow_local", true)
	allowCharset := ctx.OptionBool("allow_charset", true)
	escape := ctx.File.Delimiters.Escape

	var diags []lint.Diagnostic

	for _, lit := range ctx.Nodes().EscapedLiterals() {
		text := lit.Text()

		for _, seq := range escapeSequences(text, escape) {
			code := text[seq.start+1 : seq.end-1]

			var msg string

			switch hl7ast.ClassifyEscape(code) {
			case hl7ast.EscapeUnknown:
				msg = fmt.Sprintf("Unknown escape sequence %q", text[seq.start:seq.end])
			case hl7ast.EscapeLocal:
				if allowLocal {
					continue
				}

				msg = fmt.Sprintf("Locally defined escape sequence %q", text[seq.start:seq.end])
			case hl7ast.EscapeCharset:
				if allowCharset {
					continue
				}

				msg = fmt.Sprintf("Character set escape sequence %q", text[seq.start:seq.end])
			default:
				continue
			}

			rng := hl7ast.SourceRange{StartOffset: lit.Start() + seq.start, EndOffset: lit.Start() + seq.end}
			diag := lint.NewDiagnosticAt(r.ID(), ctx.File, rng, msg).
				WithSeverity(config.SeverityWarning).
				WithPath(ctx.File.PathOf(lit).String()).
				WithSuggestion(fmt.Sprintf("Write a literal %q as %q", escape, escapedEscape(ctx.File.Delimiters))).
				Build()
			diags = append(diags, diag)
		}
	}

	return diags, nil
}

// span is a half-open byte range within a literal.
type span struct {
	start, end int
}

// escapeSequences returns the closed escape sequences in text, escape
// bytes included. An unmatched escape byte ends the scan.
func escapeSequences(text []byte, escape byte) []span {
	var out []span

	for i := 0; i < len(text); {
		open := bytes.IndexByte(text[i:], escape)
		if open < 0 {
			break
		}

		open += i

		closing := bytes.IndexByte(text[open+1:], escape)
		if closing < 0 {
			break
		}

		closing += open + 1
		out = append(out, span{start: open, end: closing + 1})
		i = closing + 1
	}

	return out
}
