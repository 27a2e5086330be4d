package lsp

import (
	"context"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/yaklabco/hl7lint/pkg/config"
	"github.com/yaklabco/hl7lint/pkg/hl7ast"
)

// headerRangeLen is the span a malformed-header diagnostic covers.
const headerRangeLen = 8

// diagnostics lints doc and converts the results to protocol form.
func (s *Server) diagnostics(doc *document) []protocol.Diagnostic {
	out := []protocol.Diagnostic{}

	if doc.snap == nil {
		if doc.parseErr == nil {
			return out
		}

		sev := protocol.DiagnosticSeverityError
		source := diagnosticSource

		return append(out, protocol.Diagnostic{
			Range: rangeOf(doc.content, doc.lines, hl7ast.SourceRange{
				EndOffset: min(len(doc.content), headerRangeLen),
			}),
			Severity: &sev,
			Source:   &source,
			Message:  doc.parseErr.Error(),
		})
	}

	result, err := s.engine.LintSnapshot(context.Background(), doc.snap, s.cfg)
	if err != nil {
		s.log.Errorf("lint %s: %s", doc.uri, err)

		return out
	}

	for id, ruleErr := range result.RuleErrors {
		s.log.Warningf("lint %s: rule %s: %s", doc.uri, id, ruleErr)
	}

	for _, diag := range result.Diagnostics {
		sev := severity(diag.Severity)
		source := diagnosticSource
		code := protocol.IntegerOrString{Value: config.FormatRuleID(config.RuleFormatCombined, diag.RuleID, diag.RuleName)}

		message := diag.Message
		if diag.Suggestion != "" {
			message += "\n" + diag.Suggestion
		}

		out = append(out, protocol.Diagnostic{
			Range: rangeOf(doc.content, doc.lines, hl7ast.SourceRange{
				StartOffset: diag.StartOffset,
				EndOffset:   diag.EndOffset,
			}),
			Severity: &sev,
			Code:     &code,
			Source:   &source,
			Message:  message,
		})
	}

	return out
}

func (s *Server) publishDiagnostics(ctx *glsp.Context, doc *document) {
	version := protocol.UInteger(max(doc.version, 0))

	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         doc.uri,
		Version:     &version,
		Diagnostics: s.diagnostics(doc),
	})
}

func severity(sev config.Severity) protocol.DiagnosticSeverity {
	switch sev {
	case config.SeverityError:
		return protocol.DiagnosticSeverityError
	case config.SeverityInfo:
		return protocol.DiagnosticSeverityInformation
	default:
		return protocol.DiagnosticSeverityWarning
	}
}
