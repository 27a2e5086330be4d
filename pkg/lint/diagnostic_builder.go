package lint

import (
	"github.com/yaklabco/hl7lint/pkg/config"
	"github.com/yaklabco/hl7lint/pkg/fix"
	"github.com/yaklabco/hl7lint/pkg/hl7ast"
)

// DiagnosticBuilder assembles a Diagnostic.
type DiagnosticBuilder struct {
	diag Diagnostic
}

// NewDiagnostic starts a diagnostic covering node. Position and path come
// from the node's snapshot.
func NewDiagnostic(ruleID string, node hl7ast.Node, message string) *DiagnosticBuilder {
	if !node.IsValid() {
		return &DiagnosticBuilder{diag: Diagnostic{RuleID: ruleID, Message: message}}
	}

	b := NewDiagnosticAt(ruleID, node.Snapshot(), node.Range(), message)
	b.diag.Path = node.Snapshot().PathOf(node).String()

	return b
}

// NewDiagnosticAt starts a diagnostic covering an arbitrary byte range of snap.
func NewDiagnosticAt(ruleID string, snap *hl7ast.Snapshot, r hl7ast.SourceRange, message string) *DiagnosticBuilder {
	diag := Diagnostic{
		RuleID:      ruleID,
		Message:     message,
		StartOffset: r.StartOffset,
		EndOffset:   r.EndOffset,
	}

	if snap != nil {
		pos := snap.PositionOf(r)
		diag.FilePath = snap.Path
		diag.StartLine, diag.StartColumn = pos.StartLine, pos.StartColumn
		diag.EndLine, diag.EndColumn = pos.EndLine, pos.EndColumn
	}

	return &DiagnosticBuilder{diag: diag}
}

// WithRegistry fills in the rule name from reg.
func (b *DiagnosticBuilder) WithRegistry(reg *Registry) *DiagnosticBuilder {
	if reg != nil {
		if rule, ok := reg.GetByID(b.diag.RuleID); ok {
			b.diag.RuleName = rule.Name()
		}
	}

	return b
}

// WithSeverity sets the severity.
func (b *DiagnosticBuilder) WithSeverity(s config.Severity) *DiagnosticBuilder {
	b.diag.Severity = s

	return b
}

// WithPath overrides the HL7 path.
func (b *DiagnosticBuilder) WithPath(path string) *DiagnosticBuilder {
	b.diag.Path = path

	return b
}

// WithSuggestion sets a hint for the user.
func (b *DiagnosticBuilder) WithSuggestion(s string) *DiagnosticBuilder {
	b.diag.Suggestion = s

	return b
}

// WithFix appends the edits collected by builder.
func (b *DiagnosticBuilder) WithFix(builder *fix.EditBuilder) *DiagnosticBuilder {
	if builder != nil {
		b.diag.FixEdits = append(b.diag.FixEdits, builder.Edits...)
	}

	return b
}

// WithEdit appends one fix edit.
func (b *DiagnosticBuilder) WithEdit(edit fix.TextEdit) *DiagnosticBuilder {
	b.diag.FixEdits = append(b.diag.FixEdits, edit)

	return b
}

// Build returns the diagnostic.
func (b *DiagnosticBuilder) Build() Diagnostic {
	return b.diag
}
