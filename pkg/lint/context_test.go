package lint_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/hl7lint/pkg/config"
	"github.com/yaklabco/hl7lint/pkg/fix"
	"github.com/yaklabco/hl7lint/pkg/hl7ast"
	"github.com/yaklabco/hl7lint/pkg/lint"
	"github.com/yaklabco/hl7lint/pkg/parser/er7"
)

func TestRuleContext_Options(t *testing.T) {
	t.Parallel()

	ruleCfg := &config.RuleConfig{Options: map[string]any{
		"count":  int64(3),
		"ratio":  2.0,
		"name":   "ZPI",
		"strict": true,
		"allow":  []any{"ZPI", 7, "ZDS"},
		"typed":  []string{"A"},
	}}

	rc := lint.NewRuleContext(context.Background(), nil, nil, ruleCfg)

	assert.Equal(t, 3, rc.OptionInt("count", 0))
	assert.Equal(t, 2, rc.OptionInt("ratio", 0))
	assert.Equal(t, 9, rc.OptionInt("name", 9))
	assert.Equal(t, "ZPI", rc.OptionString("name", ""))
	assert.True(t, rc.OptionBool("strict", false))
	assert.Equal(t, []string{"ZPI", "ZDS"}, rc.OptionStringSlice("allow", nil))
	assert.Equal(t, []string{"A"}, rc.OptionStringSlice("typed", nil))
	assert.Equal(t, []string{"d"}, rc.OptionStringSlice("missing", []string{"d"}))

	bare := lint.NewRuleContext(context.Background(), nil, nil, nil)
	assert.Equal(t, "d", bare.OptionString("name", "d"))
	assert.False(t, bare.Root.IsValid())
	assert.Empty(t, bare.Segments())
}

func TestRuleContext_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	rc := lint.NewRuleContext(ctx, nil, nil, nil)
	assert.False(t, rc.Cancelled())

	cancel()
	assert.True(t, rc.Cancelled())
}

func TestDiagnosticBuilder(t *testing.T) {
	t.Parallel()

	snap, err := er7.New().Parse(context.Background(), "adt.hl7", []byte(adt))
	require.NoError(t, err)

	registry := newRegistry()
	leaf := snap.NodeAt(30) // "MR" in PID-3.4

	edits := fix.NewEditBuilder()
	edits.ReplaceNode(leaf, "PI")

	diag := lint.NewDiagnostic("HL7001", leaf, "bad type").
		WithRegistry(registry).
		WithSeverity(config.SeverityError).
		WithSuggestion("use PI").
		WithFix(edits).
		Build()

	assert.Equal(t, "escape-error", diag.RuleName)
	assert.Equal(t, "adt.hl7", diag.FilePath)
	assert.Equal(t, "PID-3[1].4.1", diag.Path)
	assert.Equal(t, hl7ast.SourceRange{StartOffset: 30, EndOffset: 32}, diag.Range())
	assert.Equal(t, hl7ast.SourcePosition{StartLine: 2, StartColumn: 14, EndLine: 2, EndColumn: 16}, diag.SourcePosition())
	assert.True(t, diag.HasFix())

	at := lint.NewDiagnosticAt("HL7005", snap, hl7ast.SourceRange{StartOffset: len(adt), EndOffset: len(adt)}, "end").
		WithPath("NK1").
		WithEdit(fix.TextEdit{StartOffset: len(adt), EndOffset: len(adt), NewText: "\r"}).
		Build()
	assert.Equal(t, "NK1", at.Path)
	assert.Equal(t, 4, at.StartLine)
	assert.Len(t, at.FixEdits, 1)

	orphan := lint.NewDiagnostic("HL7001", hl7ast.Node{}, "no node").Build()
	assert.Zero(t, orphan.StartLine)
}
