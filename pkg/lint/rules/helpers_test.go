package rules_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yaklabco/hl7lint/pkg/config"
	"github.com/yaklabco/hl7lint/pkg/fix"
	"github.com/yaklabco/hl7lint/pkg/lint"
	"github.com/yaklabco/hl7lint/pkg/parser/er7"
)

// applyRule parses content and runs rule over it with the given options.
func applyRule(t *testing.T, rule lint.Rule, content string, opts map[string]any) []lint.Diagnostic {
	t.Helper()

	snap, err := er7.New().Parse(context.Background(), "test.hl7", []byte(content))
	require.NoError(t, err)

	ruleCfg := &config.RuleConfig{Options: opts}
	ctx := lint.NewRuleContext(context.Background(), snap, config.NewConfig(), ruleCfg)

	diags, err := rule.Apply(ctx)
	require.NoError(t, err)

	return diags
}

// applyFixes applies every fix edit in diags to content in one pass.
func applyFixes(t *testing.T, content string, diags []lint.Diagnostic) string {
	t.Helper()

	var edits []fix.TextEdit
	for _, d := range diags {
		edits = append(edits, d.FixEdits...)
	}

	prepared, err := fix.PrepareEdits(edits, len(content))
	require.NoError(t, err)

	return string(fix.ApplyEdits([]byte(content), prepared))
}

type span struct {
	start, end int
}

func spans(diags []lint.Diagnostic) []span {
	out := make([]span, len(diags))
	for i, d := range diags {
		out[i] = span{start: d.StartOffset, end: d.EndOffset}
	}

	return out
}
