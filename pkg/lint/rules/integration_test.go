package rules_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/hl7lint/pkg/config"
	"github.com/yaklabco/hl7lint/pkg/hl7ast"
	"github.com/yaklabco/hl7lint/pkg/lint"
	"github.com/yaklabco/hl7lint/pkg/parser/er7"
)

func TestPipeline_FixesLineFeedMessage(t *testing.T) {
	t.Parallel()

	// LF terminators, a blank line and no final terminator.
	content := "MSH|^~\\&|APP\n\nPID|1\nEVN|A01"

	cfg := config.NewConfig()
	cfg.Fix = true

	pipeline := lint.NewPipeline(lint.NewEngine(er7.New(), lint.DefaultRegistry))
	result, err := pipeline.ProcessContent(context.Background(), "adt.hl7", []byte(content), cfg,
		lint.PipelineOptionsFromConfig(cfg))
	require.NoError(t, err)

	want := "MSH|^~\\&|APP\rPID|1\rEVN|A01\r"
	assert.True(t, result.Modified)
	assert.Equal(t, want, string(result.ModifiedContent))
	assert.False(t, result.HasIssues())
	assert.Greater(t, result.Reparses, 0)

	fresh, err := er7.New().Parse(context.Background(), "adt.hl7", []byte(want))
	require.NoError(t, err)
	assert.True(t, hl7ast.Equal(fresh, result.Snapshot))
}

func TestEngine_DefaultRules(t *testing.T) {
	t.Parallel()

	content := "MSH|^~\\&|APP\rPID|1|a\\Q\\\rPIX|1\rNTE|x\\F\r"

	engine := lint.NewEngine(er7.New(), lint.DefaultRegistry)
	result, err := engine.LintFile(context.Background(), "a.hl7", []byte(content), config.NewConfig())
	require.NoError(t, err)
	require.Empty(t, result.RuleErrors)

	var ids []string
	for _, d := range result.Diagnostics {
		ids = append(ids, d.RuleID)
	}

	assert.Equal(t, []string{"HL7008", "HL7003", "HL7001"}, ids)
	assert.Equal(t, 2, result.CountBySeverity(config.SeverityError))
	assert.Equal(t, "unknown-escape", result.Diagnostics[0].RuleName)
}
