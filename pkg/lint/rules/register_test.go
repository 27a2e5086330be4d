package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/hl7lint/pkg/config"
	"github.com/yaklabco/hl7lint/pkg/lint"
	"github.com/yaklabco/hl7lint/pkg/lint/rules"
)

var allIDs = []string{"HL7001", "HL7002", "HL7003", "HL7004", "HL7005", "HL7006", "HL7007", "HL7008", "HL7009"}

func TestRegisterAll(t *testing.T) {
	t.Parallel()

	registry := lint.NewRegistry()
	rules.RegisterAll(registry)

	assert.Equal(t, allIDs, registry.IDs())

	for _, rule := range registry.Rules() {
		got, ok := registry.Get(rule.Name())
		require.True(t, ok, "rule %s not found by name %q", rule.ID(), rule.Name())
		assert.Equal(t, rule.ID(), got.ID())
		assert.NotEmpty(t, rule.Description())
		assert.NotEmpty(t, rule.Tags())
	}
}

func TestDefaultRegistry(t *testing.T) {
	t.Parallel()

	assert.Equal(t, allIDs, lint.DefaultRegistry.IDs())

	require.NotNil(t, config.DefaultRuleInfoProvider)
	infos := config.DefaultRuleInfoProvider()
	require.Len(t, infos, len(allIDs))
	assert.Equal(t, "escape-error", infos[0].Name)
	assert.Equal(t, config.SeverityError, infos[0].Severity)
	assert.False(t, infos[6].Enabled)
	assert.True(t, infos[6].CanFix)
}

func TestRuleDefaults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rule     lint.Rule
		severity config.Severity
		fixable  bool
	}{
		{rules.NewEscapeErrorRule(), config.SeverityError, false},
		{rules.NewAmbiguousDelimitersRule(), config.SeverityWarning, false},
		{rules.NewSegmentIDRule(), config.SeverityError, false},
		{rules.NewSegmentTerminatorRule(), config.SeverityWarning, true},
		{rules.NewMissingFinalTerminatorRule(), config.SeverityWarning, true},
		{rules.NewEmptySegmentRule(), config.SeverityWarning, true},
		{rules.NewTrailingDelimitersRule(), config.SeverityInfo, true},
		{rules.NewUnknownEscapeRule(), config.SeverityWarning, false},
		{rules.NewHeaderPositionRule(), config.SeverityError, false},
	}

	for _, testCase := range tests {
		t.Run(testCase.rule.ID(), func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.severity, testCase.rule.DefaultSeverity())
			assert.Equal(t, testCase.fixable, testCase.rule.CanFix())
		})
	}
}

func TestGenerateTemplate_ListsRules(t *testing.T) {
	t.Parallel()

	out, err := config.GenerateTemplate(config.TemplateOptions{Full: true, Format: config.TemplateYAML})
	require.NoError(t, err)

	for _, id := range allIDs {
		assert.Contains(t, string(out), id+":")
	}

	cfg, err := config.FromYAML(out)
	require.NoError(t, err)
	assert.Len(t, cfg.Rules, len(allIDs))
}
