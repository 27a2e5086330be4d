package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/hl7lint/pkg/lint/rules"
)

// trailing offsets: MSH-4 separator 12, PID-3 "DOE^JANE^^~" [21,32), last separator 32
const trailing = "MSH|^~\\&|APP|\rPID|1||DOE^JANE^^~|\r"

func TestTrailingDelimitersRule(t *testing.T) {
	t.Parallel()

	rule := rules.NewTrailingDelimitersRule()
	assert.False(t, rule.DefaultEnabled())

	diags := applyRule(t, rule, trailing, nil)
	assert.Equal(t, []span{{start: 12, end: 13}, {start: 32, end: 33}, {start: 31, end: 32}, {start: 29, end: 31}}, spans(diags))

	var messages []string
	for _, d := range diags {
		messages = append(messages, d.Message)
	}

	assert.Equal(t, []string{
		"1 trailing empty field",
		"1 trailing empty field",
		"1 trailing empty repetition",
		"2 trailing empty components",
	}, messages)
	assert.Equal(t, "MSH|^~\\&|APP\rPID|1||DOE^JANE\r", applyFixes(t, trailing, diags))
}

func TestTrailingDelimitersRule_Options(t *testing.T) {
	t.Parallel()

	diags := applyRule(t, rules.NewTrailingDelimitersRule(), trailing, map[string]any{"segments_only": true})
	assert.Equal(t, []span{{start: 12, end: 13}, {start: 32, end: 33}}, spans(diags))
	assert.Equal(t, "MSH|^~\\&|APP\rPID|1||DOE^JANE^^~\r", applyFixes(t, trailing, diags))
}

func TestTrailingDelimitersRule_Clean(t *testing.T) {
	t.Parallel()

	tests := []string{
		"MSH|^~\\&|APP\rPID|1||DOE^JANE\r",
		"MSH|^~\\&|APP\r\rNTE\r",
		"MSH|^~\\&|APP\rNTE|1|a\\F\r",
	}

	for _, content := range tests {
		assert.Empty(t, applyRule(t, rules.NewTrailingDelimitersRule(), content, nil), "content %q", content)
	}
}
