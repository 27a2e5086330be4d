package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/hl7lint/pkg/lint/rules"
)

func TestEscapeErrorRule(t *testing.T) {
	t.Parallel()

	rule := rules.NewEscapeErrorRule()

	// NTE-2 holds "bad\F" with no closing escape before the terminator.
	diags := applyRule(t, rule, "MSH|^~\\&|APP\rNTE|1|bad\\F\r", nil)
	require.Len(t, diags, 1)
	assert.Equal(t, "HL7001", diags[0].RuleID)
	assert.Equal(t, []span{{start: 22, end: 24}}, spans(diags))
	assert.Contains(t, diags[0].Message, `"\\F"`)
	assert.Equal(t, "NTE-2[1].1.1", diags[0].Path)
	assert.False(t, diags[0].HasFix())

	assert.Empty(t, applyRule(t, rule, "MSH|^~\\&|APP\rNTE|1|a\\F\\b\r", nil))
}

func TestAmbiguousDelimitersRule(t *testing.T) {
	t.Parallel()

	rule := rules.NewAmbiguousDelimitersRule()

	diags := applyRule(t, rule, "MSH|^~&&|APP\r", nil)
	require.Len(t, diags, 1)
	assert.Equal(t, []span{{start: 6, end: 7}}, spans(diags))
	assert.Contains(t, diags[0].Message, "treated as subcomponent")
	assert.Equal(t, "MSH-2", diags[0].Path)

	assert.Empty(t, applyRule(t, rule, "MSH|^~\\&|APP\r", nil))
}

func TestHeaderPositionRule(t *testing.T) {
	t.Parallel()

	rule := rules.NewHeaderPositionRule()

	tests := []struct {
		name     string
		content  string
		want     []span
		messages []string
	}{
		{
			name:    "single message",
			content: "MSH|^~\\&|APP\rPID|1\r",
		},
		{
			name:     "second message",
			content:  "MSH|^~\\&|APP\rPID|1\rMSH|^~\\&|B\r",
			want:     []span{{start: 19, end: 22}},
			messages: []string{"MSH segment cannot follow PID"},
		},
		{
			name:     "file header after message",
			content:  "MSH|^~\\&|APP\rPID|1\rMSH|^~\\&|B\rFHS|^~\\&\r",
			want:     []span{{start: 19, end: 22}, {start: 30, end: 33}},
			messages: []string{"MSH segment cannot follow PID", "FHS segment must be the first segment"},
		},
		{
			name:    "blank segments ignored",
			content: "MSH|^~\\&|APP\r\rPID|1\r",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			diags := applyRule(t, rule, testCase.content, nil)
			if len(testCase.want) == 0 {
				assert.Empty(t, diags)

				return
			}

			assert.Equal(t, testCase.want, spans(diags))

			for i, msg := range testCase.messages {
				assert.Equal(t, msg, diags[i].Message)
			}
		})
	}
}
