package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/hl7lint/pkg/config"
)

func TestFormatRuleID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		format   config.RuleFormat
		ruleName string
		want     string
	}{
		{"name format", config.RuleFormatName, "segment-terminator", "segment-terminator"},
		{"id format", config.RuleFormatID, "segment-terminator", "HL7004"},
		{"combined format", config.RuleFormatCombined, "segment-terminator", "HL7004/segment-terminator"},
		{"missing name", config.RuleFormatName, "", "HL7004"},
		{"unset format", config.RuleFormat(""), "segment-terminator", "segment-terminator"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, config.FormatRuleID(tt.format, "HL7004", tt.ruleName))
		})
	}
}

func TestValidity(t *testing.T) {
	t.Parallel()

	assert.True(t, config.SeverityInfo.IsValid())
	assert.False(t, config.Severity("fatal").IsValid())
	assert.True(t, config.FormatSummary.IsValid())
	assert.False(t, config.OutputFormat("sarif").IsValid())
}
