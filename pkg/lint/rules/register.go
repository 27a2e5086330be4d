package rules

import (
	"github.com/yaklabco/hl7lint/pkg/config"
	"github.com/yaklabco/hl7lint/pkg/lint"
)

// RegisterAll registers all built-in rules with the given registry.
func RegisterAll(registry *lint.Registry) {
	// Parse-level rules
	registry.Register(NewEscapeErrorRule())         // HL7001
	registry.Register(NewAmbiguousDelimitersRule()) // HL7002

	// Segment rules
	registry.Register(NewSegmentIDRule())              // HL7003
	registry.Register(NewSegmentTerminatorRule())      // HL7004
	registry.Register(NewMissingFinalTerminatorRule()) // HL7005
	registry.Register(NewEmptySegmentRule())           // HL7006
	registry.Register(NewHeaderPositionRule())         // HL7009

	// Field and escape rules
	registry.Register(NewTrailingDelimitersRule()) // HL7007
	registry.Register(NewUnknownEscapeRule())      // HL7008
}

// RuleInfos describes the rules in registry for configuration templates.
func RuleInfos(registry *lint.Registry) []config.RuleInfo {
	rules := registry.Rules()
	infos := make([]config.RuleInfo, 0, len(rules))

	for _, rule := range rules {
		infos = append(infos, config.RuleInfo{
			ID:          rule.ID(),
			Name:        rule.Name(),
			Description: rule.Description(),
			Enabled:     rule.DefaultEnabled(),
			Severity:    rule.DefaultSeverity(),
			Tags:        rule.Tags(),
			CanFix:      rule.CanFix(),
		})
	}

	return infos
}

// init registers all built-in rules with the default registry.
//
//nolint:gochecknoinits // Init is intentional for automatic rule registration
func init() {
	RegisterAll(lint.DefaultRegistry)

	config.DefaultRuleInfoProvider = func() []config.RuleInfo {
		return RuleInfos(lint.DefaultRegistry)
	}
}
