package configloader

import (
	"maps"

	"github.com/yaklabco/hl7lint/pkg/config"
)

// merge combines two configurations, with override taking precedence over base.
//   - Scalars: override wins when non-zero
//   - Rules: deep merge, per field
//   - Slices: override replaces base when non-nil
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}

	if override == nil {
		return base
	}

	result := *base

	if override.SeverityDefault != "" {
		result.SeverityDefault = override.SeverityDefault
	}

	if override.Format != "" {
		result.Format = override.Format
	}

	if override.RuleFormat != "" {
		result.RuleFormat = override.RuleFormat
	}

	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}

	if override.Serve.Addr != "" {
		result.Serve.Addr = override.Serve.Addr
	}

	if override.Serve.BodyLimit != 0 {
		result.Serve.BodyLimit = override.Serve.BodyLimit
	}

	// Booleans can only be switched on by a later layer.
	if override.Fix {
		result.Fix = true
	}

	if override.DryRun {
		result.DryRun = true
	}

	result.Rules = mergeRules(base.Rules, override.Rules)

	if override.Ignore != nil {
		result.Ignore = override.Ignore
	}

	if override.Extensions != nil {
		result.Extensions = override.Extensions
	}

	if override.EnableRules != nil {
		result.EnableRules = override.EnableRules
	}

	if override.DisableRules != nil {
		result.DisableRules = override.DisableRules
	}

	if override.FixRules != nil {
		result.FixRules = override.FixRules
	}

	return &result
}

// mergeRules deep-merges rule configurations; override wins per field.
func mergeRules(base, override map[string]config.RuleConfig) map[string]config.RuleConfig {
	if base == nil && override == nil {
		return nil
	}

	result := make(map[string]config.RuleConfig, len(base)+len(override))
	maps.Copy(result, base)

	for key, val := range override {
		if existing, ok := result[key]; ok {
			result[key] = mergeRuleConfig(existing, val)
		} else {
			result[key] = val
		}
	}

	return result
}

func mergeRuleConfig(base, override config.RuleConfig) config.RuleConfig {
	result := base.Clone()

	if override.Enabled != nil {
		result.Enabled = override.Enabled
	}

	if override.Severity != nil {
		result.Severity = override.Severity
	}

	if override.AutoFix != nil {
		result.AutoFix = override.AutoFix
	}

	if override.Options != nil {
		if result.Options == nil {
			result.Options = make(map[string]any, len(override.Options))
		}

		maps.Copy(result.Options, override.Options)
	}

	return result
}

// MergeAll merges configurations in order, later ones taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for _, cfg := range configs[1:] {
		result = merge(result, cfg)
	}

	return result
}
