package lint

import (
	"slices"

	"github.com/yaklabco/hl7lint/pkg/config"
)

// ResolvedRule is a rule with its effective settings.
type ResolvedRule struct {
	Rule     Rule
	Enabled  bool
	Severity config.Severity
	AutoFix  bool

	// Config is the rule's configuration entry, nil when it has none.
	Config *config.RuleConfig
}

// ResolveRules returns the enabled rules of registry with cfg applied,
// in ID order. Rule keys in cfg may be IDs or names.
//
// Precedence, lowest first: rule defaults, severity_default, the rules
// table, then the command-line enable and disable lists.
func ResolveRules(registry *Registry, cfg *config.Config) []ResolvedRule {
	var byID map[string]config.RuleConfig
	if cfg != nil {
		byID = canonicalRuleConfigs(registry, cfg.Rules)
	}

	var resolved []ResolvedRule

	for _, rule := range registry.Rules() {
		if rr := resolveRule(registry, rule, cfg, byID); rr.Enabled {
			resolved = append(resolved, rr)
		}
	}

	return resolved
}

// canonicalRuleConfigs re-keys rule settings by ID. Where both an ID and a
// name entry exist for one rule, the ID entry wins.
func canonicalRuleConfigs(registry *Registry, rules map[string]config.RuleConfig) map[string]config.RuleConfig {
	out := make(map[string]config.RuleConfig, len(rules))

	for key, rc := range rules {
		id, _, ok := registry.Resolve(key)
		if !ok {
			continue
		}

		if _, taken := out[id]; taken && key != id {
			continue
		}

		out[id] = rc
	}

	return out
}

func listed(registry *Registry, keys []string, id string) bool {
	return slices.ContainsFunc(keys, func(key string) bool {
		resolved, _, ok := registry.Resolve(key)

		return ok && resolved == id
	})
}

func resolveRule(registry *Registry, rule Rule, cfg *config.Config, byID map[string]config.RuleConfig) ResolvedRule {
	rr := ResolvedRule{
		Rule:     rule,
		Enabled:  rule.DefaultEnabled(),
		Severity: rule.DefaultSeverity(),
		AutoFix:  rule.CanFix(),
	}

	if cfg == nil {
		rr.AutoFix = false

		return rr
	}

	if s := config.Severity(cfg.SeverityDefault); s.IsValid() {
		rr.Severity = s
	}

	if ruleCfg, ok := byID[rule.ID()]; ok {
		rr.Config = &ruleCfg

		if ruleCfg.Enabled != nil {
			rr.Enabled = *ruleCfg.Enabled
		}

		if ruleCfg.Severity != nil {
			if s := config.Severity(*ruleCfg.Severity); s.IsValid() {
				rr.Severity = s
			}
		}

		if ruleCfg.AutoFix != nil {
			rr.AutoFix = *ruleCfg.AutoFix && rule.CanFix()
		}
	}

	if listed(registry, cfg.EnableRules, rule.ID()) {
		rr.Enabled = true
	}

	if listed(registry, cfg.DisableRules, rule.ID()) {
		rr.Enabled = false
	}

	if len(cfg.FixRules) > 0 {
		rr.AutoFix = rule.CanFix() && listed(registry, cfg.FixRules, rule.ID())
	}

	if !cfg.Fix {
		rr.AutoFix = false
	}

	return rr
}
