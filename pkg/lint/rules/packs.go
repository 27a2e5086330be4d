package rules

import "github.com/yaklabco/hl7lint/pkg/config"

// Pack describes a named group of rule defaults for a particular use case.
// Packs are configuration fragments that can be used as starting points
// for .hl7lint.yml files.
type Pack struct {
	// Name is the short identifier for the pack (e.g., "core", "strict").
	Name string

	// Description explains the purpose and characteristics of the pack.
	Description string

	// Rules contains rule configurations keyed by rule ID.
	Rules map[string]config.RuleConfig
}

// CorePack returns the default rule set written out explicitly.
func CorePack() Pack {
	return Pack{
		Name:        "core",
		Description: "Default rules: parse errors, segment structure, terminators",
		Rules: map[string]config.RuleConfig{
			"HL7001": enabled("error"),   // escape-error
			"HL7002": enabled("warning"), // ambiguous-delimiters
			"HL7003": enabled("error"),   // segment-id
			"HL7004": enabled("warning"), // segment-terminator
			"HL7005": enabled("warning"), // missing-final-terminator
			"HL7006": enabled("warning"), // empty-segment
			"HL7008": enabled("warning"), // unknown-escape
			"HL7009": enabled("error"),   // header-position
		},
	}
}

// StrictPack turns every rule on and raises structural findings to errors.
func StrictPack() Pack {
	return Pack{
		Name:        "strict",
		Description: "Strict pack: every rule enabled, structural findings as errors",
		Rules: map[string]config.RuleConfig{
			"HL7001": enabled("error"),   // escape-error
			"HL7002": enabled("error"),   // ambiguous-delimiters
			"HL7003": enabled("error"),   // segment-id
			"HL7004": enabled("error"),   // segment-terminator
			"HL7005": enabled("error"),   // missing-final-terminator
			"HL7006": enabled("error"),   // empty-segment
			"HL7007": enabled("warning"), // trailing-delimiters
			"HL7008": enabled("error"),   // unknown-escape
			"HL7009": enabled("error"),   // header-position
		},
	}
}

// RelaxedPack keeps only findings that change how a message parses.
func RelaxedPack() Pack {
	return Pack{
		Name:        "relaxed",
		Description: "Relaxed pack: only problems that change how a message parses",
		Rules: map[string]config.RuleConfig{
			"HL7001": enabled("error"),   // escape-error
			"HL7002": enabled("warning"), // ambiguous-delimiters
			"HL7004": disabled(),         // segment-terminator
			"HL7006": disabled(),         // empty-segment
			"HL7008": disabled(),         // unknown-escape
		},
	}
}

// Packs returns all built-in rule packs.
func Packs() []Pack {
	return []Pack{
		CorePack(),
		StrictPack(),
		RelaxedPack(),
	}
}

// PackByName returns a pack by name, or nil if not found.
func PackByName(name string) *Pack {
	for _, p := range Packs() {
		if p.Name == name {
			return &p
		}
	}

	return nil
}

// PackNames returns the names of all available packs.
func PackNames() []string {
	packs := Packs()
	names := make([]string, len(packs))

	for i, p := range packs {
		names[i] = p.Name
	}

	return names
}

// Apply copies the pack's rule settings into cfg, replacing any existing
// entry for the same rule.
func (p Pack) Apply(cfg *config.Config) {
	if cfg.Rules == nil {
		cfg.Rules = make(map[string]config.RuleConfig, len(p.Rules))
	}

	for id, rc := range p.Rules {
		cfg.Rules[id] = rc.Clone()
	}
}

// enabled creates a RuleConfig with the rule enabled and the given severity.
func enabled(sev string) config.RuleConfig {
	on := true

	return config.RuleConfig{
		Enabled:  &on,
		Severity: &sev,
	}
}

func disabled() config.RuleConfig {
	off := false

	return config.RuleConfig{Enabled: &off}
}
