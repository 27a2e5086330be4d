// Package config defines the configuration types shared by the linter, the
// CLI and the servers. It holds data only; discovery and merging live in
// internal/configloader.
package config

import "slices"

// Severity is the level of a lint diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// IsValid reports whether s is one of the known severities.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityError, SeverityWarning, SeverityInfo:
		return true
	default:
		return false
	}
}

// RuleConfig holds per-rule settings. Nil pointers mean "use the rule default".
type RuleConfig struct {
	Enabled  *bool          `yaml:"enabled,omitempty"  toml:"enabled,omitempty"`
	Severity *string        `yaml:"severity,omitempty" toml:"severity,omitempty"`
	AutoFix  *bool          `yaml:"auto_fix,omitempty" toml:"auto_fix,omitempty"`
	Options  map[string]any `yaml:"options,omitempty"  toml:"options,omitempty"`
}

// OutputFormat selects the diagnostic reporter.
type OutputFormat string

const (
	FormatText    OutputFormat = "text"
	FormatJSON    OutputFormat = "json"
	FormatSummary OutputFormat = "summary"
)

// IsValid reports whether f names a reporter.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatJSON, FormatSummary:
		return true
	default:
		return false
	}
}

// RuleFormat controls how rule identifiers appear in output.
type RuleFormat string

const (
	RuleFormatName     RuleFormat = "name"     // "segment-terminator"
	RuleFormatID       RuleFormat = "id"       // "HL7004"
	RuleFormatCombined RuleFormat = "combined" // "HL7004/segment-terminator"
)

// DefaultExtensions are the message file extensions linted when a
// directory is given.
func DefaultExtensions() []string {
	return []string{".hl7", ".er7", ".msg"}
}

// ServeConfig configures `hl7lint serve`.
type ServeConfig struct {
	Addr      string `yaml:"addr,omitempty"       toml:"addr,omitempty"`
	BodyLimit int    `yaml:"body_limit,omitempty" toml:"body_limit,omitempty"`
}

// DefaultServeAddr is the listen address when none is configured.
const DefaultServeAddr = "127.0.0.1:7650"

// Config is the root configuration.
type Config struct {
	// SeverityDefault overrides every rule's default severity when set.
	SeverityDefault string `yaml:"severity_default,omitempty" toml:"severity_default,omitempty"`

	// Rules holds per-rule settings keyed by rule ID.
	Rules map[string]RuleConfig `yaml:"rules,omitempty" toml:"rules,omitempty"`

	// Ignore holds glob patterns for paths to skip.
	Ignore []string `yaml:"ignore,omitempty" toml:"ignore,omitempty"`

	// Extensions lists the file extensions treated as messages.
	Extensions []string `yaml:"extensions,omitempty" toml:"extensions,omitempty"`

	Serve ServeConfig `yaml:"serve,omitempty" toml:"serve,omitempty"`

	// Command-line only.

	Fix          bool         `yaml:"-" toml:"-"`
	DryRun       bool         `yaml:"-" toml:"-"`
	Format       OutputFormat `yaml:"-" toml:"-"`
	RuleFormat   RuleFormat   `yaml:"-" toml:"-"`
	Jobs         int          `yaml:"-" toml:"-"`
	EnableRules  []string     `yaml:"-" toml:"-"`
	DisableRules []string     `yaml:"-" toml:"-"`
	FixRules     []string     `yaml:"-" toml:"-"`
}

// NewConfig returns a Config with defaults applied.
func NewConfig() *Config {
	return &Config{
		SeverityDefault: "",
		Rules:           make(map[string]RuleConfig),
		Extensions:      DefaultExtensions(),
		Serve:           ServeConfig{Addr: DefaultServeAddr},
		Format:          FormatText,
		RuleFormat:      RuleFormatName,
	}
}

// Clone returns a deep copy of c. Rule option values are copied one level deep.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}

	clone := *c
	clone.Ignore = slices.Clone(c.Ignore)
	clone.Extensions = slices.Clone(c.Extensions)
	clone.EnableRules = slices.Clone(c.EnableRules)
	clone.DisableRules = slices.Clone(c.DisableRules)
	clone.FixRules = slices.Clone(c.FixRules)

	if c.Rules != nil {
		clone.Rules = make(map[string]RuleConfig, len(c.Rules))
		for id, rc := range c.Rules {
			clone.Rules[id] = rc.Clone()
		}
	}

	return &clone
}

// Clone returns a copy of rc with its pointers and options map duplicated.
func (rc RuleConfig) Clone() RuleConfig {
	out := RuleConfig{
		Enabled:  clonePtr(rc.Enabled),
		Severity: clonePtr(rc.Severity),
		AutoFix:  clonePtr(rc.AutoFix),
	}

	if rc.Options != nil {
		out.Options = make(map[string]any, len(rc.Options))
		for k, v := range rc.Options {
			if list, ok := v.([]any); ok {
				v = slices.Clone(list)
			}

			out.Options[k] = v
		}
	}

	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}

	v := *p

	return &v
}
