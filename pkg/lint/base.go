package lint

import "github.com/yaklabco/hl7lint/pkg/config"

// BaseRule implements the metadata half of Rule. Rules embed it and
// provide Apply.
type BaseRule struct {
	id       string
	name     string
	desc     string
	tags     []string
	fixable  bool
	severity config.Severity
	disabled bool
}

// NewBaseRule returns rule metadata with warning severity, enabled by default.
func NewBaseRule(id, name, desc string, tags []string, fixable bool) BaseRule {
	return BaseRule{
		id:       id,
		name:     name,
		desc:     desc,
		tags:     tags,
		fixable:  fixable,
		severity: config.SeverityWarning,
	}
}

// WithSeverity returns a copy of r with a different default severity.
func (r BaseRule) WithSeverity(s config.Severity) BaseRule {
	r.severity = s

	return r
}

// Disabled returns a copy of r that is off unless configured on.
func (r BaseRule) Disabled() BaseRule {
	r.disabled = true

	return r
}

func (r *BaseRule) ID() string                       { return r.id }
func (r *BaseRule) Name() string                     { return r.name }
func (r *BaseRule) Description() string              { return r.desc }
func (r *BaseRule) DefaultEnabled() bool             { return !r.disabled }
func (r *BaseRule) DefaultSeverity() config.Severity { return r.severity }
func (r *BaseRule) Tags() []string                   { return r.tags }
func (r *BaseRule) CanFix() bool                     { return r.fixable }

// Apply reports nothing. Concrete rules override it.
func (r *BaseRule) Apply(_ *RuleContext) ([]Diagnostic, error) {
	return nil, nil
}
