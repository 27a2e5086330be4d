package lint

import (
	"context"

	"github.com/yaklabco/hl7lint/pkg/config"
	"github.com/yaklabco/hl7lint/pkg/fix"
	"github.com/yaklabco/hl7lint/pkg/hl7ast"
)

// RuleContext carries everything one rule invocation needs. It is created
// per rule and discarded afterwards, so it holds the context.Context as a
// field.
type RuleContext struct {
	Ctx context.Context

	// File is the snapshot under inspection and Root its Message node.
	File *hl7ast.Snapshot
	Root hl7ast.Node

	Config     *config.Config
	RuleConfig *config.RuleConfig

	// Builder collects fix edits.
	Builder *fix.EditBuilder

	Registry *Registry

	cache *NodeCache
}

// NewRuleContext creates a RuleContext for file.
func NewRuleContext(
	ctx context.Context,
	file *hl7ast.Snapshot,
	cfg *config.Config,
	ruleCfg *config.RuleConfig,
) *RuleContext {
	rc := &RuleContext{
		Ctx:        ctx,
		File:       file,
		Config:     cfg,
		RuleConfig: ruleCfg,
		Builder:    fix.NewEditBuilder(),
	}

	if file != nil {
		rc.Root = file.Root()
	}

	return rc
}

// Cancelled reports whether the context is done.
func (rc *RuleContext) Cancelled() bool {
	return rc.Ctx != nil && rc.Ctx.Err() != nil
}

// Nodes returns the per-file node cache, creating it on first use.
func (rc *RuleContext) Nodes() *NodeCache {
	if rc.cache == nil {
		rc.cache = NewNodeCache(rc.Root)
	}

	return rc.cache
}

// Segments is shorthand for rc.Nodes().Segments().
func (rc *RuleContext) Segments() []hl7ast.Node {
	return rc.Nodes().Segments()
}

// Option returns a rule option, or defaultValue when it is not set.
func (rc *RuleContext) Option(key string, defaultValue any) any {
	if rc.RuleConfig == nil || rc.RuleConfig.Options == nil {
		return defaultValue
	}

	if v, ok := rc.RuleConfig.Options[key]; ok {
		return v
	}

	return defaultValue
}

// OptionInt returns an integer option. YAML and TOML decode numbers as
// int, int64 or float64; all are accepted.
func (rc *RuleContext) OptionInt(key string, defaultValue int) int {
	switch v := rc.Option(key, defaultValue).(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return defaultValue
	}
}

// OptionString returns a string option.
func (rc *RuleContext) OptionString(key, defaultValue string) string {
	if s, ok := rc.Option(key, defaultValue).(string); ok {
		return s
	}

	return defaultValue
}

// OptionBool returns a boolean option.
func (rc *RuleContext) OptionBool(key string, defaultValue bool) bool {
	if b, ok := rc.Option(key, defaultValue).(bool); ok {
		return b
	}

	return defaultValue
}

// OptionStringSlice returns a list-of-strings option. Non-string items are dropped.
func (rc *RuleContext) OptionStringSlice(key string, defaultValue []string) []string {
	switch v := rc.Option(key, defaultValue).(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}

		if len(out) > 0 {
			return out
		}
	}

	return defaultValue
}
