package config

import (
	"bytes"
	"fmt"
	"slices"
	"strings"
)

// commentWrapWidth is the width rule descriptions are wrapped to in templates.
const commentWrapWidth = 70

// Template formats accepted by GenerateTemplate.
const (
	TemplateYAML = "yaml"
	TemplateTOML = "toml"
)

// TemplateOptions controls template generation.
type TemplateOptions struct {
	// Full lists every rule with its description and defaults.
	Full bool

	// Format is TemplateYAML or TemplateTOML.
	Format string

	// IncludeRules limits the full template to these rule IDs.
	IncludeRules []string
}

// RuleInfo is the rule metadata a template needs.
type RuleInfo struct {
	ID          string
	Name        string
	Description string
	Enabled     bool
	Severity    Severity
	Tags        []string
	CanFix      bool
}

// RuleInfoProvider returns the registered rules. It breaks the import
// cycle between config and lint.
type RuleInfoProvider func() []RuleInfo

// DefaultRuleInfoProvider is installed by the rules package.
//
//nolint:gochecknoglobals // extension point
var DefaultRuleInfoProvider RuleInfoProvider

// GenerateTemplate renders a commented configuration file.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	var w templateWriter

	switch opts.Format {
	case "", TemplateYAML:
		w = yamlTemplate{}
	case TemplateTOML:
		w = tomlTemplate{}
	default:
		return nil, fmt.Errorf("unsupported template format %q", opts.Format)
	}

	var buf bytes.Buffer

	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString("\n\n")
	w.settings(&buf, opts.Full)

	if !opts.Full {
		w.exampleRules(&buf)

		return buf.Bytes(), nil
	}

	for _, rule := range selectRules(opts.IncludeRules) {
		w.rule(&buf, rule)
	}

	return buf.Bytes(), nil
}

// DefaultTemplateHeader is the comment block at the top of generated files.
func DefaultTemplateHeader() string {
	return "# hl7lint configuration\n# See: https://github.com/yaklabco/hl7lint"
}

func selectRules(include []string) []RuleInfo {
	var rules []RuleInfo
	if DefaultRuleInfoProvider != nil {
		rules = DefaultRuleInfoProvider()
	}

	if len(include) > 0 {
		rules = slices.DeleteFunc(slices.Clone(rules), func(r RuleInfo) bool {
			return !slices.Contains(include, r.ID)
		})
	}

	slices.SortFunc(rules, func(a, b RuleInfo) int { return strings.Compare(a.ID, b.ID) })

	return rules
}

type templateWriter interface {
	settings(buf *bytes.Buffer, full bool)
	exampleRules(buf *bytes.Buffer)
	rule(buf *bytes.Buffer, rule RuleInfo)
}

type yamlTemplate struct{}

func (yamlTemplate) settings(buf *bytes.Buffer, full bool) {
	prefix := "# "
	if full {
		prefix = ""
	}

	buf.WriteString("# Severity applied to every rule: error, warning, or info\n")
	fmt.Fprintf(buf, "%sseverity_default: warning\n\n", prefix)
	buf.WriteString("# File extensions treated as HL7 messages\n")
	fmt.Fprintf(buf, "%sextensions: [\".hl7\", \".er7\", \".msg\"]\n\n", prefix)
	buf.WriteString("# Glob patterns to skip\n")
	fmt.Fprintf(buf, "%signore:\n%s  - \"archive/**\"\n\n", prefix, prefix)
	buf.WriteString("# HTTP server used by `hl7lint serve`\n")
	fmt.Fprintf(buf, "%sserve:\n%s  addr: %q\n\n", prefix, prefix, DefaultServeAddr)

	if full {
		buf.WriteString("rules:\n")
	}
}

func (yamlTemplate) exampleRules(buf *bytes.Buffer) {
	buf.WriteString(`# Per-rule settings, keyed by ID or name
# rules:
#   HL7003:
#     options:
#       allow: ["ZPI", "ZDS"]
#   trailing-delimiters:
#     enabled: true
`)
}

func (yamlTemplate) rule(buf *bytes.Buffer, rule RuleInfo) {
	fmt.Fprintf(buf, "\n  # %s: %s\n", rule.ID, rule.Name)
	fmt.Fprintf(buf, "  # %s\n", wrapComment(rule.Description, "  # "))

	if rule.CanFix {
		buf.WriteString("  # Auto-fix: yes\n")
	}

	fmt.Fprintf(buf, "  %s:\n", rule.ID)
	fmt.Fprintf(buf, "    enabled: %t\n", rule.Enabled)
	fmt.Fprintf(buf, "    severity: %s\n", rule.Severity)
}

type tomlTemplate struct{}

func (tomlTemplate) settings(buf *bytes.Buffer, full bool) {
	prefix := "# "
	if full {
		prefix = ""
	}

	buf.WriteString("# Severity applied to every rule: error, warning, or info\n")
	fmt.Fprintf(buf, "%sseverity_default = \"warning\"\n\n", prefix)
	buf.WriteString("# File extensions treated as HL7 messages\n")
	fmt.Fprintf(buf, "%sextensions = [\".hl7\", \".er7\", \".msg\"]\n\n", prefix)
	buf.WriteString("# Glob patterns to skip\n")
	fmt.Fprintf(buf, "%signore = [\"archive/**\"]\n\n", prefix)
	buf.WriteString("# HTTP server used by `hl7lint serve`\n")
	fmt.Fprintf(buf, "%s[serve]\n%saddr = %q\n", prefix, prefix, DefaultServeAddr)
}

func (tomlTemplate) exampleRules(buf *bytes.Buffer) {
	buf.WriteString(`
# Per-rule settings, keyed by ID or name
# [rules.HL7003.options]
# allow = ["ZPI", "ZDS"]
#
# [rules.trailing-delimiters]
# enabled = true
`)
}

func (tomlTemplate) rule(buf *bytes.Buffer, rule RuleInfo) {
	fmt.Fprintf(buf, "\n# %s: %s\n", rule.ID, rule.Name)
	fmt.Fprintf(buf, "# %s\n", wrapComment(rule.Description, "# "))

	if rule.CanFix {
		buf.WriteString("# Auto-fix: yes\n")
	}

	fmt.Fprintf(buf, "[rules.%s]\n", rule.ID)
	fmt.Fprintf(buf, "enabled = %t\n", rule.Enabled)
	fmt.Fprintf(buf, "severity = %q\n", rule.Severity)
}

// wrapComment wraps text at commentWrapWidth, starting continuation lines
// with lead.
func wrapComment(text, lead string) string {
	if len(text) <= commentWrapWidth {
		return text
	}

	var (
		lines []string
		line  string
	)

	for _, word := range strings.Fields(text) {
		switch {
		case line == "":
			line = word
		case len(line)+1+len(word) <= commentWrapWidth:
			line += " " + word
		default:
			lines = append(lines, line)
			line = word
		}
	}

	if line != "" {
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n"+lead)
}
