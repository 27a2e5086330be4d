package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/hl7lint/pkg/config"
)

// Rules table layout.
const (
	fixableSymbol    = "+"
	tablePadding     = 2
	minIDWidth       = 6
	minNameWidth     = 12
	severityWidth    = 8
	fixableWidth     = 3
	minDescWidth     = 20
	heavySeparator   = "="
	tableColumnCount = 5
)

// RulesTable formats rule metadata as a table sized to a terminal width.
type RulesTable struct {
	styles    *Styles
	termWidth int
}

// NewRulesTable creates a table renderer. termWidth <= 0 means DefaultWidth.
func NewRulesTable(styles *Styles, termWidth int) *RulesTable {
	if termWidth <= 0 {
		termWidth = DefaultWidth
	}

	return &RulesTable{styles: styles, termWidth: termWidth}
}

type ruleColumns struct {
	id, name, desc int
}

// Format renders rules, one row each, followed by a legend. Disabled rules
// are dimmed.
func (t *RulesTable) Format(rules []config.RuleInfo) string {
	if len(rules) == 0 {
		return ""
	}

	cols := t.columns(rules)
	total := cols.id + cols.name + severityWidth + fixableWidth + cols.desc + tablePadding*(tableColumnCount-1) + 1

	var builder strings.Builder

	header := fmt.Sprintf(" %-*s  %-*s  %-*s  %-*s  %s",
		cols.id, "ID", cols.name, "NAME", severityWidth, "SEVERITY", fixableWidth, "FIX", "DESCRIPTION")
	builder.WriteString(t.styles.TableHeader.Render(header) + "\n")
	builder.WriteString(t.styles.TableSeparator.Render(strings.Repeat(heavySeparator, total)) + "\n")

	for _, rule := range rules {
		fixable := strings.Repeat(" ", fixableWidth)
		if rule.CanFix {
			fixable = t.styles.TableFixable.Render(fixableSymbol) + strings.Repeat(" ", fixableWidth-1)
		}

		severity := fmt.Sprintf("%-*s", severityWidth, rule.Severity)
		if rule.Enabled {
			severity = t.styles.FormatSeverity(rule.Severity) + strings.Repeat(" ", severityWidth-len(rule.Severity))
		}

		line := fmt.Sprintf(" %-*s  %-*s  %s  %s  %s",
			cols.id, truncateString(rule.ID, cols.id),
			cols.name, truncateString(rule.Name, cols.name),
			severity, fixable,
			truncateString(rule.Description, cols.desc))

		if !rule.Enabled {
			line = t.styles.TableDisabled.Render(line + "  (disabled)")
		}

		builder.WriteString(line + "\n")
	}

	builder.WriteString(t.styles.TableSeparator.Render(strings.Repeat(heavySeparator, total)) + "\n")
	builder.WriteString(t.styles.Dim.Render(fmt.Sprintf(" %s = fixable with --fix", fixableSymbol)) + "\n")

	return builder.String()
}

func (t *RulesTable) columns(rules []config.RuleInfo) ruleColumns {
	cols := ruleColumns{id: minIDWidth, name: minNameWidth, desc: minDescWidth}

	for _, rule := range rules {
		cols.id = max(cols.id, len(rule.ID))
		cols.name = max(cols.name, len(rule.Name))
		cols.desc = max(cols.desc, len(rule.Description))
	}

	fixed := cols.id + cols.name + severityWidth + fixableWidth + tablePadding*(tableColumnCount-1) + 1
	if fixed+cols.desc > t.termWidth {
		cols.desc = max(minDescWidth, t.termWidth-fixed)
	}

	return cols
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(str string, maxLen int) string {
	if len(str) <= maxLen {
		return str
	}

	if maxLen <= 3 {
		return str[:maxLen]
	}

	return str[:maxLen-3] + "..."
}
