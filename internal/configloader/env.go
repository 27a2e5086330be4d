package configloader

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/yaklabco/hl7lint/pkg/config"
)

// envVarPrefix is the prefix for all hl7lint environment variables.
const envVarPrefix = "HL7LINT_"

// envVar describes one supported environment variable.
type envVar struct {
	help  string
	apply func(cfg *config.Config, value string) error
}

// envVars maps variable names (without prefix) to their effect.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envVars = map[string]envVar{
	"SEVERITY_DEFAULT": {
		help: "Default severity: error, warning, or info",
		apply: func(cfg *config.Config, v string) error {
			cfg.SeverityDefault = v

			return nil
		},
	},
	"FORMAT": {
		help: "Output format: text, json, or summary",
		apply: func(cfg *config.Config, v string) error {
			cfg.Format = config.OutputFormat(v)

			return nil
		},
	},
	"RULE_FORMAT": {
		help: "Rule identifiers in output: name, id, or combined",
		apply: func(cfg *config.Config, v string) error {
			cfg.RuleFormat = config.RuleFormat(v)

			return nil
		},
	},
	"FIX": {
		help: "Apply fixes: true or false",
		apply: func(cfg *config.Config, v string) error {
			return parseBool(&cfg.Fix, v)
		},
	},
	"DRY_RUN": {
		help: "Compute fixes without writing: true or false",
		apply: func(cfg *config.Config, v string) error {
			return parseBool(&cfg.DryRun, v)
		},
	},
	"JOBS": {
		help: "Number of parallel workers (0 = auto)",
		apply: func(cfg *config.Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid integer %q", v)
			}

			cfg.Jobs = n

			return nil
		},
	},
	"ENABLE": {
		help: "Comma-separated rule IDs or names to enable",
		apply: func(cfg *config.Config, v string) error {
			cfg.EnableRules = parseSliceValue(v)

			return nil
		},
	},
	"DISABLE": {
		help: "Comma-separated rule IDs or names to disable",
		apply: func(cfg *config.Config, v string) error {
			cfg.DisableRules = parseSliceValue(v)

			return nil
		},
	},
	"EXTENSIONS": {
		help: "Comma-separated file extensions treated as messages",
		apply: func(cfg *config.Config, v string) error {
			cfg.Extensions = parseSliceValue(v)

			return nil
		},
	},
	"IGNORE": {
		help: "Comma-separated list of ignore patterns",
		apply: func(cfg *config.Config, v string) error {
			cfg.Ignore = parseSliceValue(v)

			return nil
		},
	},
	"SERVE_ADDR": {
		help: "Listen address for hl7lint serve",
		apply: func(cfg *config.Config, v string) error {
			cfg.Serve.Addr = v

			return nil
		},
	},
}

// LoadFromEnv applies HL7LINT_* environment variables to cfg.
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	for _, suffix := range slices.Sorted(maps.Keys(envVars)) {
		name := envVarPrefix + suffix

		value, ok := os.LookupEnv(name)
		if !ok || value == "" {
			continue
		}

		if err := envVars[suffix].apply(cfg, value); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}

	return nil
}

func parseBool(dst *bool, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean %q (expected true/false/1/0)", value)
	}

	*dst = b

	return nil
}

// parseSliceValue splits a comma-separated list, trimming each element
// and dropping empty ones.
func parseSliceValue(value string) []string {
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))

	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// ListEnvVars returns every supported environment variable with its description.
func ListEnvVars() map[string]string {
	out := make(map[string]string, len(envVars))
	for suffix, v := range envVars {
		out[envVarPrefix+suffix] = v.help
	}

	return out
}
