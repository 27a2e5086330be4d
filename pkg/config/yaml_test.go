package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/hl7lint/pkg/config"
)

func boolPtr(b bool) *bool { return &b }
func strPtr(s string) *string { return &s }

func TestConfig_Clone(t *testing.T) {
	t.Parallel()

	var nilConfig *config.Config
	assert.Nil(t, nilConfig.Clone())

	original := config.NewConfig()
	original.Ignore = []string{"archive/**"}
	original.Rules["HL7003"] = config.RuleConfig{
		Enabled:  boolPtr(true),
		Severity: strPtr("error"),
		Options:  map[string]any{"allow": []any{"ZPI"}},
	}
	original.Fix = true
	original.EnableRules = []string{"HL7007"}

	clone := original.Clone()
	require.NotSame(t, original, clone)
	assert.Equal(t, original, clone)

	clone.Ignore[0] = "changed"
	*clone.Rules["HL7003"].Severity = "info"
	clone.Rules["HL7003"].Options["allow"].([]any)[0] = "ZZZ"
	clone.EnableRules[0] = "HL7001"

	assert.Equal(t, "archive/**", original.Ignore[0])
	assert.Equal(t, "error", *original.Rules["HL7003"].Severity)
	assert.Equal(t, "ZPI", original.Rules["HL7003"].Options["allow"].([]any)[0])
	assert.Equal(t, "HL7007", original.EnableRules[0])
}

func TestConfig_YAML(t *testing.T) {
	t.Parallel()

	cfg, err := config.FromYAML([]byte(`
severity_default: error
extensions: [".hl7", ".txt"]
rules:
  HL7004:
    enabled: false
  segment-id:
    options:
      allow: ["ZPI"]
serve:
  addr: ":8080"
`))
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.SeverityDefault)
	assert.Equal(t, []string{".hl7", ".txt"}, cfg.Extensions)
	assert.False(t, *cfg.Rules["HL7004"].Enabled)
	assert.Equal(t, []any{"ZPI"}, cfg.Rules["segment-id"].Options["allow"])
	assert.Equal(t, ":8080", cfg.Serve.Addr)

	out, err := cfg.ToYAML()
	require.NoError(t, err)

	again, err := config.FromYAML(out)
	require.NoError(t, err)
	assert.Equal(t, cfg.Rules, again.Rules)
	assert.Equal(t, cfg.Serve, again.Serve)
}

func TestFromYAML_Errors(t *testing.T) {
	t.Parallel()

	_, err := config.FromYAML([]byte("flavor: gfm\n"))
	require.Error(t, err)

	cfg, err := config.FromYAML(nil)
	require.NoError(t, err)
	assert.NotNil(t, cfg.Rules)
}

func TestConfig_TOML(t *testing.T) {
	t.Parallel()

	cfg, err := config.FromTOML([]byte(`
severity_default = "warning"
ignore = ["archive/**"]

[serve]
addr = ":9000"
body_limit = 1024

[rules.HL7007]
enabled = true

[rules.HL7003.options]
allow = ["ZPI", "ZDS"]
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"archive/**"}, cfg.Ignore)
	assert.Equal(t, config.ServeConfig{Addr: ":9000", BodyLimit: 1024}, cfg.Serve)
	assert.True(t, *cfg.Rules["HL7007"].Enabled)
	assert.Equal(t, []any{"ZPI", "ZDS"}, cfg.Rules["HL7003"].Options["allow"])

	out, err := cfg.ToTOML()
	require.NoError(t, err)

	again, err := config.FromTOML(out)
	require.NoError(t, err)
	assert.Equal(t, cfg.Serve, again.Serve)
	assert.True(t, *again.Rules["HL7007"].Enabled)

	_, err = config.FromTOML([]byte("colour = \"blue\"\n"))
	require.ErrorContains(t, err, "unknown keys: colour")
}

func TestFromFile(t *testing.T) {
	t.Parallel()

	cfg, err := config.FromFile(".hl7lint.toml", []byte(`severity_default = "info"`))
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.SeverityDefault)

	cfg, err = config.FromFile(".hl7lint.yml", []byte(`severity_default: info`))
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.SeverityDefault)
}
