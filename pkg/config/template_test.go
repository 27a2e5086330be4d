package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/hl7lint/pkg/config"
)

func TestGenerateTemplate_Parses(t *testing.T) {
	t.Parallel()

	for _, format := range []string{config.TemplateYAML, config.TemplateTOML} {
		for _, full := range []bool{false, true} {
			out, err := config.GenerateTemplate(config.TemplateOptions{Format: format, Full: full})
			require.NoError(t, err)
			assert.Contains(t, string(out), "# hl7lint configuration")

			cfg, err := config.FromFile("x."+format, out)
			require.NoError(t, err, "format %s full %v:\n%s", format, full, out)

			if full {
				assert.Equal(t, config.DefaultServeAddr, cfg.Serve.Addr)
			}
		}
	}
}

func TestGenerateTemplate_UnknownFormat(t *testing.T) {
	t.Parallel()

	_, err := config.GenerateTemplate(config.TemplateOptions{Format: "json"})
	require.Error(t, err)
}
