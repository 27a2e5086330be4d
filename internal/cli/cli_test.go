package cli_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/hl7lint/internal/cli"
)

func testInfo() cli.BuildInfo {
	return cli.BuildInfo{Version: "test", Commit: "abc123", Date: "2026-01-01"}
}

func TestNewRootCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	require.NotNil(t, cmd)
	assert.Equal(t, "hl7lint", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	for _, name := range []string{"debug", "config", "color"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), "persistent flag %q", name)
	}
}

func TestRootCommandHasSubcommands(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	for _, name := range []string{"lint", "parse", "watch", "lsp", "serve", "rules", "init", "version"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, sub.Name())
	}
}

func TestCommandFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		command string
		flags   []string
	}{
		{
			command: "lint",
			flags: []string{
				"fix", "dry-run", "format", "jobs", "ignore", "ext", "enable", "disable",
				"fix-rules", "strict", "no-context", "compact", "flat", "quiet", "rule-format",
			},
		},
		{command: "parse", flags: []string{"format", "path", "depth", "delimiters", "output"}},
		{command: "watch", flags: []string{"debounce", "rule-format", "no-context"}},
		{command: "lsp", flags: []string{"log-file", "verbose", "trace"}},
		{command: "serve", flags: []string{"addr", "body-limit", "log-level"}},
		{command: "rules", flags: []string{"format", "tag"}},
		{command: "init", flags: []string{"force", "full", "format", "pack", "output"}},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			t.Parallel()

			sub, _, err := cli.NewRootCommand(testInfo()).Find([]string{tt.command})
			require.NoError(t, err)

			for _, flag := range tt.flags {
				assert.NotNil(t, sub.Flags().Lookup(flag), "flag --%s", flag)
			}
		})
	}
}

func TestHelpOutput(t *testing.T) {
	t.Parallel()

	stdout, _, err := execute(t, "--color", "never", "parse", "--help")
	require.NoError(t, err)

	assert.Contains(t, stdout, "Usage:")
	assert.Contains(t, stdout, "hl7lint parse <file|->")
	assert.Contains(t, stdout, "--path string")
	assert.Contains(t, stdout, "Global Flags:")
	assert.NotContains(t, stdout, "\x1b[", "no escape codes with --color never")
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	stdout, _, err := execute(t, "version")
	require.NoError(t, err)

	assert.Contains(t, stdout, "hl7lint")
	assert.Contains(t, stdout, "abc123")
}
