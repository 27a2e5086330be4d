package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yaklabco/hl7lint/internal/cli"
)

const (
	// lfMessage uses line feeds where carriage returns belong.
	lfMessage = "MSH|^~\\&|APP\nPID|1\n"

	// cleanMessage has no findings under the default rules.
	cleanMessage = "MSH|^~\\&|APP\rPID|1||DOE^JANE\r"

	// unknownSegment names a segment that does not exist.
	unknownSegment = "MSH|^~\\&|APP\rPIX|1\r"
)

// execute runs the root command with args and returns what it printed.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	cmd := cli.NewRootCommand(testInfo())

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return stdout.String(), stderr.String(), err
}

// writeMessage writes content to name inside a fresh temp directory.
func writeMessage(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

// emptyConfig returns an explicit config file so the tests do not pick up
// a user configuration.
func emptyConfig(t *testing.T) string {
	t.Helper()

	return writeMessage(t, ".hl7lint.yml", "rules: {}\n")
}
