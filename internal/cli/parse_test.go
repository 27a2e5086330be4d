package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/hl7lint/internal/cli"
	"github.com/yaklabco/hl7lint/pkg/treefmt"
)

func TestParse_JSON(t *testing.T) {
	t.Parallel()

	path := writeMessage(t, "adt.hl7", cleanMessage)

	stdout, _, err := execute(t, "parse", "--format", "json", path)
	require.NoError(t, err)

	var doc treefmt.Document
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))

	assert.Equal(t, path, doc.Path)
	assert.Equal(t, 2, doc.Segments)
	assert.Equal(t, "^", doc.Delimiters.Component)
	assert.Empty(t, doc.Issues)
	require.Len(t, doc.Nodes, 1)
	assert.Equal(t, "Message", doc.Nodes[0].Kind)
}

func TestParse_Select(t *testing.T) {
	t.Parallel()

	path := writeMessage(t, "adt.hl7", cleanMessage)

	stdout, _, err := execute(t, "parse", "-f", "json", "--path", "PID-3[1].2", path)
	require.NoError(t, err)

	var doc treefmt.Document
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))

	require.Len(t, doc.Nodes, 1)
	assert.Equal(t, "PID-3[1].2", doc.Nodes[0].Path)
	assert.Equal(t, 24, doc.Nodes[0].Start)
	assert.Equal(t, 28, doc.Nodes[0].End)
}

func TestParse_Stdin(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetIn(strings.NewReader(cleanMessage))
	cmd.SetArgs([]string{"parse", "-", "--format", "yaml", "--depth", "1"})

	require.NoError(t, cmd.Execute())

	assert.Contains(t, stdout.String(), "kind: Message")
	assert.Contains(t, stdout.String(), "segments: 2")
	assert.NotContains(t, stdout.String(), "kind: Field")
}

func TestParse_Text(t *testing.T) {
	t.Parallel()

	path := writeMessage(t, "adt.hl7", cleanMessage)

	stdout, _, err := execute(t, "--color", "never", "parse", path)
	require.NoError(t, err)

	assert.Contains(t, stdout, "PID")
	assert.Contains(t, stdout, "JANE")
}

func TestParse_CBOROutputFile(t *testing.T) {
	t.Parallel()

	path := writeMessage(t, "adt.hl7", cleanMessage)
	out := filepath.Join(t.TempDir(), "adt.cbor")

	_, _, err := execute(t, "parse", "--format", "cbor", "-o", out, path)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	doc, err := treefmt.UnmarshalCBOR(data)
	require.NoError(t, err)
	assert.Equal(t, 2, doc.Segments)
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	path := writeMessage(t, "adt.hl7", cleanMessage)

	tests := []struct {
		name string
		args []string
		want int
	}{
		{name: "unknown format", args: []string{"parse", "--format", "xml", path}, want: cli.ExitInvalidUsage},
		{name: "bad path", args: []string{"parse", "--path=PID-x", path}, want: cli.ExitInvalidUsage},
		{name: "missing file", args: []string{"parse", filepath.Join(t.TempDir(), "none.hl7")}, want: cli.ExitIOError},
		{
			name: "malformed header",
			args: []string{"parse", writeMessage(t, "bad.hl7", "PID|1\r")},
			want: cli.ExitLintErrors,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.want, cli.ExitCode(err))
		})
	}
}
