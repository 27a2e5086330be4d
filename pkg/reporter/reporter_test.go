package reporter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/hl7lint/pkg/config"
	"github.com/yaklabco/hl7lint/pkg/lint"
	_ "github.com/yaklabco/hl7lint/pkg/lint/rules" // Register rules
	"github.com/yaklabco/hl7lint/pkg/parser/er7"
	"github.com/yaklabco/hl7lint/pkg/reporter"
	"github.com/yaklabco/hl7lint/pkg/runner"
)

// sampleResult lints three in-memory messages: one clean, one with an LF
// terminator scheme and one with an unterminated escape. A fourth file
// failed to read.
func sampleResult(t *testing.T) *runner.Result {
	t.Helper()

	pipeline := lint.NewPipeline(lint.NewEngine(er7.New(), lint.DefaultRegistry))
	cfg := config.NewConfig()

	messages := []struct{ path, content string }{
		{"/work/bad.hl7", "MSH|^~\\&|APP\rNTE|1|bad\\F\r"},
		{"/work/clean.hl7", "MSH|^~\\&|APP\rPID|1\r"},
		{"/work/lf.hl7", "MSH|^~\\&|APP\nPID|1\n"},
	}

	result := &runner.Result{}

	for _, m := range messages {
		pr, err := pipeline.ProcessContent(context.Background(), m.path, []byte(m.content), cfg, lint.PipelineOptions{})
		require.NoError(t, err)
		result.Add(runner.FileOutcome{Path: m.path, Result: pr})
	}

	result.Add(runner.FileOutcome{Path: "/work/gone.hl7", Error: errors.New("file not found")})

	return result
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"", "text", "json", "summary"} {
		f, err := reporter.ParseFormat(name)
		require.NoError(t, err)
		assert.True(t, f.IsValid())
	}

	_, err := reporter.ParseFormat("sarif")
	require.Error(t, err)
	assert.False(t, reporter.Format("table").IsValid())

	_, err = reporter.New(reporter.Options{Format: "xml", Writer: &bytes.Buffer{}})
	require.Error(t, err)
}

func TestTextReporter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	opts := reporter.DefaultOptions()
	opts.Writer = &buf
	opts.Color = "never"
	opts.WorkingDir = "/work"
	opts.RuleFormat = config.RuleFormatID

	rep, err := reporter.New(opts)
	require.NoError(t, err)

	n, err := rep.Report(context.Background(), sampleResult(t))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	out := buf.String()
	assert.Contains(t, out, "bad.hl7 (1 issue)\n")
	assert.Contains(t, out, "  bad.hl7:2:10  error  Unterminated escape sequence")
	assert.Contains(t, out, "[NTE-2[1].1.1]  (HL7001)\n")
	assert.Contains(t, out, "        NTE|1|bad\\F\n                 ^^\n")
	assert.Contains(t, out, "lf.hl7 (2 issues)\n")
	assert.Contains(t, out, "gone.hl7: error: file not found\n")
	assert.NotContains(t, out, "clean.hl7")
	assert.True(t, strings.HasSuffix(out,
		"3 issues (1 error, 2 warnings) in 2 files, 2 fixable, 1 file failed\n"), out)
}

func TestTextReporter_Flat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	rep := reporter.NewTextReporter(reporter.Options{Writer: &buf, Color: "never", RuleFormat: config.RuleFormatName})

	_, err := rep.Report(context.Background(), sampleResult(t))
	require.NoError(t, err)

	out := buf.String()
	assert.NotContains(t, out, "(2 issues)")
	assert.Contains(t, out, "/work/lf.hl7:1:13  warning")
	assert.Contains(t, out, "(segment-terminator)")
	assert.NotContains(t, out, "^")
}

func TestTextReporter_Empty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	rep := reporter.NewTextReporter(reporter.Options{Writer: &buf, Color: "never", ShowSummary: true})

	n, err := rep.Report(context.Background(), &runner.Result{})
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, "No files to check.\n", buf.String())
}

func TestJSONReporter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	rep := reporter.NewJSONReporter(reporter.Options{Writer: &buf, Compact: true, WorkingDir: "/work"})

	n, err := rep.Report(context.Background(), sampleResult(t))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))

	var out reporter.JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))

	assert.Equal(t, reporter.JSONVersion, out.Version)
	require.Len(t, out.Files, 4)

	bad := out.Files[0]
	assert.Equal(t, "bad.hl7", bad.Path)
	assert.Equal(t, 2, bad.Segments)
	require.Len(t, bad.Diagnostics, 1)
	assert.Equal(t, "HL7001", bad.Diagnostics[0].RuleID)
	assert.Equal(t, "NTE-2[1].1.1", bad.Diagnostics[0].Path)
	assert.Equal(t, 22, bad.Diagnostics[0].StartOffset)
	assert.Equal(t, 24, bad.Diagnostics[0].EndOffset)

	lf := out.Files[2]
	require.Len(t, lf.Diagnostics, 2)
	assert.True(t, lf.Diagnostics[0].Fixable)
	assert.Equal(t, []reporter.JSONFix{{StartOffset: 12, EndOffset: 13, NewText: "\r"}}, lf.Diagnostics[0].Fixes)

	assert.Equal(t, "file not found", out.Files[3].Error)
	assert.Equal(t, 1, out.Summary.BySeverity[config.SeverityError])
	assert.Equal(t, 2, out.Summary.Fixable)
	assert.Equal(t, 1, out.Summary.FilesErrored)
}

func TestSummaryReporter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	opts := reporter.Options{Writer: &buf, Format: reporter.FormatSummary, Color: "never", WorkingDir: "/work"}

	rep, err := reporter.New(opts)
	require.NoError(t, err)

	n, err := rep.Report(context.Background(), sampleResult(t))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	lines := strings.Split(buf.String(), "\n")
	assert.Equal(t, "Rules", lines[0])
	assert.True(t, strings.HasPrefix(lines[4], "segment-terminator"), lines[4])
	assert.True(t, strings.HasPrefix(lines[5], "escape-error"), lines[5])
	assert.Contains(t, buf.String(), "\nFiles\n")
	assert.Contains(t, buf.String(), "lf.hl7  ")
}

func TestTallies(t *testing.T) {
	t.Parallel()

	byRule, byFile := reporter.Tallies(sampleResult(t), config.RuleFormatID, func(p string) string { return p })

	assert.Equal(t, []reporter.Tally{
		{Label: "HL7004", Issues: 2, Warnings: 2, Fixable: 2},
		{Label: "HL7001", Issues: 1, Errors: 1},
	}, byRule)

	require.Len(t, byFile, 2)
	assert.Equal(t, "/work/lf.hl7", byFile[0].Label)
	assert.Equal(t, "/work/bad.hl7", byFile[1].Label)
}
