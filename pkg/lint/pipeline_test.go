package lint_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/hl7lint/pkg/config"
	"github.com/yaklabco/hl7lint/pkg/hl7ast"
	"github.com/yaklabco/hl7lint/pkg/lint"
	"github.com/yaklabco/hl7lint/pkg/parser/er7"
)

func TestPipeline_ProcessContent_Reparses(t *testing.T) {
	t.Parallel()

	content := "MSH|^~\\&|APP|FAC\rPID|1||X^X\rNK1|1|X\r"
	pipeline := lint.NewPipeline(newEngine(replaceRule("T001", "X", "Y")))

	result, err := pipeline.ProcessContent(context.Background(), "a.hl7", []byte(content), fixConfig(),
		lint.PipelineOptions{Fix: true})
	require.NoError(t, err)

	want := "MSH|^~\\&|APP|FAC\rPID|1||Y^Y\rNK1|1|Y\r"
	assert.True(t, result.Modified)
	assert.Equal(t, want, string(result.ModifiedContent))
	assert.Equal(t, 1, result.FixPasses)
	assert.Equal(t, 3, result.TotalEditsApplied)
	assert.Equal(t, 3, result.Reparses)
	assert.False(t, result.HasIssues())

	fresh, err := er7.New().Parse(context.Background(), "a.hl7", []byte(want))
	require.NoError(t, err)
	assert.True(t, hl7ast.Equal(fresh, result.Snapshot))
}

func TestPipeline_ProcessContent_MultiPass(t *testing.T) {
	t.Parallel()

	pipeline := lint.NewPipeline(newEngine(replaceRule("T001", "A", "B"), replaceRule("T002", "B", "C")))

	result, err := pipeline.ProcessContent(context.Background(), "a.hl7",
		[]byte("MSH|^~\\&|A|B\r"), fixConfig(), lint.PipelineOptions{Fix: true})
	require.NoError(t, err)
	assert.Equal(t, "MSH|^~\\&|C|C\r", string(result.ModifiedContent))
	assert.Equal(t, 2, result.FixPasses)
}

func TestPipeline_ProcessContent_PassLimit(t *testing.T) {
	t.Parallel()

	pipeline := lint.NewPipeline(newEngine(replaceRule("T001", "A", "B"), replaceRule("T002", "B", "A")))

	result, err := pipeline.ProcessContent(context.Background(), "a.hl7",
		[]byte("MSH|^~\\&|A\r"), fixConfig(), lint.PipelineOptions{Fix: true, MaxFixPasses: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, result.FixPasses)
	assert.True(t, result.HasIssues())
}

func TestPipeline_ProcessContent_WithoutReparser(t *testing.T) {
	t.Parallel()

	registry := lint.NewRegistry()
	registry.Register(replaceRule("T001", "APP", "LAB"))
	pipeline := lint.NewPipeline(lint.NewEngine(parseOnly{inner: er7.New()}, registry))

	result, err := pipeline.ProcessContent(context.Background(), "a.hl7", []byte(adt), fixConfig(),
		lint.PipelineOptions{Fix: true})
	require.NoError(t, err)
	assert.Zero(t, result.Reparses)
	assert.Contains(t, string(result.ModifiedContent), "|LAB|")
}

func TestPipeline_ProcessContent_LintOnly(t *testing.T) {
	t.Parallel()

	pipeline := lint.NewPipeline(newEngine(replaceRule("T001", "APP", "LAB")))

	result, err := pipeline.ProcessContent(context.Background(), "a.hl7", []byte(adt), config.NewConfig(),
		lint.DefaultPipelineOptions())
	require.NoError(t, err)
	assert.False(t, result.Modified)
	assert.Nil(t, result.ModifiedContent)
	assert.Equal(t, "issues found", result.Summary())
}

func TestPipeline_ProcessContent_MalformedHeader(t *testing.T) {
	t.Parallel()

	_, err := lint.NewPipeline(newEngine()).ProcessContent(context.Background(), "a.hl7",
		[]byte("EVN|A01\r"), nil, lint.DefaultPipelineOptions())
	require.ErrorIs(t, err, lint.ErrParseFailure)
	require.ErrorIs(t, err, er7.ErrMalformedHeader)
	assert.True(t, lint.IsPipelineError(err))
}

func TestPipeline_ProcessFile(t *testing.T) {
	t.Parallel()

	write := func(t *testing.T) string {
		t.Helper()

		path := filepath.Join(t.TempDir(), "adt.hl7")
		require.NoError(t, os.WriteFile(path, []byte(adt), 0o600))

		return path
	}

	pipeline := lint.NewPipeline(newEngine(replaceRule("T001", "APP", "LAB")))

	t.Run("fix writes", func(t *testing.T) {
		t.Parallel()

		path := write(t)

		result, err := pipeline.ProcessFile(context.Background(), path, fixConfig(),
			lint.PipelineOptions{Fix: true, StrictRaceDetection: true})
		require.NoError(t, err)
		assert.True(t, result.Written)
		assert.Equal(t, "fixed", result.Summary())

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(got), "|LAB|")

		stat, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), stat.Mode().Perm())
	})

	t.Run("dry run leaves file alone", func(t *testing.T) {
		t.Parallel()

		path := write(t)

		result, err := pipeline.ProcessFile(context.Background(), path, fixConfig(),
			lint.PipelineOptions{Fix: true, DryRun: true})
		require.NoError(t, err)
		assert.False(t, result.Written)
		assert.Equal(t, "changes pending", result.Summary())

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, adt, string(got))
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := pipeline.ProcessFile(context.Background(), filepath.Join(t.TempDir(), "none.hl7"),
			nil, lint.DefaultPipelineOptions())
		require.ErrorIs(t, err, lint.ErrFileNotFound)
	})
}

func TestPipelineOptionsFromConfig(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Fix = true
	cfg.DryRun = true

	opts := lint.PipelineOptionsFromConfig(cfg)
	assert.True(t, opts.Fix)
	assert.True(t, opts.DryRun)
	assert.True(t, opts.StrictRaceDetection)
	assert.Equal(t, lint.DefaultPipelineOptions(), lint.PipelineOptionsFromConfig(nil))
}
