package cli_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/hl7lint/internal/cli"
	"github.com/yaklabco/hl7lint/pkg/config"
	"github.com/yaklabco/hl7lint/pkg/lint"
	"github.com/yaklabco/hl7lint/pkg/runner"
)

func TestExitCodeFromResult(t *testing.T) {
	t.Parallel()

	withSeverity := func(sev config.Severity) *runner.Result {
		result := &runner.Result{}
		result.Add(runner.FileOutcome{
			Path: "a.hl7",
			Result: &lint.PipelineResult{
				Path: "a.hl7",
				FileResult: &lint.FileResult{
					Diagnostics: []lint.Diagnostic{{RuleID: "HL7004", Severity: sev}},
				},
			},
		})

		return result
	}

	errored := &runner.Result{}
	errored.Add(runner.FileOutcome{Path: "b.hl7", Error: errors.New("boom")})

	tests := []struct {
		name   string
		result *runner.Result
		strict bool
		want   int
	}{
		{name: "clean", result: &runner.Result{}, want: cli.ExitSuccess},
		{name: "error diagnostic", result: withSeverity(config.SeverityError), want: cli.ExitLintErrors},
		{name: "warning lenient", result: withSeverity(config.SeverityWarning), want: cli.ExitSuccess},
		{name: "warning strict", result: withSeverity(config.SeverityWarning), strict: true, want: cli.ExitLintWarnings},
		{name: "file error", result: errored, want: cli.ExitIOError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, cli.ExitCodeFromResult(tt.result, tt.strict))
		})
	}
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: cli.ExitSuccess},
		{name: "exit error", err: &cli.ExitError{Code: cli.ExitLintWarnings, Err: cli.ErrLintIssuesFound}, want: cli.ExitLintWarnings},
		{
			name: "wrapped exit error",
			err:  fmt.Errorf("run: %w", &cli.ExitError{Code: cli.ExitLintErrors, Err: cli.ErrLintIssuesFound}),
			want: cli.ExitLintErrors,
		},
		{name: "unknown", err: errors.New("boom"), want: cli.ExitInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, cli.ExitCode(tt.err))
		})
	}
}
