package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/yaklabco/hl7lint/internal/logging"
	"github.com/yaklabco/hl7lint/pkg/lint"
)

// Runner lints files through a lint.Pipeline on a worker pool.
type Runner struct {
	Pipeline *lint.Pipeline
}

// New creates a Runner.
func New(pipeline *lint.Pipeline) *Runner {
	return &Runner{Pipeline: pipeline}
}

// Run discovers the files named by opts and processes them concurrently.
// Per-file failures are recorded in the outcome; the returned error is
// reserved for discovery failures and cancellation.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	started := time.Now()

	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := r.RunFiles(ctx, files, opts)
	result.Stats.Duration = time.Since(started)

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("run cancelled: %w", err)
	}

	return result, nil
}

// RunFiles processes files without discovery.
func (r *Runner) RunFiles(ctx context.Context, files []string, opts Options) *Result {
	started := time.Now()
	pipelineOpts := lint.PipelineOptionsFromConfig(opts.Config)

	outcomes, done := forEach(ctx, files, opts.Jobs, func(ctx context.Context, path string) FileOutcome {
		return r.process(ctx, path, opts, pipelineOpts)
	})

	result := &Result{Files: make([]FileOutcome, 0, len(files))}
	result.Stats.FilesDiscovered = len(files)

	for i, outcome := range outcomes {
		if done[i] {
			result.Add(outcome)
		}
	}

	result.Stats.Duration = time.Since(started)

	return result
}

func (r *Runner) process(ctx context.Context, path string, opts Options, pipelineOpts lint.PipelineOptions) FileOutcome {
	outcome := FileOutcome{Path: path}

	pr, err := r.Pipeline.ProcessFile(ctx, path, opts.Config, pipelineOpts)
	if err != nil {
		outcome.Error = err
	} else {
		outcome.Result = pr
	}

	if opts.Logger != nil {
		if err != nil {
			opts.Logger.Debug("file failed", logging.FieldPath, path, logging.FieldError, err)
		} else {
			opts.Logger.Debug("file processed",
				logging.FieldPath, path,
				logging.FieldIssues, pr.IssueCount(),
				logging.FieldReparsed, pr.Reparses,
				"summary", pr.Summary())
		}
	}

	return outcome
}
