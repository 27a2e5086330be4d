package lint

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/yaklabco/hl7lint/pkg/config"
	"github.com/yaklabco/hl7lint/pkg/fix"
	"github.com/yaklabco/hl7lint/pkg/fsutil"
	"github.com/yaklabco/hl7lint/pkg/hl7ast"
)

// DefaultMaxFixPasses caps the fix loop. Rules whose fixes keep producing
// new findings stop here.
const DefaultMaxFixPasses = 10

// Pipeline error categories.
var (
	ErrFileNotFound     = errors.New("file not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrParseFailure     = errors.New("parse failure")
	ErrWriteFailure     = errors.New("write failure")
)

// PipelineResult is the outcome of processing one file.
type PipelineResult struct {
	// FileResult is the lint result of the final content.
	*FileResult

	Path         string
	OriginalInfo *fsutil.FileInfo

	// Modified is set when fixes changed the content, and ModifiedContent
	// then holds the new bytes.
	Modified        bool
	ModifiedContent []byte

	// Skipped is set when the file changed on disk while it was processed.
	Skipped    bool
	SkipReason string

	Written bool

	FixPasses         int
	TotalEditsApplied int

	// Reparses counts incremental reparses run by the fix loop.
	Reparses int
}

// Summary describes the result in a few words.
func (pr *PipelineResult) Summary() string {
	switch {
	case pr.Skipped:
		return "skipped: " + pr.SkipReason
	case pr.Written:
		return "fixed"
	case pr.Modified:
		return "changes pending"
	case pr.FileResult != nil && pr.HasIssues():
		return "issues found"
	default:
		return "ok"
	}
}

// PipelineOptions controls a pipeline run.
type PipelineOptions struct {
	// Fix applies fix edits.
	Fix bool

	// DryRun computes fixes without writing them.
	DryRun bool

	// StrictRaceDetection re-hashes the file before writing instead of
	// comparing only size and mtime.
	StrictRaceDetection bool

	// MaxFixPasses limits the fix loop; 0 means DefaultMaxFixPasses.
	MaxFixPasses int
}

// DefaultPipelineOptions returns lint-only options with strict race detection.
func DefaultPipelineOptions() PipelineOptions {
	return PipelineOptions{StrictRaceDetection: true}
}

// PipelineOptionsFromConfig derives options from the command-line fields of cfg.
func PipelineOptionsFromConfig(cfg *config.Config) PipelineOptions {
	opts := DefaultPipelineOptions()
	if cfg != nil {
		opts.Fix = cfg.Fix
		opts.DryRun = cfg.DryRun
	}

	return opts
}

// Pipeline reads a message, lints it, applies fixes pass by pass and writes
// the result back safely.
type Pipeline struct {
	Engine *Engine
}

// NewPipeline creates a Pipeline.
func NewPipeline(engine *Engine) *Pipeline {
	return &Pipeline{Engine: engine}
}

// ProcessFile runs the pipeline over the file at path:
//  1. read and hash the file
//  2. lint, then apply fixes and lint again until no edits remain
//  3. stop for dry runs
//  4. skip the write if the file changed on disk meanwhile
//  5. write atomically, keeping the file mode
func (p *Pipeline) ProcessFile(ctx context.Context, path string, cfg *config.Config, opts PipelineOptions) (*PipelineResult, error) {
	content, info, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil, categorizeError(err)
	}

	result, err := p.ProcessContent(ctx, path, content, cfg, opts)
	if err != nil {
		return nil, err
	}

	result.OriginalInfo = info

	if !result.Modified || opts.DryRun {
		return result, nil
	}

	changed, err := p.checkModified(ctx, info, opts.StrictRaceDetection)
	if err != nil {
		return nil, err
	}

	if changed {
		result.Skipped = true
		result.SkipReason = "file modified during processing"

		return result, nil
	}

	if err := fsutil.WriteAtomic(ctx, path, result.ModifiedContent, info.Mode); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteFailure, err)
	}

	result.Written = true

	return result, nil
}

// ProcessContent runs the lint and fix loop over in-memory content.
func (p *Pipeline) ProcessContent(
	ctx context.Context,
	path string,
	content []byte,
	cfg *config.Config,
	opts PipelineOptions,
) (*PipelineResult, error) {
	result := &PipelineResult{Path: path}

	maxPasses := opts.MaxFixPasses
	if maxPasses <= 0 {
		maxPasses = DefaultMaxFixPasses
	}

	snapshot, err := p.Engine.Parser.Parse(ctx, path, content)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseFailure, err)
	}

	for pass := 0; ; pass++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("processing cancelled: %w", err)
		}

		fileResult, err := p.Engine.LintSnapshot(ctx, snapshot, cfg)
		if err != nil {
			return nil, err
		}

		result.FileResult = fileResult

		if !opts.Fix || len(fileResult.Edits) == 0 || pass == maxPasses {
			break
		}

		snapshot, err = p.applyFixes(ctx, snapshot, fileResult.Edits, result)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParseFailure, err)
		}

		result.FixPasses++
		result.TotalEditsApplied += len(fileResult.Edits)
		result.Modified = true
	}

	if result.Modified {
		result.ModifiedContent = snapshot.Content
	}

	return result, nil
}

// applyFixes turns edits into a new snapshot. A Reparser receives the
// edits one at a time, last first, so only touched segments are rebuilt.
func (p *Pipeline) applyFixes(
	ctx context.Context,
	snapshot *hl7ast.Snapshot,
	edits []fix.TextEdit,
	result *PipelineResult,
) (*hl7ast.Snapshot, error) {
	reparser, ok := p.Engine.Parser.(Reparser)
	if !ok {
		return p.Engine.Parser.Parse(ctx, snapshot.Path, fix.ApplyEdits(snapshot.Content, edits))
	}

	for _, edit := range fix.Sequence(edits) {
		next, err := reparser.Reparse(ctx, snapshot, edit)
		if err != nil {
			return nil, err
		}

		snapshot = next
		result.Reparses++
	}

	return snapshot, nil
}

func (p *Pipeline) checkModified(ctx context.Context, info *fsutil.FileInfo, strict bool) (bool, error) {
	check := fsutil.CheckModifiedQuick
	if strict {
		check = fsutil.CheckModified
	}

	changed, err := check(ctx, info)
	if err != nil {
		return false, fmt.Errorf("check modified: %w", err)
	}

	return changed, nil
}

func categorizeError(err error) error {
	switch {
	case errors.Is(err, fsutil.ErrNotFound), errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %w", ErrFileNotFound, err)
	case errors.Is(err, fsutil.ErrPermissionDenied), errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	default:
		return err
	}
}

// IsPipelineError reports whether err belongs to one of the pipeline categories.
func IsPipelineError(err error) bool {
	return errors.Is(err, ErrFileNotFound) ||
		errors.Is(err, ErrPermissionDenied) ||
		errors.Is(err, ErrParseFailure) ||
		errors.Is(err, ErrWriteFailure)
}
