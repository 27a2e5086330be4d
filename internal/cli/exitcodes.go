package cli

import (
	"errors"

	"github.com/yaklabco/hl7lint/pkg/fsutil"
	"github.com/yaklabco/hl7lint/pkg/lint"
	"github.com/yaklabco/hl7lint/pkg/parser/er7"
	"github.com/yaklabco/hl7lint/pkg/runner"
)

// Exit codes for hl7lint.
const (
	// ExitSuccess indicates successful execution with no issues.
	ExitSuccess = 0

	// ExitLintErrors indicates lint completed but found errors.
	ExitLintErrors = 1

	// ExitLintWarnings indicates lint completed but found warnings (when strict mode).
	ExitLintWarnings = 2

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// ErrLintIssuesFound is returned when lint issues decide the exit code.
var ErrLintIssuesFound = errors.New("lint issues found")

// errUsage marks invalid flag values and arguments.
var errUsage = errors.New("invalid usage")

// ExitError carries the exit code of a failed command.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }

func (e *ExitError) Unwrap() error { return e.Err }

// ExitCodeFromResult determines the exit code based on result and strict mode.
// Files that could not be read count as I/O failures.
func ExitCodeFromResult(result *runner.Result, strict bool) int {
	if result == nil {
		return ExitSuccess
	}

	switch {
	case result.Stats.Errors() > 0:
		return ExitLintErrors
	case strict && result.Stats.Warnings() > 0:
		return ExitLintWarnings
	case result.Stats.FilesErrored > 0:
		return ExitIOError
	default:
		return ExitSuccess
	}
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	switch {
	case errors.Is(err, errUsage):
		return ExitInvalidUsage
	case errors.Is(err, errConfig):
		return ExitConfigError
	case errors.Is(err, er7.ErrMalformedHeader):
		return ExitLintErrors
	case errors.Is(err, fsutil.ErrNotFound),
		errors.Is(err, lint.ErrFileNotFound),
		errors.Is(err, lint.ErrPermissionDenied),
		errors.Is(err, lint.ErrWriteFailure):
		return ExitIOError
	default:
		return ExitInternalError
	}
}
