// Package main is the entry point for the hl7lint CLI.
package main

import (
	"context"
	"errors"
	"os"

	"github.com/yaklabco/hl7lint/internal/cli"
	"github.com/yaklabco/hl7lint/internal/logging"

	// Registers the built-in rules.
	_ "github.com/yaklabco/hl7lint/pkg/lint/rules"
)

// Build-time variables set via ldflags.
//
//nolint:gochecknoglobals // Version variables must be package-level for ldflags injection
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	rootCmd := cli.NewRootCommand(cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	})

	err := rootCmd.ExecuteContext(context.Background())
	if err != nil && !errors.Is(err, cli.ErrLintIssuesFound) {
		logging.Default().Error("command failed", logging.FieldError, err)
	}

	return cli.ExitCode(err)
}
