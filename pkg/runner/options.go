// Package runner lints many message files concurrently.
package runner

import (
	"slices"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/hl7lint/pkg/config"
)

// Options controls multi-file linting behavior.
type Options struct {
	// Paths are files or directories to process. Empty means the working
	// directory.
	Paths []string

	// WorkingDir resolves relative Paths. Empty means the process working
	// directory.
	WorkingDir string

	// Extensions are the lowercase file extensions, dot included, treated
	// as messages when walking directories. Files named explicitly are
	// always processed.
	Extensions []string

	// Ignore holds glob patterns, relative to WorkingDir, for files and
	// directories to skip. "**" matches any number of path segments.
	Ignore []string

	// FollowSymlinks walks into symlinked directories.
	FollowSymlinks bool

	// Jobs caps concurrent workers. 0 or less means runtime.NumCPU().
	Jobs int

	// Config is the resolved configuration for this run.
	Config *config.Config

	// Logger receives per-file debug records. Nil disables them.
	Logger *log.Logger
}

// OptionsFromConfig builds Options for paths using the discovery and
// concurrency settings in cfg.
func OptionsFromConfig(cfg *config.Config, paths []string) Options {
	opts := Options{Paths: paths, Config: cfg}
	if cfg != nil {
		opts.Extensions = slices.Clone(cfg.Extensions)
		opts.Ignore = slices.Clone(cfg.Ignore)
		opts.Jobs = cfg.Jobs
	}

	return opts
}

func (o Options) extensions() []string {
	if len(o.Extensions) == 0 {
		return config.DefaultExtensions()
	}

	return o.Extensions
}

func (o Options) paths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}

	return o.Paths
}
