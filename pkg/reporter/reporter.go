// Package reporter writes lint results as styled text, JSON or summary
// tables.
package reporter

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/yaklabco/hl7lint/pkg/runner"
)

// Reporter formats and writes lint results.
type Reporter interface {
	// Report writes result and returns the number of issues it reported.
	Report(ctx context.Context, result *runner.Result) (int, error)
}

// Format names a reporter.
type Format string

// Output formats.
const (
	FormatText    Format = "text"
	FormatJSON    Format = "json"
	FormatSummary Format = "summary"
)

//nolint:gochecknoglobals // constructor table keyed by format
var constructors = map[Format]func(Options) Reporter{
	FormatText:    func(o Options) Reporter { return NewTextReporter(o) },
	FormatJSON:    func(o Options) Reporter { return NewJSONReporter(o) },
	FormatSummary: func(o Options) Reporter { return NewSummaryReporter(o) },
}

// Formats returns the known formats in sorted order.
func Formats() []Format {
	formats := make([]Format, 0, len(constructors))
	for f := range constructors {
		formats = append(formats, f)
	}

	slices.Sort(formats)

	return formats
}

// ParseFormat maps a name to a Format. The empty name means text.
func ParseFormat(name string) (Format, error) {
	if name == "" {
		return FormatText, nil
	}

	if f := Format(name); f.IsValid() {
		return f, nil
	}

	names := make([]string, 0, len(constructors))
	for _, f := range Formats() {
		names = append(names, string(f))
	}

	return "", fmt.Errorf("unknown format %q; valid formats: %s", name, strings.Join(names, ", "))
}

func (f Format) String() string { return string(f) }

// IsValid reports whether f names a reporter.
func (f Format) IsValid() bool {
	_, ok := constructors[f]

	return ok
}

// New creates the reporter for opts.Format, text when unset.
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}

	if opts.Format == "" {
		opts.Format = FormatText
	}

	build, ok := constructors[opts.Format]
	if !ok {
		return nil, fmt.Errorf("unsupported format: %s", opts.Format)
	}

	return build(opts), nil
}
