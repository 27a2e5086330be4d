// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
)

// defaultLogger is the package-level default logger instance.
//
//nolint:gochecknoglobals // Package-level logger is intentional for convenience
var (
	defaultLogger   *log.Logger
	defaultLoggerMu sync.RWMutex
)

// Format names an output encoding for log records.
type Format string

const (
	FormatText   Format = "text"
	FormatJSON   Format = "json"
	FormatLogfmt Format = "logfmt"
)

// Options configures NewWithOptions.
type Options struct {
	// Level is "debug", "info", "warn" or "error". Empty means info.
	Level string

	// Format selects the record encoding. Empty means text.
	Format Format

	// Writer receives log output. Nil means stderr.
	Writer io.Writer

	// Prefix is printed before every message, e.g. "lsp".
	Prefix string

	// Timestamps adds a time field to every record.
	Timestamps bool
}

// New creates a new stderr logger with the specified level.
// Valid levels: "debug", "info", "warn", "error".
func New(level string) *log.Logger {
	return NewWithOptions(Options{Level: level})
}

// NewWithOptions creates a logger from opts.
func NewWithOptions(opts Options) *log.Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: opts.Timestamps,
		TimeFormat:      time.RFC3339,
		Prefix:          opts.Prefix,
		Formatter:       formatter(opts.Format),
	})
	logger.SetLevel(ParseLevel(opts.Level))

	return logger
}

// NewInteractive creates a logger for terminal sessions. Timestamps are
// shown only when stderr is not a terminal, so that piped output stays
// correlatable.
func NewInteractive() *log.Logger {
	fd := os.Stderr.Fd()
	tty := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)

	return NewWithOptions(Options{Level: "info", Timestamps: !tty})
}

// NewServer creates a logger for long-running servers: JSON records with
// timestamps, written to w.
func NewServer(w io.Writer, level string) *log.Logger {
	return NewWithOptions(Options{
		Level:      level,
		Format:     FormatJSON,
		Writer:     w,
		Timestamps: true,
	})
}

// ParseLevel maps a level name to a log.Level. Unknown names map to info.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

func formatter(f Format) log.Formatter {
	switch f {
	case FormatJSON:
		return log.JSONFormatter
	case FormatLogfmt:
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}

// Default returns the package-level default logger.
func Default() *log.Logger {
	defaultLoggerMu.RLock()
	logger := defaultLogger
	defaultLoggerMu.RUnlock()

	if logger != nil {
		return logger
	}

	defaultLoggerMu.Lock()
	defer defaultLoggerMu.Unlock()

	if defaultLogger == nil {
		defaultLogger = New("info")
	}

	return defaultLogger
}

// SetDefault sets the package-level default logger.
func SetDefault(logger *log.Logger) {
	defaultLoggerMu.Lock()
	defaultLogger = logger
	defaultLoggerMu.Unlock()
}

// SetLevel updates the log level of the default logger.
func SetLevel(level string) {
	Default().SetLevel(ParseLevel(level))
}
