// Package watch re-lints message files as they change on disk. Each change
// is diffed against the last snapshot of the file and fed to the
// incremental reparser, so only the touched segments are rebuilt.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/yaklabco/hl7lint/internal/logging"
	"github.com/yaklabco/hl7lint/pkg/config"
	"github.com/yaklabco/hl7lint/pkg/fsutil"
	"github.com/yaklabco/hl7lint/pkg/hl7ast"
	"github.com/yaklabco/hl7lint/pkg/lint"
	"github.com/yaklabco/hl7lint/pkg/parser/er7"
)

// DefaultDebounce coalesces the bursts of events editors emit per save.
const DefaultDebounce = 100 * time.Millisecond

// Event is the outcome of one refresh of a watched file.
type Event struct {
	Path string

	// Snapshot and Result are nil when Err is set or the file was removed.
	Snapshot *hl7ast.Snapshot
	Result   *lint.FileResult

	Stats er7.ReparseStats

	// Incremental is set when the previous snapshot was reparsed rather
	// than the file parsed from scratch.
	Incremental bool

	Removed bool
	Err     error
}

// Options configures a Watcher.
type Options struct {
	Config   *config.Config
	Registry *lint.Registry

	// Extensions selects files inside watched directories. Empty means
	// the configured extensions.
	Extensions []string

	// Debounce is the quiet period before a changed file is refreshed.
	// 0 means DefaultDebounce.
	Debounce time.Duration

	Logger *log.Logger
}

// Watcher tracks the last snapshot of every watched file.
type Watcher struct {
	parser   *er7.Parser
	engine   *lint.Engine
	cfg      *config.Config
	exts     []string
	debounce time.Duration
	logger   *log.Logger

	fsw *fsnotify.Watcher

	mu    sync.Mutex
	snaps map[string]*hl7ast.Snapshot
	files map[string]bool
}

// New creates a Watcher. Close releases its file system watches.
func New(opts Options) (*Watcher, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.NewConfig()
	}

	registry := opts.Registry
	if registry == nil {
		registry = lint.DefaultRegistry
	}

	exts := opts.Extensions
	if len(exts) == 0 {
		exts = cfg.Extensions
	}

	if len(exts) == 0 {
		exts = config.DefaultExtensions()
	}

	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	parser := er7.New()

	return &Watcher{
		parser:   parser,
		engine:   lint.NewEngine(parser, registry),
		cfg:      cfg,
		exts:     exts,
		debounce: debounce,
		logger:   logger,
		fsw:      fsw,
		snaps:    make(map[string]*hl7ast.Snapshot),
		files:    make(map[string]bool),
	}, nil
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Add watches paths. Files are watched through their directory; directories
// are watched recursively for files with a message extension. It returns
// the message files found.
func (w *Watcher) Add(paths ...string) ([]string, error) {
	var found []string

	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", p, err)
		}

		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("watch %s: %w", p, err)
		}

		if !info.IsDir() {
			w.mu.Lock()
			w.files[abs] = true
			w.mu.Unlock()

			if err := w.fsw.Add(filepath.Dir(abs)); err != nil {
				return nil, fmt.Errorf("watch %s: %w", p, err)
			}

			found = append(found, abs)

			continue
		}

		files, err := w.addDir(abs)
		if err != nil {
			return nil, err
		}

		found = append(found, files...)
	}

	slices.Sort(found)

	return slices.Compact(found), nil
}

func (w *Watcher) addDir(root string) ([]string, error) {
	var found []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}

			if err := w.fsw.Add(path); err != nil {
				return fmt.Errorf("watch %s: %w", path, err)
			}

			return nil
		}

		if w.isMessage(path) {
			found = append(found, path)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	return found, nil
}

// isMessage reports whether path is watched: named explicitly or carrying
// a message extension.
func (w *Watcher) isMessage(path string) bool {
	w.mu.Lock()
	named := w.files[path]
	w.mu.Unlock()

	if named {
		return true
	}

	return slices.Contains(w.exts, strings.ToLower(filepath.Ext(path)))
}

// Refresh reads path and lints it. A file seen before is reparsed
// incrementally from its last snapshot using the difference between the
// two contents.
func (w *Watcher) Refresh(ctx context.Context, path string) Event {
	ev := Event{Path: path}

	content, _, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		if errors.Is(err, fsutil.ErrNotFound) {
			w.Forget(path)
			ev.Removed = true

			return ev
		}

		ev.Err = err

		return ev
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	prev := w.snaps[path]

	var snap *hl7ast.Snapshot

	if prev != nil {
		edit := hl7ast.DiffEdit(prev.Content, content)
		snap, ev.Stats, err = w.parser.ReparseWithStats(ctx, prev, edit)
		ev.Incremental = err == nil
	}

	if prev == nil || err != nil {
		snap, err = w.parser.Parse(ctx, path, content)
		ev.Incremental = false
		ev.Stats = er7.ReparseStats{Rebuilt: segmentCount(snap), Full: true}
	}

	if err != nil {
		delete(w.snaps, path)
		ev.Err = err

		return ev
	}

	w.snaps[path] = snap

	result, err := w.engine.LintSnapshot(ctx, snap, w.cfg)
	if err != nil {
		ev.Err = err

		return ev
	}

	ev.Snapshot = snap
	ev.Result = result

	return ev
}

// Forget drops the snapshot of path.
func (w *Watcher) Forget(path string) {
	w.mu.Lock()
	delete(w.snaps, path)
	w.mu.Unlock()
}

// Run delivers an Event to handle for every settled change until ctx is
// cancelled. handle is called from a single goroutine.
func (w *Watcher) Run(ctx context.Context, handle func(Event)) error {
	ready := make(chan string)

	var (
		timersMu sync.Mutex
		timers   = make(map[string]*time.Timer)
	)

	defer func() {
		timersMu.Lock()
		for _, t := range timers {
			t.Stop()
		}
		timersMu.Unlock()
	}()

	schedule := func(path string) {
		timersMu.Lock()
		defer timersMu.Unlock()

		if t, ok := timers[path]; ok {
			t.Reset(w.debounce)

			return
		}

		timers[path] = time.AfterFunc(w.debounce, func() {
			timersMu.Lock()
			delete(timers, path)
			timersMu.Unlock()

			select {
			case ready <- path:
			case <-ctx.Done():
			}
		})
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}

			w.logger.Warn("watch error", logging.FieldError, err)
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}

			w.handleFSEvent(ev, schedule)
		case path := <-ready:
			handle(w.Refresh(ctx, path))
		}
	}
}

func (w *Watcher) handleFSEvent(ev fsnotify.Event, schedule func(string)) {
	path := filepath.Clean(ev.Name)

	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if _, err := w.addDir(path); err != nil {
				w.logger.Warn("watch directory", logging.FieldPath, path, logging.FieldError, err)
			}

			return
		}
	}

	if !w.isMessage(path) {
		return
	}

	if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
		w.logger.Debug("changed", logging.FieldPath, path, logging.FieldOp, ev.Op.String())
		schedule(path)
	}
}

func segmentCount(snap *hl7ast.Snapshot) int {
	if snap == nil {
		return 0
	}

	return len(snap.Segments)
}
