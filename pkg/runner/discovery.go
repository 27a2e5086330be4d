package runner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
)

// Discover returns the absolute, sorted and de-duplicated message files
// named by opts.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, err
	}

	d := &discoverer{
		ctx:     ctx,
		workDir: workDir,
		exts:    opts.extensions(),
		opts:    opts,
		seen:    make(map[string]struct{}),
	}

	for _, input := range opts.paths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		abs := input
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(workDir, abs)
		}

		abs = filepath.Clean(abs)

		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", input, err)
		}

		if !info.IsDir() {
			if !d.ignored(abs) {
				d.add(abs)
			}

			continue
		}

		if err := d.walk(abs); err != nil {
			return nil, err
		}
	}

	slices.Sort(d.files)

	return d.files, nil
}

type discoverer struct {
	ctx     context.Context //nolint:containedctx // scoped to one Discover call
	workDir string
	exts    []string
	opts    Options
	seen    map[string]struct{}
	files   []string
}

func (d *discoverer) add(file string) {
	if _, ok := d.seen[file]; ok {
		return
	}

	d.seen[file] = struct{}{}
	d.files = append(d.files, file)
}

func (d *discoverer) walk(root string) error {
	err := filepath.WalkDir(root, func(p string, entry fs.DirEntry, walkErr error) error {
		if err := d.ctx.Err(); err != nil {
			return err
		}

		if walkErr != nil {
			if errors.Is(walkErr, fs.ErrPermission) {
				return nil
			}

			return walkErr
		}

		hidden := p != root && strings.HasPrefix(entry.Name(), ".")

		if entry.IsDir() {
			if hidden || d.ignored(p) {
				return filepath.SkipDir
			}

			return nil
		}

		if hidden || d.ignored(p) {
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			return d.symlink(p)
		}

		if d.hasExtension(p) {
			d.add(p)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("walk directory %s: %w", root, err)
	}

	return nil
}

// symlink handles a link found while walking. File links count as files;
// directory links are walked at their target when FollowSymlinks is set.
func (d *discoverer) symlink(link string) error {
	target, err := filepath.EvalSymlinks(link)
	if err != nil {
		return nil //nolint:nilerr // broken links are skipped
	}

	info, err := os.Stat(target)
	if err != nil {
		return nil //nolint:nilerr // unreadable targets are skipped
	}

	if !info.IsDir() {
		if d.hasExtension(link) {
			d.add(link)
		}

		return nil
	}

	if !d.opts.FollowSymlinks {
		return nil
	}

	return d.walk(target)
}

func (d *discoverer) hasExtension(p string) bool {
	ext := strings.ToLower(filepath.Ext(p))

	return slices.ContainsFunc(d.exts, func(e string) bool { return strings.ToLower(e) == ext })
}

func (d *discoverer) ignored(p string) bool {
	rel, err := filepath.Rel(d.workDir, p)
	if err != nil {
		rel = p
	}

	rel = filepath.ToSlash(rel)

	for _, pattern := range d.opts.Ignore {
		if matchGlob(filepath.ToSlash(pattern), rel) {
			return true
		}
	}

	return false
}

func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}

		return wd, nil
	}

	abs, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve working directory: %w", err)
	}

	return abs, nil
}

// matchGlob matches a slash-separated relative path against pattern.
// "**" matches zero or more whole segments; other segments use path.Match.
// A pattern without a slash also matches the base name, and a pattern that
// matches a directory matches everything below it.
func matchGlob(pattern, name string) bool {
	pattern = strings.TrimSuffix(pattern, "/")

	if !strings.Contains(pattern, "/") && !strings.Contains(pattern, "**") {
		if ok, _ := path.Match(pattern, path.Base(name)); ok {
			return true
		}
	}

	return matchSegments(strings.Split(pattern, "/"), strings.Split(name, "/"))
}

func matchSegments(pattern, name []string) bool {
	for len(pattern) > 0 {
		if pattern[0] == "**" {
			rest := pattern[1:]
			for i := 0; i <= len(name); i++ {
				if matchSegments(rest, name[i:]) {
					return true
				}
			}

			return false
		}

		if len(name) == 0 {
			return false
		}

		if ok, err := path.Match(pattern[0], name[0]); err != nil || !ok {
			return false
		}

		pattern, name = pattern[1:], name[1:]
	}

	// A fully matched prefix selects a directory and its contents.
	return true
}
