package walker

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultExcludeDirs are pruned wherever a directory name contains one of them
// as a substring.
var DefaultExcludeDirs = []string{
	".git",
	"node_modules",
	"__pycache__",
	".mypy_cache",
	".venv",
	"venv",
	".env",
}

// DefaultExtensions selects Python sources.
var DefaultExtensions = []string{".py"}

type Options struct {
	// ExcludeDirs prunes any directory (and its subtree) whose base name
	// contains one of these substrings. The root itself is never pruned.
	ExcludeDirs []string

	// Extensions selects files by extension (".py"). Comparison is exact.
	Extensions []string

	// ExcludeGlobs are doublestar patterns matched against the slash-separated
	// path relative to the root, e.g. "**/tests/**" or "vendor/*.py".
	ExcludeGlobs []string

	// OnSkip, if set, is told about entries that could not be read.
	OnSkip func(path string, err error)
}

// Walk returns the candidate files under root in lexical order.
func Walk(ctx context.Context, root string, opts Options) ([]string, error) {
	if ctx == nil {
		return nil, fmt.Errorf("walk: nil context")
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("walk %s: not a directory", root)
	}
	for _, g := range opts.ExcludeGlobs {
		if !doublestar.ValidatePattern(g) {
			return nil, fmt.Errorf("walk: invalid exclude pattern %q", g)
		}
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if path == root {
				return err
			}
			if opts.OnSkip != nil {
				opts.OnSkip(path, err)
			}
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if path == root {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if isExcludedDir(d.Name(), opts.ExcludeDirs) || matchesAny(opts.ExcludeGlobs, rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if !hasExtension(d.Name(), opts.Extensions) {
			return nil
		}
		if matchesAny(opts.ExcludeGlobs, rel) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return files, nil
}

func isExcludedDir(name string, excluded []string) bool {
	for _, e := range excluded {
		if e != "" && strings.Contains(name, e) {
			return true
		}
	}
	return false
}

func hasExtension(name string, exts []string) bool {
	ext := filepath.Ext(name)
	if ext == "" {
		return false
	}
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

func matchesAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// Dirs returns root and every directory below it that Walk would descend into.
func Dirs(ctx context.Context, root string, opts Options) ([]string, error) {
	dirs := []string{root}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if path == root {
				return err
			}
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if path == root || !d.IsDir() {
			return nil
		}
		if Pruned(root, path, opts) {
			return filepath.SkipDir
		}
		dirs = append(dirs, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return dirs, nil
}

// Pruned reports whether path lies in a directory Walk skips. path itself is
// treated as a directory component.
func Pruned(root, path string, opts Options) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return false
	}
	rel = filepath.ToSlash(rel)
	if strings.HasPrefix(rel, "../") || rel == ".." {
		return true
	}
	parts := strings.Split(rel, "/")
	for i, p := range parts {
		if isExcludedDir(p, opts.ExcludeDirs) {
			return true
		}
		if matchesAny(opts.ExcludeGlobs, strings.Join(parts[:i+1], "/")) {
			return true
		}
	}
	return false
}
