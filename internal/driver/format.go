// Package driver applies the formatter to files and directory trees.
package driver

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
	"github.com/tliron/commonlog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"

	"scilla/internal/format"
)

// SourcePattern selects contract and library files below a directory.
const SourcePattern = "**/*.{scilla,scillib}"

var (
	log = commonlog.GetLogger("scilla.driver")

	ErrNoSources = errors.New("format: no source files found")
)

// FormatOptions configures code formatting.
type FormatOptions struct {
	Check  bool
	Stdout bool
	// Jobs bounds concurrent files; zero means GOMAXPROCS.
	Jobs int
}

// FormatResult captures the result of formatting a single file.
type FormatResult struct {
	Path      string
	Changed   bool
	Err       error
	Formatted []byte
}

// FormatPaths formats the given files and directories, collecting sources
// recursively from directories. With Check set nothing is written and Changed
// reports whether the file would change. With Stdout set the formatted text is
// returned in the results and files are left untouched. Results are in path
// order.
func FormatPaths(ctx context.Context, fsys afero.Fs, paths []string, opts FormatOptions) ([]FormatResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	files, err := CollectSources(ctx, fsys, paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrNoSources
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	results := make([]FormatResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = formatFile(fsys, path, opts)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func formatFile(fsys afero.Fs, path string, opts FormatOptions) FormatResult {
	result := FormatResult{Path: path}

	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		result.Err = errors.Errorf("read: %w", err)
		return result
	}

	formatted, err := format.Source(string(data))
	if err != nil {
		log.Debugf("%s: %s", path, err)
		result.Err = err
		return result
	}

	out := []byte(formatted)
	result.Changed = !bytes.Equal(data, out)

	if opts.Check {
		return result
	}
	if opts.Stdout {
		result.Formatted = out
		return result
	}

	if result.Changed {
		mode := os.FileMode(0o644)
		if info, statErr := fsys.Stat(path); statErr == nil {
			mode = info.Mode()
		}
		if err := afero.WriteFile(fsys, path, out, mode.Perm()); err != nil {
			result.Err = errors.Errorf("write: %w", err)
			result.Changed = false
		}
	}
	return result
}

// CollectSources expands directories to the source files below them. Files
// named directly must still match SourcePattern. The result is sorted and free
// of duplicates.
func CollectSources(ctx context.Context, fsys afero.Fs, paths []string) ([]string, error) {
	seen := make(map[string]struct{})
	var files []string
	add := func(path string) {
		path = filepath.Clean(path)
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		files = append(files, path)
	}

	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		info, err := fsys.Stat(p)
		if err != nil {
			return nil, errors.Errorf("stat %s: %w", p, err)
		}

		if !info.IsDir() {
			if isSource(filepath.Base(p)) {
				add(p)
			}
			continue
		}

		err = afero.Walk(fsys, p, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if info.IsDir() {
				return nil
			}
			rel, err := filepath.Rel(p, path)
			if err != nil {
				return err
			}
			if isSource(filepath.ToSlash(rel)) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, errors.Errorf("walk %s: %w", p, err)
		}
	}

	slices.Sort(files)
	return files, nil
}

func isSource(rel string) bool {
	ok, err := doublestar.Match(SourcePattern, rel)
	return err == nil && ok
}
