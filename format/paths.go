package format

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"
)

var log = commonlog.GetLogger("xmlalign.format")

// DefaultExtensions are the file extensions picked up when a directory is
// formatted.
var DefaultExtensions = []string{".xml"}

type PathOptions struct {
	Options
	Extensions []string
	Jobs       int
}

// FileResult is the outcome of formatting one file. Err holds per-file
// failures; they do not stop the other files.
type FileResult struct {
	Path      string
	Original  []byte
	Formatted []byte
	Changed   bool
	Elapsed   time.Duration
	Err       error
}

// FormatPaths formats every file named in paths, descending into
// directories for files with a matching extension. Files are processed in
// parallel; results come back sorted by path.
func FormatPaths(ctx context.Context, paths []string, opts PathOptions) ([]FileResult, error) {
	files, err := ExpandPaths(paths, opts.Extensions)
	if err != nil {
		return nil, err
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	results := make([]FileResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = formatFile(path, opts.Options)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func formatFile(path string, opts Options) FileResult {
	res := FileResult{Path: path}

	src, err := os.ReadFile(path)
	if err != nil {
		res.Err = err
		return res
	}
	res.Original = src

	out, err := Format(src, opts)
	if err != nil {
		log.Infof("%s: %v", path, err)
		res.Err = err
		return res
	}

	res.Formatted = out.Formatted
	res.Changed = out.Changed
	res.Elapsed = out.Elapsed
	log.Debugf("%s: formatted in %s (changed=%t)", path, out.Elapsed, out.Changed)
	return res
}

// ExpandPaths returns the files named by paths. Directories are walked for
// files whose extension is in exts; hidden directories are skipped. Files
// named directly are always included.
func ExpandPaths(paths []string, exts []string) ([]string, error) {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}

	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(root)
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if hasExtension(path, exts) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(files)
	return files, nil
}

func hasExtension(path string, exts []string) bool {
	ext := filepath.Ext(path)
	for _, e := range exts {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}
