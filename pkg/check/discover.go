package check

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/snipsync/pkg/errors"
	"github.com/arthur-debert/snipsync/pkg/logging"
	"github.com/arthur-debert/snipsync/pkg/types"
)

// skipDirs are never descended into.
var skipDirs = map[string]bool{
	"node_modules": true,
	"vendor":       true,
}

// DiscoverOptions selects the documents of a workspace.
type DiscoverOptions struct {
	// Root is the workspace root; Dirs are resolved against it.
	Root string
	Dirs []string
	// IsDocument reports whether a file is a managed document.
	IsDocument func(path string) bool
	// Exclude skips a directory and everything below it.
	Exclude string
}

// Discover returns the absolute paths of every managed document under the
// configured directories, sorted and without duplicates. Hidden
// directories are skipped.
func Discover(fsys types.ReadFS, opts DiscoverOptions) ([]string, error) {
	logger := logging.GetLogger("check.discover")

	dirs := opts.Dirs
	if len(dirs) == 0 {
		dirs = []string{"."}
	}

	seen := make(map[string]bool)
	var docs []string
	var walk func(dir string) error
	walk = func(dir string) error {
		entries, err := fsys.ReadDir(dir)
		if err != nil {
			return errors.Wrapf(err, errors.ErrWorkspace, "cannot read directory %s", dir)
		}
		for _, entry := range entries {
			name := entry.Name()
			path := filepath.Join(dir, name)
			if entry.IsDir() {
				if strings.HasPrefix(name, ".") || skipDirs[name] || path == opts.Exclude {
					continue
				}
				if err := walk(path); err != nil {
					return err
				}
				continue
			}
			if opts.IsDocument != nil && !opts.IsDocument(path) {
				continue
			}
			if !seen[path] {
				seen[path] = true
				docs = append(docs, path)
			}
		}
		return nil
	}

	for _, d := range dirs {
		dir := d
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(opts.Root, dir)
		}
		if _, err := fsys.Stat(dir); err != nil {
			logger.Debug().Str("dir", dir).Msg("Document directory does not exist, skipping")
			continue
		}
		if err := walk(filepath.Clean(dir)); err != nil {
			return nil, err
		}
	}

	sort.Strings(docs)
	logger.Debug().Int("documents", len(docs)).Msg("Documents discovered")
	return docs, nil
}
