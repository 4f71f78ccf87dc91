// SPDX-License-Identifier: MPL-2.0

package monorepo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/invowk/reporoot/pkg/fspath"
	"github.com/invowk/reporoot/pkg/types"

	"github.com/bmatcuk/doublestar"
	"golang.org/x/exp/slices"
)

// expandPatterns resolves workspace globs against root and returns the matching
// package directories relative to root, slash-separated and sorted. Patterns
// prefixed with "!" exclude, as do the entries of excludes. When manifest is
// non-empty, only directories containing that file are kept.
func expandPatterns(root string, patterns, excludes []string, manifest string) ([]string, error) {
	var includes []string
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		switch {
		case p == "":
		case strings.HasPrefix(p, "!"):
			excludes = append(excludes, strings.TrimPrefix(p, "!"))
		default:
			includes = append(includes, p)
		}
	}

	seen := make(map[string]bool)
	var dirs []string
	for _, pattern := range includes {
		pattern = strings.TrimPrefix(strings.TrimSuffix(pattern, "/"), "./")
		matches, err := doublestar.Glob(filepath.Join(root, filepath.FromSlash(pattern)))
		if err != nil {
			return nil, fmt.Errorf("expanding workspace pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			rel, err := fspath.Rel(types.FilesystemPath(root), types.FilesystemPath(m))
			if err != nil {
				continue
			}
			if seen[rel] || underNodeModules(rel) || !isDir(m) {
				continue
			}
			if manifest != "" && !fileExists(filepath.Join(m, manifest)) {
				continue
			}
			if excluded(rel, excludes) {
				continue
			}
			seen[rel] = true
			dirs = append(dirs, rel)
		}
	}
	slices.Sort(dirs)
	return dirs, nil
}

func excluded(rel string, excludes []string) bool {
	for _, ex := range excludes {
		ex = strings.TrimPrefix(strings.TrimSuffix(strings.TrimSpace(ex), "/"), "./")
		if ex == "" {
			continue
		}
		if ok, err := doublestar.Match(ex, rel); err == nil && ok {
			return true
		}
	}
	return false
}

func underNodeModules(rel string) bool {
	for _, part := range strings.Split(rel, "/") {
		if part == "node_modules" {
			return true
		}
	}
	return false
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
