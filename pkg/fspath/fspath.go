// SPDX-License-Identifier: MPL-2.0

// Package fspath provides typed wrappers around path/filepath that accept and
// return types.FilesystemPath, plus the containment check used when narrowing a
// repository root to a package directory.
package fspath

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/invowk/reporoot/pkg/types"
)

// Join wraps filepath.Join for FilesystemPath.
func Join(elem ...types.FilesystemPath) types.FilesystemPath {
	strs := make([]string, len(elem))
	for i, e := range elem {
		strs[i] = string(e)
	}
	return types.FilesystemPath(filepath.Join(strs...))
}

// JoinStr joins a typed base with raw string segments such as marker names
// or manifest-declared relative paths.
func JoinStr(base types.FilesystemPath, elem ...string) types.FilesystemPath {
	parts := make([]string, 1, 1+len(elem))
	parts[0] = string(base)
	parts = append(parts, elem...)
	return types.FilesystemPath(filepath.Join(parts...))
}

// Dir wraps filepath.Dir for FilesystemPath.
func Dir(p types.FilesystemPath) types.FilesystemPath {
	return types.FilesystemPath(filepath.Dir(string(p)))
}

// Clean wraps filepath.Clean for FilesystemPath.
func Clean(p types.FilesystemPath) types.FilesystemPath {
	return types.FilesystemPath(filepath.Clean(string(p)))
}

// FromSlash converts a manifest-style forward-slash path to the OS separator.
func FromSlash(p string) types.FilesystemPath {
	return types.FilesystemPath(filepath.FromSlash(p))
}

// IsAbs wraps filepath.IsAbs for FilesystemPath.
func IsAbs(p types.FilesystemPath) bool {
	return filepath.IsAbs(string(p))
}

// Rel wraps filepath.Rel and returns the result with forward slashes, which is
// how package locations are reported regardless of platform.
func Rel(base, target types.FilesystemPath) (string, error) {
	rel, err := filepath.Rel(string(base), string(target))
	if err != nil {
		return "", fmt.Errorf("relativizing %s against %s: %w", target, base, err)
	}
	return filepath.ToSlash(rel), nil
}

// Contains reports whether dir is parent itself or lies below it. Comparison is
// on cleaned paths and respects separator boundaries, so "/repo/pkg-a" does not
// contain "/repo/pkg-ab".
func Contains(parent, dir types.FilesystemPath) bool {
	p := filepath.Clean(string(parent))
	d := filepath.Clean(string(dir))
	if p == d {
		return true
	}
	if !strings.HasSuffix(p, string(filepath.Separator)) {
		p += string(filepath.Separator)
	}
	return strings.HasPrefix(d, p)
}
