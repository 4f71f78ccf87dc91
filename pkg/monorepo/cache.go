// SPDX-License-Identifier: MPL-2.0

package monorepo

import (
	"fmt"

	"github.com/invowk/reporoot/pkg/fspath"
	"github.com/invowk/reporoot/pkg/types"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of workspace roots a CachedDetector remembers.
const DefaultCacheSize = 64

// CachedDetector memoizes Detect results per directory. Misses (directories that
// are not monorepos) are cached too. It is safe for concurrent use.
type CachedDetector struct {
	inner WorkspaceDetector
	cache *lru.Cache[types.FilesystemPath, *Workspace]
}

// NewCachedDetector wraps inner with an LRU cache holding up to size entries.
// A size <= 0 uses DefaultCacheSize.
func NewCachedDetector(inner WorkspaceDetector, size int) (*CachedDetector, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[types.FilesystemPath, *Workspace](size)
	if err != nil {
		return nil, fmt.Errorf("creating detection cache: %w", err)
	}
	return &CachedDetector{inner: inner, cache: cache}, nil
}

// Detect returns the cached workspace for dir, detecting it on a miss.
// Errors are not cached.
func (c *CachedDetector) Detect(dir types.FilesystemPath) (*Workspace, error) {
	key := fspath.Clean(dir)
	if ws, ok := c.cache.Get(key); ok {
		return ws, nil
	}
	ws, err := c.inner.Detect(key)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, ws)
	return ws, nil
}

// IsMonorepo implements Detector.
func (c *CachedDetector) IsMonorepo(dir types.FilesystemPath) (bool, error) {
	ws, err := c.Detect(dir)
	if err != nil {
		return false, err
	}
	return ws != nil, nil
}

// Packages implements Detector.
func (c *CachedDetector) Packages(dir types.FilesystemPath) (map[types.PackageName]types.FilesystemPath, error) {
	ws, err := c.Detect(dir)
	if err != nil {
		return nil, err
	}
	if ws == nil {
		return map[types.PackageName]types.FilesystemPath{}, nil
	}
	return ws.Packages, nil
}

// Len returns the number of cached directories.
func (c *CachedDetector) Len() int {
	return c.cache.Len()
}
