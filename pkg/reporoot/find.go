// SPDX-License-Identifier: MPL-2.0

package reporoot

import (
	"path/filepath"

	"github.com/invowk/reporoot/pkg/fspath"
	"github.com/invowk/reporoot/pkg/types"

	"github.com/charmbracelet/log"
)

// findRoot walks upward from start until stopFile exists under the candidate
// directory. The marker itself may be a file or a directory.
//
// When the parent of a candidate is not a directory, the walk stays on the
// previous candidate, which ends the search on the fixed-point check below.
// filepath.Dir is idempotent on "/", volume roots and UNC share roots, so the
// loop terminates there too.
func findRoot(fsys FileSystem, logger *log.Logger, start types.FilesystemPath, stopFile types.StopFile) (types.FilesystemPath, bool) {
	marker := filepath.FromSlash(string(stopFile))
	dir := start
	for {
		if exists(fsys, string(fspath.JoinStr(dir, marker))) {
			logger.Debug("stop file found", "dir", dir, "stopFile", stopFile)
			return dir, true
		}
		logger.Debug("stop file absent", "dir", dir)

		prev := dir
		dir = fspath.Dir(dir)
		if !isDir(fsys, string(dir)) {
			logger.Debug("parent is not a directory", "parent", dir)
			dir = prev
		}
		if dir == prev {
			return "", false
		}
	}
}
