// SPDX-License-Identifier: MPL-2.0

package reporoot

import (
	"io/fs"
	"os"
)

type (
	// FileSystem is the filesystem view the lookup needs. Stat follows symlinks.
	FileSystem interface {
		Stat(name string) (fs.FileInfo, error)
	}

	osFS struct{}
)

// OSFileSystem returns the FileSystem backed by the os package.
func OSFileSystem() FileSystem { return osFS{} }

func (osFS) Stat(name string) (fs.FileInfo, error) { return os.Stat(name) }

func exists(fsys FileSystem, path string) bool {
	_, err := fsys.Stat(path)
	return err == nil
}

func isDir(fsys FileSystem, path string) bool {
	info, err := fsys.Stat(path)
	return err == nil && info.IsDir()
}
