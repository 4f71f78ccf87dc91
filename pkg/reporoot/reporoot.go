// SPDX-License-Identifier: MPL-2.0

package reporoot

import (
	"fmt"
	"io"
	"os"

	"github.com/invowk/reporoot/pkg/fspath"
	"github.com/invowk/reporoot/pkg/monorepo"
	"github.com/invowk/reporoot/pkg/types"

	"github.com/charmbracelet/log"
)

type (
	// Options configures a lookup. The zero value searches for ".git/HEAD"
	// upward from the current working directory.
	Options struct {
		// Path is the start directory. Paths starting with "." and other
		// relative paths are resolved against the working directory; empty
		// means the working directory itself.
		Path types.FilesystemPath
		// StopFile is the marker whose presence identifies the root.
		// Empty means types.DefaultStopFile.
		StopFile types.StopFile
		// StopOnMonorepoPackage narrows a monorepo root to the package
		// directory containing the start directory.
		StopOnMonorepoPackage bool

		// Detector recognises monorepos. Nil uses monorepo.NewDetector().
		Detector monorepo.Detector
		// FS is consulted for every existence and directory check. Nil uses
		// the os package.
		FS FileSystem
		// Getwd returns the working directory. Nil uses os.Getwd.
		Getwd func() (string, error)
		// Logger receives debug traces of the walk. Nil discards them.
		Logger *log.Logger
	}

	// Result describes a successful lookup.
	Result struct {
		// StartDir is the absolute directory the walk started from.
		StartDir types.FilesystemPath
		// StopFile is the marker that was searched for.
		StopFile types.StopFile
		// MarkerRoot is the directory where the stop file was found.
		MarkerRoot types.FilesystemPath
		// Root is MarkerRoot, or the enclosing monorepo package directory
		// when narrowing applied.
		Root types.FilesystemPath
		// Package names the package Root was narrowed to; empty otherwise.
		Package types.PackageName
	}
)

// Find returns the repository root above path using the default stop file.
// An empty path starts from the working directory.
func Find(path string) (types.FilesystemPath, error) {
	return FindWithOptions(Options{Path: types.FilesystemPath(path)})
}

// Cwd returns the repository root above the working directory.
func Cwd() (types.FilesystemPath, error) {
	return FindWithOptions(Options{})
}

// FindWithOptions returns the repository root described by opts.
func FindWithOptions(opts Options) (types.FilesystemPath, error) {
	res, err := Lookup(opts)
	if err != nil {
		return "", err
	}
	return res.Root, nil
}

// Lookup runs a lookup and reports how the root was reached.
func Lookup(opts Options) (*Result, error) {
	opts = opts.withDefaults()

	stopFile := opts.StopFile.OrDefault()
	if err := stopFile.Validate(); err != nil {
		return nil, &Error{
			Kind:    KindInvalidPath,
			Message: fmt.Sprintf("the stop file %q cannot be searched for", stopFile),
			Context: map[string]string{ContextStopFile: string(stopFile)},
			Cause:   err,
		}
	}

	start, err := opts.startDir()
	if err != nil {
		return nil, err
	}
	opts.Logger.Debug("searching for repo root", "start", start, "stopFile", stopFile)

	root, ok := findRoot(opts.FS, opts.Logger, start, stopFile)
	if !ok {
		return nil, newNotFound(string(start), string(stopFile))
	}

	res := &Result{StartDir: start, StopFile: stopFile, MarkerRoot: root, Root: root}
	if !opts.StopOnMonorepoPackage {
		return res, nil
	}
	if err := narrow(opts, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	if o.Detector == nil {
		o.Detector = monorepo.NewDetector(monorepo.WithLogger(o.Logger))
	}
	if o.FS == nil {
		o.FS = OSFileSystem()
	}
	if o.Getwd == nil {
		o.Getwd = os.Getwd
	}
	return o
}

// startDir resolves and validates the directory the walk starts from. Only a
// caller-supplied path is validated; the working directory is trusted.
func (o Options) startDir() (types.FilesystemPath, error) {
	if o.Path == "" {
		wd, err := o.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolving working directory: %w", err)
		}
		return fspath.Clean(types.FilesystemPath(wd)), nil
	}

	dir := o.Path
	if !fspath.IsAbs(o.Path) {
		wd, err := o.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolving working directory: %w", err)
		}
		dir = fspath.Join(types.FilesystemPath(wd), o.Path)
	}
	dir = fspath.Clean(dir)

	info, err := o.FS.Stat(string(dir))
	if err != nil {
		return "", newInvalidPath(string(dir), ErrPathNotExist,
			"the path passed into reporoot (%q) is not a valid path on the system", dir)
	}
	if !info.IsDir() {
		return "", newInvalidPath(string(dir), ErrPathNotDirectory,
			"the path passed into reporoot (%q) exists but is not a directory", dir)
	}
	return dir, nil
}
