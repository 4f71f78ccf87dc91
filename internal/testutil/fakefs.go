// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"io/fs"
	"path/filepath"
	"sync"
	"time"
)

type (
	// FakeFS is an in-memory tree answering Stat calls. Entries are keyed by
	// cleaned OS paths. It records every stat so tests can bound the work a
	// lookup performs.
	FakeFS struct {
		mu      sync.Mutex
		entries map[string]bool // path -> isDir
		stats   []string
	}

	fakeInfo struct {
		name string
		dir  bool
	}
)

// NewFakeFS creates an empty FakeFS.
func NewFakeFS() *FakeFS {
	return &FakeFS{entries: make(map[string]bool)}
}

// Dir registers a directory.
func (f *FakeFS) Dir(path string) *FakeFS {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[filepath.Clean(path)] = true
	return f
}

// File registers a regular file.
func (f *FakeFS) File(path string) *FakeFS {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[filepath.Clean(path)] = false
	return f
}

// Stat implements the lookup's filesystem interface.
func (f *FakeFS) Stat(name string) (fs.FileInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stats = append(f.stats, name)
	dir, ok := f.entries[filepath.Clean(name)]
	if !ok {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrNotExist}
	}
	return fakeInfo{name: filepath.Base(name), dir: dir}, nil
}

// Stats returns the paths passed to Stat, in call order.
func (f *FakeFS) Stats() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.stats...)
}

// FakeRoot returns the filesystem root used to build absolute paths for a
// FakeFS on the host platform ("/" or `C:\`).
func FakeRoot() string {
	if filepath.Separator == '\\' {
		return `C:\`
	}
	return "/"
}

// FakePath joins slash-separated parts under FakeRoot.
func FakePath(rel string) string {
	return filepath.Join(FakeRoot(), filepath.FromSlash(rel))
}

func (i fakeInfo) Name() string       { return i.name }
func (i fakeInfo) Size() int64        { return 0 }
func (i fakeInfo) ModTime() time.Time { return time.Time{} }
func (i fakeInfo) IsDir() bool        { return i.dir }
func (i fakeInfo) Sys() any           { return nil }

func (i fakeInfo) Mode() fs.FileMode {
	if i.dir {
		return fs.ModeDir | 0o755
	}
	return 0o644
}
