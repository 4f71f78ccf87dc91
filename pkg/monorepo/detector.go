// SPDX-License-Identifier: MPL-2.0

package monorepo

import (
	"fmt"
	"io"
	"os"

	"github.com/invowk/reporoot/pkg/fspath"
	"github.com/invowk/reporoot/pkg/types"

	"github.com/charmbracelet/log"
	"golang.org/x/exp/slices"
)

type (
	// Detector answers whether a directory is the root of a monorepo and, if it
	// is, which packages it declares. Package paths may be relative to dir or
	// absolute.
	Detector interface {
		IsMonorepo(dir types.FilesystemPath) (bool, error)
		Packages(dir types.FilesystemPath) (map[types.PackageName]types.FilesystemPath, error)
	}

	// WorkspaceDetector is implemented by detectors that can report the full
	// workspace description in a single call.
	WorkspaceDetector interface {
		Detect(dir types.FilesystemPath) (*Workspace, error)
	}

	// Workspace describes a detected monorepo.
	Workspace struct {
		// Tool is the convention whose manifest matched.
		Tool Tool
		// Root is the directory holding the manifest.
		Root types.FilesystemPath
		// Packages maps package names to directories relative to Root.
		Packages map[types.PackageName]types.FilesystemPath
	}

	// FileDetector detects monorepos by reading tool manifests from disk.
	FileDetector struct {
		tools  []Tool
		logger *log.Logger
	}

	// Option configures a FileDetector.
	Option func(*FileDetector)

	// toolDetector inspects root for one tool. It returns ok=false when the tool's marker
	// is absent, and the package directories (relative, slash-separated) otherwise.
	toolDetector func(root string) (pkgs []declaredPackage, ok bool, err error)

	declaredPackage struct {
		name types.PackageName
		rel  string
	}
)

var detectors = map[Tool]toolDetector{
	ToolRush:   detectRush,
	ToolPnpm:   detectPnpm,
	ToolLerna:  detectLerna,
	ToolNx:     detectNx,
	ToolTurbo:  detectTurbo,
	ToolNpm:    detectNpm,
	ToolCargo:  detectCargo,
	ToolGoWork: detectGoWork,
}

// WithTools restricts detection to the given tools, keeping detection order.
func WithTools(tools ...Tool) Option {
	return func(d *FileDetector) {
		d.tools = d.tools[:0]
		for _, t := range AllTools() {
			if slices.Contains(tools, t) {
				d.tools = append(d.tools, t)
			}
		}
	}
}

// WithLogger sets the logger used for detection diagnostics.
func WithLogger(logger *log.Logger) Option {
	return func(d *FileDetector) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// NewDetector creates a FileDetector that checks every supported tool.
func NewDetector(opts ...Option) *FileDetector {
	d := &FileDetector{
		tools:  AllTools(),
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Tools returns the tools this detector checks, in order.
func (d *FileDetector) Tools() []Tool {
	return slices.Clone(d.tools)
}

// Detect returns the workspace rooted at dir, or nil when no supported
// manifest declares one there.
func (d *FileDetector) Detect(dir types.FilesystemPath) (*Workspace, error) {
	if err := dir.Validate(); err != nil {
		return nil, err
	}
	root := string(fspath.Clean(dir))
	for _, tool := range d.tools {
		pkgs, ok, err := detectors[tool](root)
		if err != nil {
			return nil, fmt.Errorf("reading %s workspace in %s: %w", tool, root, err)
		}
		if !ok {
			continue
		}

		ws := &Workspace{
			Tool:     tool,
			Root:     types.FilesystemPath(root),
			Packages: make(map[types.PackageName]types.FilesystemPath, len(pkgs)),
		}
		for _, p := range pkgs {
			d.addPackage(ws, p)
		}
		d.logger.Debug("monorepo detected", "tool", tool, "root", root, "packages", len(ws.Packages))
		return ws, nil
	}
	return nil, nil
}

// addPackage records p under its declared name. Packages without a usable name,
// or whose name is already taken, are keyed by their relative path. A package
// whose path key is taken as well is dropped.
func (d *FileDetector) addPackage(ws *Workspace, p declaredPackage) {
	name := p.name
	if err := name.Validate(); err != nil {
		name = types.PackageName(p.rel)
	}
	if _, dup := ws.Packages[name]; dup {
		d.logger.Warn("duplicate package name, keying by path", "name", name, "path", p.rel)
		name = types.PackageName(p.rel)
		if _, dup := ws.Packages[name]; dup {
			d.logger.Warn("package path already used as a name, skipping", "path", p.rel)
			return
		}
	}
	ws.Packages[name] = fspath.FromSlash(p.rel)
}

// IsMonorepo implements Detector.
func (d *FileDetector) IsMonorepo(dir types.FilesystemPath) (bool, error) {
	ws, err := d.Detect(dir)
	if err != nil {
		return false, err
	}
	return ws != nil, nil
}

// Packages implements Detector. A directory that is not a monorepo yields an
// empty map.
func (d *FileDetector) Packages(dir types.FilesystemPath) (map[types.PackageName]types.FilesystemPath, error) {
	ws, err := d.Detect(dir)
	if err != nil {
		return nil, err
	}
	if ws == nil {
		return map[types.PackageName]types.FilesystemPath{}, nil
	}
	return ws.Packages, nil
}

// Names returns the package names sorted alphabetically.
func (w *Workspace) Names() []types.PackageName {
	names := make([]types.PackageName, 0, len(w.Packages))
	for name := range w.Packages {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Abs returns the absolute directory of the named package.
func (w *Workspace) Abs(name types.PackageName) (types.FilesystemPath, bool) {
	rel, ok := w.Packages[name]
	if !ok {
		return "", false
	}
	return fspath.Join(w.Root, rel), true
}

// fileExists reports whether path exists, whatever its type.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// readOptional returns the file contents, or ok=false when it does not exist.
func readOptional(path string) (data []byte, ok bool, err error) {
	data, err = os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}
