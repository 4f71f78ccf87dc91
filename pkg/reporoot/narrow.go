// SPDX-License-Identifier: MPL-2.0

package reporoot

import (
	"fmt"

	"github.com/invowk/reporoot/pkg/fspath"
	"github.com/invowk/reporoot/pkg/monorepo"
	"github.com/invowk/reporoot/pkg/types"
)

// narrow replaces res.Root with the monorepo package directory that contains
// res.StartDir. Package paths relative to the marker root are resolved against
// it. When packages are nested, the deepest one wins; equal depths fall back to
// the smaller name so the result does not depend on map order. A root that is
// not a monorepo, or a start directory outside every package, keeps the marker
// root.
func narrow(opts Options, res *Result) error {
	pkgs, err := detectPackages(opts.Detector, res.MarkerRoot)
	if err != nil {
		return err
	}
	if pkgs == nil {
		opts.Logger.Debug("root is not a monorepo", "root", res.MarkerRoot)
		return nil
	}

	var (
		best     types.FilesystemPath
		bestName types.PackageName
	)
	for name, p := range pkgs {
		if err := p.Validate(); err != nil {
			opts.Logger.Debug("skipping package without a directory", "package", name)
			continue
		}
		dir := p
		if !fspath.IsAbs(dir) {
			dir = fspath.Join(res.MarkerRoot, dir)
		}
		dir = fspath.Clean(dir)
		if !fspath.Contains(dir, res.StartDir) {
			continue
		}
		if best == "" || len(dir) > len(best) || (len(dir) == len(best) && name < bestName) {
			best, bestName = dir, name
		}
	}

	if best == "" {
		opts.Logger.Debug("start directory is outside every package", "root", res.MarkerRoot, "packages", len(pkgs))
		return nil
	}
	opts.Logger.Debug("narrowed to monorepo package", "package", bestName, "dir", best)
	res.Root = best
	res.Package = bestName
	return nil
}

// detectPackages returns the packages of the monorepo rooted at root, or nil
// when root is not one. A monorepo.WorkspaceDetector is asked once through
// Detect.
func detectPackages(det monorepo.Detector, root types.FilesystemPath) (map[types.PackageName]types.FilesystemPath, error) {
	if wd, ok := det.(monorepo.WorkspaceDetector); ok {
		ws, err := wd.Detect(root)
		if err != nil {
			return nil, fmt.Errorf("%w at %s: %w", ErrDetection, root, err)
		}
		if ws == nil {
			return nil, nil
		}
		if ws.Packages == nil {
			return map[types.PackageName]types.FilesystemPath{}, nil
		}
		return ws.Packages, nil
	}

	mono, err := det.IsMonorepo(root)
	if err != nil {
		return nil, fmt.Errorf("%w at %s: %w", ErrDetection, root, err)
	}
	if !mono {
		return nil, nil
	}
	pkgs, err := det.Packages(root)
	if err != nil {
		return nil, fmt.Errorf("%w: listing packages at %s: %w", ErrDetection, root, err)
	}
	if pkgs == nil {
		pkgs = map[types.PackageName]types.FilesystemPath{}
	}
	return pkgs, nil
}
