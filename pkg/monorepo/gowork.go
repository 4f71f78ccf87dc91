// SPDX-License-Identifier: MPL-2.0

package monorepo

import (
	"fmt"
	"path"
	"path/filepath"

	"github.com/invowk/reporoot/pkg/fspath"
	"github.com/invowk/reporoot/pkg/types"

	"golang.org/x/mod/modfile"
)

const (
	goWorkFile = "go.work"
	goModFile  = "go.mod"
)

// detectGoWork reads the use directives of go.work. Each module is named after
// the module path declared in its go.mod.
func detectGoWork(root string) ([]declaredPackage, bool, error) {
	workPath := filepath.Join(root, goWorkFile)
	data, ok, err := readOptional(workPath)
	if err != nil || !ok {
		return nil, ok, err
	}
	wf, err := modfile.ParseWork(workPath, data, nil)
	if err != nil {
		return nil, false, fmt.Errorf("parsing %s: %w", goWorkFile, err)
	}

	pkgs := make([]declaredPackage, 0, len(wf.Use))
	for _, use := range wf.Use {
		usePath := filepath.FromSlash(use.Path)
		if filepath.IsAbs(usePath) {
			rel, err := fspath.Rel(types.FilesystemPath(root), types.FilesystemPath(usePath))
			if err != nil {
				continue
			}
			usePath = rel
		}
		rel := path.Clean(filepath.ToSlash(usePath))

		var name types.PackageName
		gomod, ok, err := readOptional(filepath.Join(root, filepath.FromSlash(rel), goModFile))
		if err != nil {
			return nil, false, fmt.Errorf("module %s: %w", rel, err)
		}
		if ok {
			name = types.PackageName(modfile.ModulePath(gomod))
		}
		pkgs = append(pkgs, declaredPackage{name: name, rel: rel})
	}
	return pkgs, true, nil
}
