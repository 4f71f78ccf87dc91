// SPDX-License-Identifier: MPL-2.0

package monorepo

import (
	"fmt"
	"path/filepath"

	"github.com/invowk/reporoot/pkg/types"

	"github.com/pelletier/go-toml/v2"
)

const cargoFile = "Cargo.toml"

type cargoManifest struct {
	Package *struct {
		Name string `toml:"name"`
	} `toml:"package"`
	Workspace *struct {
		Members []string `toml:"members"`
		Exclude []string `toml:"exclude"`
	} `toml:"workspace"`
}

func readCargoManifest(dir string) (*cargoManifest, bool, error) {
	data, ok, err := readOptional(filepath.Join(dir, cargoFile))
	if err != nil || !ok {
		return nil, ok, err
	}
	var m cargoManifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, false, fmt.Errorf("parsing %s: %w", cargoFile, err)
	}
	return &m, true, nil
}

// detectCargo recognises a Cargo.toml with a [workspace] table. A plain crate
// manifest is not a monorepo.
func detectCargo(root string) ([]declaredPackage, bool, error) {
	m, ok, err := readCargoManifest(root)
	if err != nil || !ok || m.Workspace == nil {
		return nil, false, err
	}

	dirs, err := expandPatterns(root, m.Workspace.Members, m.Workspace.Exclude, cargoFile)
	if err != nil {
		return nil, false, err
	}
	pkgs := make([]declaredPackage, 0, len(dirs))
	for _, rel := range dirs {
		member, _, err := readCargoManifest(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			return nil, false, fmt.Errorf("member %s: %w", rel, err)
		}
		var name types.PackageName
		if member.Package != nil {
			name = types.PackageName(member.Package.Name)
		}
		pkgs = append(pkgs, declaredPackage{name: name, rel: rel})
	}
	return pkgs, true, nil
}
