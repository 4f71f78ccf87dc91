// SPDX-License-Identifier: MPL-2.0

package monorepo

import (
	"encoding/json"
	"fmt"
	"path"
	"path/filepath"

	"github.com/invowk/reporoot/pkg/types"

	"github.com/tailscale/hujson"
)

const rushFile = "rush.json"

type rushConfig struct {
	Projects []struct {
		PackageName   string `json:"packageName"`
		ProjectFolder string `json:"projectFolder"`
	} `json:"projects"`
}

// detectRush reads rush.json, which Rush writes as JSON with comments and
// trailing commas.
func detectRush(root string) ([]declaredPackage, bool, error) {
	data, ok, err := readOptional(filepath.Join(root, rushFile))
	if err != nil || !ok {
		return nil, ok, err
	}
	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, false, fmt.Errorf("parsing %s: %w", rushFile, err)
	}
	var cfg rushConfig
	if err := json.Unmarshal(std, &cfg); err != nil {
		return nil, false, fmt.Errorf("parsing %s: %w", rushFile, err)
	}

	pkgs := make([]declaredPackage, 0, len(cfg.Projects))
	for _, p := range cfg.Projects {
		if p.ProjectFolder == "" {
			continue
		}
		pkgs = append(pkgs, declaredPackage{
			name: types.PackageName(p.PackageName),
			rel:  path.Clean(filepath.ToSlash(p.ProjectFolder)),
		})
	}
	return pkgs, true, nil
}
