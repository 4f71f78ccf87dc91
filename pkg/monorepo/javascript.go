// SPDX-License-Identifier: MPL-2.0

package monorepo

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/invowk/reporoot/pkg/types"

	"gopkg.in/yaml.v3"
)

const (
	packageJSON       = "package.json"
	pnpmWorkspaceFile = "pnpm-workspace.yaml"
	lernaFile         = "lerna.json"
	nxFile            = "nx.json"
	turboFile         = "turbo.json"
	nxProjectFile     = "project.json"
)

type (
	// packageManifest is the subset of package.json read here.
	packageManifest struct {
		Name       string          `json:"name"`
		Workspaces json.RawMessage `json:"workspaces"`
	}

	lernaConfig struct {
		Packages      []string `json:"packages"`
		UseWorkspaces bool     `json:"useWorkspaces"`
	}

	nxConfig struct {
		WorkspaceLayout struct {
			AppsDir string `json:"appsDir"`
			LibsDir string `json:"libsDir"`
		} `json:"workspaceLayout"`
	}

	nxProject struct {
		Name string `json:"name"`
	}

	pnpmWorkspace struct {
		Packages []string `yaml:"packages"`
	}
)

// workspacePatterns decodes the package.json "workspaces" field, which is either
// an array of globs or an object with a "packages" array (yarn classic).
func (m *packageManifest) workspacePatterns() ([]string, error) {
	if len(m.Workspaces) == 0 || string(m.Workspaces) == "null" {
		return nil, nil
	}
	var list []string
	if err := json.Unmarshal(m.Workspaces, &list); err == nil {
		return list, nil
	}
	var obj struct {
		Packages []string `json:"packages"`
	}
	if err := json.Unmarshal(m.Workspaces, &obj); err != nil {
		return nil, fmt.Errorf("workspaces must be an array or an object with packages: %w", err)
	}
	return obj.Packages, nil
}

func readPackageManifest(dir string) (*packageManifest, bool, error) {
	data, ok, err := readOptional(filepath.Join(dir, packageJSON))
	if err != nil || !ok {
		return nil, ok, err
	}
	var m packageManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, false, fmt.Errorf("parsing %s: %w", packageJSON, err)
	}
	return &m, true, nil
}

// jsPackages expands patterns into directories holding a package.json and names
// each one after the manifest's "name" field.
func jsPackages(root string, patterns []string) ([]declaredPackage, error) {
	dirs, err := expandPatterns(root, patterns, nil, packageJSON)
	if err != nil {
		return nil, err
	}
	pkgs := make([]declaredPackage, 0, len(dirs))
	for _, rel := range dirs {
		m, _, err := readPackageManifest(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			return nil, fmt.Errorf("package %s: %w", rel, err)
		}
		pkgs = append(pkgs, declaredPackage{name: types.PackageName(m.Name), rel: rel})
	}
	return pkgs, nil
}

// rootWorkspacePatterns returns the workspace globs declared by the root
// package.json, falling back to pnpm-workspace.yaml.
func rootWorkspacePatterns(root string) ([]string, error) {
	m, ok, err := readPackageManifest(root)
	if err != nil {
		return nil, err
	}
	if ok {
		patterns, err := m.workspacePatterns()
		if err != nil {
			return nil, err
		}
		if len(patterns) > 0 {
			return patterns, nil
		}
	}
	ws, ok, err := readPnpmWorkspace(root)
	if err != nil || !ok {
		return nil, err
	}
	return ws.Packages, nil
}

func readPnpmWorkspace(root string) (*pnpmWorkspace, bool, error) {
	data, ok, err := readOptional(filepath.Join(root, pnpmWorkspaceFile))
	if err != nil || !ok {
		return nil, ok, err
	}
	var ws pnpmWorkspace
	if err := yaml.Unmarshal(data, &ws); err != nil {
		return nil, false, fmt.Errorf("parsing %s: %w", pnpmWorkspaceFile, err)
	}
	return &ws, true, nil
}

func detectPnpm(root string) ([]declaredPackage, bool, error) {
	ws, ok, err := readPnpmWorkspace(root)
	if err != nil || !ok {
		return nil, ok, err
	}
	pkgs, err := jsPackages(root, ws.Packages)
	return pkgs, true, err
}

func detectLerna(root string) ([]declaredPackage, bool, error) {
	data, ok, err := readOptional(filepath.Join(root, lernaFile))
	if err != nil || !ok {
		return nil, ok, err
	}
	var cfg lernaConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, false, fmt.Errorf("parsing %s: %w", lernaFile, err)
	}

	patterns := cfg.Packages
	if cfg.UseWorkspaces || len(patterns) == 0 {
		fromRoot, err := rootWorkspacePatterns(root)
		if err != nil {
			return nil, false, err
		}
		if len(fromRoot) > 0 {
			patterns = fromRoot
		}
	}
	if len(patterns) == 0 {
		patterns = []string{"packages/*"}
	}
	pkgs, err := jsPackages(root, patterns)
	return pkgs, true, err
}

func detectNx(root string) ([]declaredPackage, bool, error) {
	data, ok, err := readOptional(filepath.Join(root, nxFile))
	if err != nil || !ok {
		return nil, ok, err
	}
	var cfg nxConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, false, fmt.Errorf("parsing %s: %w", nxFile, err)
	}

	patterns, err := rootWorkspacePatterns(root)
	if err != nil {
		return nil, false, err
	}
	if len(patterns) > 0 {
		pkgs, err := jsPackages(root, patterns)
		return pkgs, true, err
	}

	// Integrated nx repos have no workspaces; projects are the directories
	// holding a project.json under the apps and libs directories.
	appsDir, libsDir := cfg.WorkspaceLayout.AppsDir, cfg.WorkspaceLayout.LibsDir
	if appsDir == "" {
		appsDir = "apps"
	}
	if libsDir == "" {
		libsDir = "libs"
	}
	var projects []string
	for _, base := range []string{appsDir, libsDir} {
		dirs, err := expandPatterns(root, []string{base + "/**"}, nil, nxProjectFile)
		if err != nil {
			return nil, false, err
		}
		projects = append(projects, dirs...)
	}

	pkgs := make([]declaredPackage, 0, len(projects))
	for _, rel := range projects {
		raw, _, err := readOptional(filepath.Join(root, filepath.FromSlash(rel), nxProjectFile))
		if err != nil {
			return nil, false, err
		}
		var p nxProject
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, false, fmt.Errorf("parsing %s/%s: %w", rel, nxProjectFile, err)
		}
		pkgs = append(pkgs, declaredPackage{name: types.PackageName(p.Name), rel: rel})
	}
	return pkgs, true, nil
}

func detectTurbo(root string) ([]declaredPackage, bool, error) {
	if !fileExists(filepath.Join(root, turboFile)) {
		return nil, false, nil
	}
	patterns, err := rootWorkspacePatterns(root)
	if err != nil {
		return nil, false, err
	}
	pkgs, err := jsPackages(root, patterns)
	return pkgs, true, err
}

func detectNpm(root string) ([]declaredPackage, bool, error) {
	m, ok, err := readPackageManifest(root)
	if err != nil || !ok {
		return nil, false, err
	}
	patterns, err := m.workspacePatterns()
	if err != nil {
		return nil, false, err
	}
	if len(patterns) == 0 {
		return nil, false, nil
	}
	pkgs, err := jsPackages(root, patterns)
	return pkgs, true, err
}
