// SPDX-License-Identifier: MPL-2.0

package reporoot

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/invowk/reporoot/internal/testutil"
	"github.com/invowk/reporoot/pkg/monorepo"
	"github.com/invowk/reporoot/pkg/types"
)

type fakeDetector struct {
	mono     bool
	packages map[types.PackageName]types.FilesystemPath
	err      error
	queried  []types.FilesystemPath
}

func (d *fakeDetector) IsMonorepo(dir types.FilesystemPath) (bool, error) {
	d.queried = append(d.queried, dir)
	return d.mono, d.err
}

func (d *fakeDetector) Packages(types.FilesystemPath) (map[types.PackageName]types.FilesystemPath, error) {
	return d.packages, nil
}

// workspaceDetector also answers Detect and counts every call it receives.
type workspaceDetector struct {
	ws                        *monorepo.Workspace
	detects, monos, listCalls int
}

func (d *workspaceDetector) Detect(types.FilesystemPath) (*monorepo.Workspace, error) {
	d.detects++
	return d.ws, nil
}

func (d *workspaceDetector) IsMonorepo(types.FilesystemPath) (bool, error) {
	d.monos++
	return d.ws != nil, nil
}

func (d *workspaceDetector) Packages(types.FilesystemPath) (map[types.PackageName]types.FilesystemPath, error) {
	d.listCalls++
	return d.ws.Packages, nil
}

// setupMonorepo creates <tmp>/.git/HEAD plus the given directories and returns <tmp>.
func setupMonorepo(t *testing.T, dirs ...string) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{".git/HEAD": "ref: refs/heads/main\n"}
	for _, d := range dirs {
		files[d+"/"] = ""
	}
	testutil.WriteTree(t, root, files)
	return root
}

func TestLookup_NarrowsToContainingPackage(t *testing.T) {
	t.Parallel()

	root := setupMonorepo(t, "packages/pkg-a/src")
	det := &fakeDetector{
		mono:     true,
		packages: map[types.PackageName]types.FilesystemPath{"pkg-a": "packages/pkg-a"},
	}

	res, err := Lookup(Options{
		Path:                  types.FilesystemPath(filepath.Join(root, "packages", "pkg-a", "src")),
		StopOnMonorepoPackage: true,
		Detector:              det,
	})
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if want := filepath.Join(root, "packages", "pkg-a"); string(res.Root) != want {
		t.Errorf("Root = %q, want %q", res.Root, want)
	}
	if res.Package != "pkg-a" {
		t.Errorf("Package = %q, want %q", res.Package, "pkg-a")
	}
	if string(res.MarkerRoot) != root {
		t.Errorf("MarkerRoot = %q, want %q", res.MarkerRoot, root)
	}
	if len(det.queried) != 1 || string(det.queried[0]) != root {
		t.Errorf("detector queried %v, want [%s]", det.queried, root)
	}
}

func TestLookup_NarrowingFallbacks(t *testing.T) {
	t.Parallel()

	root := setupMonorepo(t, "packages/pkg-a", "packages/pkg-ab/src", "tools")

	tests := []struct {
		name   string
		det    *fakeDetector
		start  string
		narrow bool
		want   string
	}{
		{
			name:   "narrowing disabled",
			det:    &fakeDetector{mono: true, packages: map[types.PackageName]types.FilesystemPath{"pkg-a": "packages/pkg-a"}},
			start:  "packages/pkg-a",
			narrow: false,
			want:   "",
		},
		{
			name:   "not a monorepo",
			det:    &fakeDetector{mono: false},
			start:  "packages/pkg-a",
			narrow: true,
			want:   "",
		},
		{
			name:   "outside every package",
			det:    &fakeDetector{mono: true, packages: map[types.PackageName]types.FilesystemPath{"pkg-a": "packages/pkg-a"}},
			start:  "tools",
			narrow: true,
			want:   "",
		},
		{
			name:   "sibling sharing a name prefix",
			det:    &fakeDetector{mono: true, packages: map[types.PackageName]types.FilesystemPath{"pkg-a": "packages/pkg-a"}},
			start:  "packages/pkg-ab/src",
			narrow: true,
			want:   "",
		},
		{
			name:   "empty package map",
			det:    &fakeDetector{mono: true},
			start:  "packages/pkg-a",
			narrow: true,
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := FindWithOptions(Options{
				Path:                  types.FilesystemPath(filepath.Join(root, filepath.FromSlash(tt.start))),
				StopOnMonorepoPackage: tt.narrow,
				Detector:              tt.det,
			})
			if err != nil {
				t.Fatalf("FindWithOptions() error = %v", err)
			}
			want := root
			if tt.want != "" {
				want = filepath.Join(root, filepath.FromSlash(tt.want))
			}
			if string(got) != want {
				t.Errorf("FindWithOptions() = %q, want %q", got, want)
			}
			if !tt.narrow && len(tt.det.queried) != 0 {
				t.Errorf("detector consulted although narrowing is disabled")
			}
		})
	}
}

func TestLookup_NestedPackagesPreferDeepest(t *testing.T) {
	t.Parallel()

	root := setupMonorepo(t, "packages/outer/packages/inner/lib")
	det := &fakeDetector{
		mono: true,
		packages: map[types.PackageName]types.FilesystemPath{
			"outer": "packages/outer",
			"inner": types.FilesystemPath(filepath.FromSlash("packages/outer/packages/inner")),
			"root":  ".",
		},
	}

	for range 10 { // map iteration order must not matter
		res, err := Lookup(Options{
			Path:                  types.FilesystemPath(filepath.Join(root, "packages", "outer", "packages", "inner", "lib")),
			StopOnMonorepoPackage: true,
			Detector:              det,
		})
		if err != nil {
			t.Fatalf("Lookup() error = %v", err)
		}
		if res.Package != "inner" {
			t.Fatalf("Package = %q, want %q", res.Package, "inner")
		}
	}
}

func TestLookup_EqualDepthTieBreaksByName(t *testing.T) {
	t.Parallel()

	root := setupMonorepo(t, "packages/shared")
	det := &fakeDetector{
		mono: true,
		packages: map[types.PackageName]types.FilesystemPath{
			"zeta":  "packages/shared",
			"alpha": types.FilesystemPath(filepath.Join(root, "packages", "shared")),
		},
	}

	for range 10 {
		res, err := Lookup(Options{
			Path:                  types.FilesystemPath(filepath.Join(root, "packages", "shared")),
			StopOnMonorepoPackage: true,
			Detector:              det,
		})
		if err != nil {
			t.Fatalf("Lookup() error = %v", err)
		}
		if res.Package != "alpha" {
			t.Fatalf("Package = %q, want %q", res.Package, "alpha")
		}
	}
}

func TestLookup_DetectorError(t *testing.T) {
	t.Parallel()

	root := setupMonorepo(t)
	boom := errors.New("unreadable manifest")

	_, err := FindWithOptions(Options{
		Path:                  types.FilesystemPath(root),
		StopOnMonorepoPackage: true,
		Detector:              &fakeDetector{err: boom},
	})
	if !errors.Is(err, boom) {
		t.Errorf("error = %v, want wrapped %v", err, boom)
	}
	if !errors.Is(err, ErrDetection) {
		t.Errorf("error = %v, want ErrDetection", err)
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidPath) {
		t.Errorf("detector failures are not lookup errors: %v", err)
	}
}

func TestLookup_NarrowsWithManifestDetector(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{
		".git/HEAD":                   "ref: refs/heads/main\n",
		"pnpm-workspace.yaml":         "packages:\n  - packages/*\n",
		"packages/pkg-a/package.json": `{"name": "pkg-a"}`,
		"packages/pkg-a/src/index.ts": "export {}\n",
		"packages/pkg-b/package.json": `{"name": "pkg-b"}`,
	})

	res, err := Lookup(Options{
		Path:                  types.FilesystemPath(filepath.Join(root, "packages", "pkg-a", "src")),
		StopOnMonorepoPackage: true,
		Detector:              monorepo.NewDetector(),
	})
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if want := filepath.Join(root, "packages", "pkg-a"); string(res.Root) != want {
		t.Errorf("Root = %q, want %q", res.Root, want)
	}

	// The default detector is used when none is supplied.
	got, err := FindWithOptions(Options{
		Path:                  types.FilesystemPath(filepath.Join(root, "packages", "pkg-b")),
		StopOnMonorepoPackage: true,
	})
	if err != nil {
		t.Fatalf("FindWithOptions() error = %v", err)
	}
	if want := filepath.Join(root, "packages", "pkg-b"); string(got) != want {
		t.Errorf("FindWithOptions() = %q, want %q", got, want)
	}
}

func TestLookup_WorkspaceDetectorAskedOnce(t *testing.T) {
	t.Parallel()

	root := setupMonorepo(t, "packages/pkg-a/src")
	det := &workspaceDetector{ws: &monorepo.Workspace{
		Tool:     monorepo.ToolPnpm,
		Root:     types.FilesystemPath(root),
		Packages: map[types.PackageName]types.FilesystemPath{"pkg-a": "packages/pkg-a"},
	}}

	res, err := Lookup(Options{
		Path:                  types.FilesystemPath(filepath.Join(root, "packages", "pkg-a", "src")),
		StopOnMonorepoPackage: true,
		Detector:              det,
	})
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if res.Package != "pkg-a" {
		t.Errorf("Package = %q, want %q", res.Package, "pkg-a")
	}
	if det.detects != 1 || det.monos != 0 || det.listCalls != 0 {
		t.Errorf("calls: Detect=%d IsMonorepo=%d Packages=%d, want 1/0/0", det.detects, det.monos, det.listCalls)
	}

	// A nil workspace means the root is not a monorepo.
	none := &workspaceDetector{}
	got, err := FindWithOptions(Options{
		Path:                  types.FilesystemPath(filepath.Join(root, "packages", "pkg-a")),
		StopOnMonorepoPackage: true,
		Detector:              none,
	})
	if err != nil {
		t.Fatalf("FindWithOptions() error = %v", err)
	}
	if string(got) != root {
		t.Errorf("FindWithOptions() = %q, want %q", got, root)
	}
	if none.detects != 1 || none.monos != 0 {
		t.Errorf("calls: Detect=%d IsMonorepo=%d, want 1/0", none.detects, none.monos)
	}
}

func TestLookup_SkipsPackagesWithoutDirectory(t *testing.T) {
	t.Parallel()

	root := setupMonorepo(t, "packages/pkg-a")
	det := &fakeDetector{
		mono: true,
		packages: map[types.PackageName]types.FilesystemPath{
			"broken": "",
			"pkg-a":  "packages/pkg-a",
		},
	}

	res, err := Lookup(Options{
		Path:                  types.FilesystemPath(filepath.Join(root, "packages")),
		StopOnMonorepoPackage: true,
		Detector:              det,
	})
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if string(res.Root) != root || res.Package != "" {
		t.Errorf("Lookup() = (%q, %q), want (%q, \"\")", res.Root, res.Package, root)
	}
}
