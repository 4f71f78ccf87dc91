// SPDX-License-Identifier: MPL-2.0

package reporoot

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"testing"

	"github.com/invowk/reporoot/internal/testutil"
	"github.com/invowk/reporoot/pkg/platform"
	"github.com/invowk/reporoot/pkg/types"
)

// missingMarker is a stop file no ancestor of the test temp directory has.
var missingMarker = types.StopFile("reporoot-missing-" + strconv.Itoa(os.Getpid()) + ".marker")

// setupGitRepo creates <tmp>/.git/HEAD and <tmp>/subdir and returns both directories.
func setupGitRepo(t *testing.T) (root, subdir string) {
	t.Helper()
	root = t.TempDir()
	testutil.WriteTree(t, root, map[string]string{
		".git/HEAD": "ref: refs/heads/main\n",
		"subdir/":   "",
	})
	return root, filepath.Join(root, "subdir")
}

func TestFindWithOptions_FromSubdirectory(t *testing.T) {
	t.Parallel()

	root, subdir := setupGitRepo(t)

	got, err := FindWithOptions(Options{Path: types.FilesystemPath(subdir)})
	if err != nil {
		t.Fatalf("FindWithOptions() error = %v", err)
	}
	if string(got) != root {
		t.Errorf("FindWithOptions() = %q, want %q", got, root)
	}
}

func TestFind_StringInputMatchesOptions(t *testing.T) {
	t.Parallel()

	root, subdir := setupGitRepo(t)

	fromString, err := Find(subdir)
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	fromOptions, err := FindWithOptions(Options{Path: types.FilesystemPath(subdir)})
	if err != nil {
		t.Fatalf("FindWithOptions() error = %v", err)
	}
	if fromString != fromOptions || string(fromString) != root {
		t.Errorf("Find() = %q, FindWithOptions() = %q, want both %q", fromString, fromOptions, root)
	}
}

func TestFind_FromRootItself(t *testing.T) {
	t.Parallel()

	root, _ := setupGitRepo(t)

	got, err := Find(root)
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if string(got) != root {
		t.Errorf("Find() = %q, want %q", got, root)
	}
}

func TestFind_DeeplyNested(t *testing.T) {
	t.Parallel()

	root, _ := setupGitRepo(t)
	deep := filepath.Join(root, "a", "b", "c", "d")
	testutil.MustMkdirAll(t, deep)

	got, err := Find(deep)
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if string(got) != root {
		t.Errorf("Find() = %q, want %q", got, root)
	}
}

func TestFindWithOptions_CustomStopFile(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{
		"package.json":         `{"name": "test"}`,
		"subdir/":              "",
		"nested/.git/HEAD":     "ref: refs/heads/main\n",
		"nested/inner/":        "",
		"nested/inner/deeper/": "",
	})

	tests := []struct {
		name     string
		start    string
		stopFile types.StopFile
		want     string
	}{
		{"manifest from subdir", filepath.Join(root, "subdir"), "package.json", root},
		{"manifest skips inner git repo", filepath.Join(root, "nested", "inner"), "package.json", root},
		{"git marker stops at nested repo", filepath.Join(root, "nested", "inner", "deeper"), types.DefaultStopFile, filepath.Join(root, "nested")},
		{"directory marker", filepath.Join(root, "nested", "inner"), ".git", filepath.Join(root, "nested")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := FindWithOptions(Options{Path: types.FilesystemPath(tt.start), StopFile: tt.stopFile})
			if err != nil {
				t.Fatalf("FindWithOptions() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("FindWithOptions() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFindWithOptions_NotFound(t *testing.T) {
	t.Parallel()

	_, subdir := setupGitRepo(t)

	_, err := FindWithOptions(Options{Path: types.FilesystemPath(subdir), StopFile: missingMarker})
	if err == nil {
		t.Fatal("FindWithOptions() returned nil error, want NotFound")
	}
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error should match ErrNotFound, got: %v", err)
	}
	if !errors.Is(err, ErrRootNotFound) {
		t.Errorf("error should wrap ErrRootNotFound, got: %v", err)
	}
	if errors.Is(err, ErrInvalidPath) {
		t.Errorf("NotFound error must not match ErrInvalidPath")
	}

	var rerr *Error
	if !errors.As(err, &rerr) {
		t.Fatalf("error should be *Error, got %T", err)
	}
	if rerr.Kind != KindNotFound {
		t.Errorf("Kind = %v, want %v", rerr.Kind, KindNotFound)
	}
	if got := rerr.Value(ContextStopFile); got != string(missingMarker) {
		t.Errorf("context stopFile = %q, want %q", got, missingMarker)
	}
	if got := rerr.Value(ContextStartDir); got != subdir {
		t.Errorf("context startDir = %q, want %q", got, subdir)
	}
}

func TestFindWithOptions_InvalidPath(t *testing.T) {
	t.Parallel()

	root, _ := setupGitRepo(t)
	file := filepath.Join(root, "README.md")
	testutil.MustWriteFile(t, file, "# readme\n")

	tests := []struct {
		name      string
		path      string
		condition error
	}{
		{"missing path", filepath.Join(root, "does-not-exist"), ErrPathNotExist},
		{"file instead of directory", file, ErrPathNotDirectory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			fsys := testutil.NewFakeFS()
			_, err := FindWithOptions(Options{Path: types.FilesystemPath(tt.path), FS: statThrough{fsys}})
			if !errors.Is(err, ErrInvalidPath) {
				t.Fatalf("error = %v, want ErrInvalidPath", err)
			}
			if !errors.Is(err, tt.condition) {
				t.Errorf("error = %v, want condition %v", err, tt.condition)
			}
			var rerr *Error
			if errors.As(err, &rerr) && rerr.Value(ContextPath) != tt.path {
				t.Errorf("context path = %q, want %q", rerr.Value(ContextPath), tt.path)
			}
			if got := len(fsys.Stats()); got != 1 {
				t.Errorf("validation performed %d stats, want 1 (no search)", got)
			}
		})
	}
}

func TestFindWithOptions_InvalidStopFile(t *testing.T) {
	t.Parallel()

	root, _ := setupGitRepo(t)

	for _, sf := range []types.StopFile{"/etc/hostname", "../outside", "  "} {
		_, err := FindWithOptions(Options{Path: types.FilesystemPath(root), StopFile: sf})
		if !errors.Is(err, ErrInvalidPath) {
			t.Errorf("StopFile %q: error = %v, want ErrInvalidPath", sf, err)
		}
		if !errors.Is(err, types.ErrInvalidStopFile) {
			t.Errorf("StopFile %q: error = %v, want wrapped ErrInvalidStopFile", sf, err)
		}
	}
}

func TestFindWithOptions_DeviceLikeStopFiles(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == platform.Windows {
		t.Skip("device names are rejected as stop files on Windows")
	}

	for _, sf := range []types.StopFile{"aux/marker", "con.json", "nul.txt"} {
		root := t.TempDir()
		testutil.WriteTree(t, root, map[string]string{
			"a/" + string(sf): "marker",
			"a/sub/":           "",
		})

		got, err := FindWithOptions(Options{Path: types.FilesystemPath(filepath.Join(root, "a", "sub")), StopFile: sf})
		if err != nil {
			t.Fatalf("StopFile %q: FindWithOptions() error = %v", sf, err)
		}
		if want := filepath.Join(root, "a"); string(got) != want {
			t.Errorf("StopFile %q: FindWithOptions() = %q, want %q", sf, got, want)
		}
	}
}

func TestFindWithOptions_RelativePaths(t *testing.T) {
	t.Parallel()

	root, _ := setupGitRepo(t)
	testutil.MustMkdirAll(t, filepath.Join(root, "subdir", "pkg"))
	getwd := func() (string, error) { return filepath.Join(root, "subdir"), nil }

	for _, p := range []string{".", "./pkg", "pkg", "..", "./pkg/.."} {
		got, err := FindWithOptions(Options{Path: types.FilesystemPath(p), Getwd: getwd})
		if err != nil {
			t.Fatalf("FindWithOptions(%q) error = %v", p, err)
		}
		if string(got) != root {
			t.Errorf("FindWithOptions(%q) = %q, want %q", p, got, root)
		}
	}
}

func TestFindWithOptions_DefaultsToWorkingDirectory(t *testing.T) {
	t.Parallel()

	root, subdir := setupGitRepo(t)

	got, err := FindWithOptions(Options{Getwd: func() (string, error) { return subdir, nil }})
	if err != nil {
		t.Fatalf("FindWithOptions() error = %v", err)
	}
	if string(got) != root {
		t.Errorf("FindWithOptions() = %q, want %q", got, root)
	}

	_, err = FindWithOptions(Options{
		StopFile: missingMarker,
		Getwd:    func() (string, error) { return subdir, nil },
	})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestCwd(t *testing.T) {
	root, subdir := setupGitRepo(t)
	testutil.MustChdir(t, subdir)

	got, err := Cwd()
	if err != nil {
		t.Fatalf("Cwd() error = %v", err)
	}
	if want := testutil.EvalDir(t, root); string(got) != want {
		t.Errorf("Cwd() = %q, want %q", got, want)
	}

	fromEmpty, err := Find("")
	if err != nil {
		t.Fatalf("Find(\"\") error = %v", err)
	}
	if fromEmpty != got {
		t.Errorf("Find(\"\") = %q, want %q", fromEmpty, got)
	}
}

func TestFindWithOptions_GetwdError(t *testing.T) {
	t.Parallel()

	boom := errors.New("cwd removed")
	_, err := FindWithOptions(Options{Getwd: func() (string, error) { return "", boom }})
	if !errors.Is(err, boom) {
		t.Errorf("error = %v, want wrapped %v", err, boom)
	}
	var rerr *Error
	if errors.As(err, &rerr) {
		t.Errorf("working directory failures are not lookup errors, got kind %v", rerr.Kind)
	}
}

func TestLookup_Result(t *testing.T) {
	t.Parallel()

	root, subdir := setupGitRepo(t)

	res, err := Lookup(Options{Path: types.FilesystemPath(subdir)})
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if string(res.StartDir) != subdir {
		t.Errorf("StartDir = %q, want %q", res.StartDir, subdir)
	}
	if res.StopFile != types.DefaultStopFile {
		t.Errorf("StopFile = %q, want %q", res.StopFile, types.DefaultStopFile)
	}
	if string(res.MarkerRoot) != root || res.Root != res.MarkerRoot {
		t.Errorf("MarkerRoot = %q, Root = %q, want both %q", res.MarkerRoot, res.Root, root)
	}
	if res.Package != "" {
		t.Errorf("Package = %q, want empty", res.Package)
	}
}

// statThrough consults the real filesystem while recording calls in a FakeFS.
type statThrough struct {
	rec *testutil.FakeFS
}

func (s statThrough) Stat(name string) (os.FileInfo, error) {
	_, _ = s.rec.Stat(name)
	return os.Stat(name)
}
