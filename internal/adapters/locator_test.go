package adapters

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("[package]\n"), 0644))
}

func TestManifestLocatorFind(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "Cargo.toml"))
	touch(t, filepath.Join(root, "crates", "alpha", "Cargo.toml"))
	touch(t, filepath.Join(root, "crates", "beta", "Cargo.toml"))
	touch(t, filepath.Join(root, "crates", "beta", "README.md"))

	adapter := NewManifestLocatorAdapter()
	paths, err := adapter.Find(root, "Cargo.toml")
	require.NoError(t, err)
	sort.Strings(paths)

	want := []string{
		filepath.Join(root, "Cargo.toml"),
		filepath.Join(root, "crates", "alpha", "Cargo.toml"),
		filepath.Join(root, "crates", "beta", "Cargo.toml"),
	}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Errorf("paths mismatch (-want +got):\n%s", diff)
	}
}

func TestManifestLocatorPrunesBuildAndHiddenDirs(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "Cargo.toml"))
	touch(t, filepath.Join(root, "target", "debug", "Cargo.toml"))
	touch(t, filepath.Join(root, ".git", "Cargo.toml"))
	touch(t, filepath.Join(root, ".hidden", "nested", "Cargo.toml"))

	adapter := NewManifestLocatorAdapter()
	paths, err := adapter.Find(root, "Cargo.toml")
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(root, "Cargo.toml")}, paths)
}

func TestManifestLocatorFollowsDirSymlinks(t *testing.T) {
	base := t.TempDir()
	real := filepath.Join(base, "real")
	touch(t, filepath.Join(real, "Cargo.toml"))

	root := filepath.Join(base, "root")
	require.NoError(t, os.MkdirAll(root, 0755))
	link := filepath.Join(root, "linked")
	if err := os.Symlink(real, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	adapter := NewManifestLocatorAdapter()
	paths, err := adapter.Find(root, "Cargo.toml")
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(link, "Cargo.toml")}, paths)
}

func TestManifestLocatorBreaksSymlinkCycles(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "Cargo.toml"))
	touch(t, filepath.Join(root, "sub", "Cargo.toml"))
	if err := os.Symlink(root, filepath.Join(root, "sub", "loop")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	adapter := NewManifestLocatorAdapter()
	paths, err := adapter.Find(root, "Cargo.toml")
	require.NoError(t, err)
	sort.Strings(paths)

	want := []string{
		filepath.Join(root, "Cargo.toml"),
		filepath.Join(root, "sub", "Cargo.toml"),
	}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Errorf("paths mismatch (-want +got):\n%s", diff)
	}
}

func TestManifestLocatorRootMustBeDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "Cargo.toml")
	touch(t, file)

	adapter := NewManifestLocatorAdapter()
	_, err := adapter.Find(file, "Cargo.toml")
	require.Error(t, err)
}
