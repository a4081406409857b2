package adapters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeExcludeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Cargo.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadExclusions(t *testing.T) {
	path := writeExcludeFile(t, `[package]
name = "side-manifest"

[diener_exclude]
sp-core = {}
sp-io = { version = "7.0" }

[diener_exclude_more]
frame-support = {}
`)
	excluded, err := LoadExclusions(path)
	require.NoError(t, err)
	want := map[string]bool{
		"sp-core":       true,
		"sp-io":         true,
		"frame-support": true,
	}
	if diff := cmp.Diff(want, excluded); diff != "" {
		t.Errorf("exclusions mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadExclusionsPackageOverride(t *testing.T) {
	path := writeExcludeFile(t, `[diener_exclude]
core-renamed = { package = "sp-core" }
`)
	excluded, err := LoadExclusions(path)
	require.NoError(t, err)
	assert.True(t, excluded["sp-core"])
	assert.False(t, excluded["core-renamed"])
}

func TestLoadExclusionsNoMarkerTables(t *testing.T) {
	path := writeExcludeFile(t, `[package]
name = "demo"

[dependencies]
serde = { version = "1.0" }
`)
	excluded, err := LoadExclusions(path)
	require.NoError(t, err)
	assert.Empty(t, excluded)
}

func TestLoadExclusionsMissingFile(t *testing.T) {
	_, err := LoadExclusions(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
}

func TestLoadExclusionsMalformed(t *testing.T) {
	path := writeExcludeFile(t, "this is not = [ toml")
	_, err := LoadExclusions(path)
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}
