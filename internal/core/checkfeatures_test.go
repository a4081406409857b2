package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckManifestFeatures(t *testing.T) {
	path := writeManifest(t, `[dependencies]
codec = { version = "3.0", default-features = false }
sp-core = { version = "7.0", default-features = false }
serde = { version = "1.0" }

[features]
std = [
	"codec/std",
]
`)
	findings, err := CheckManifestFeatures(path)
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, "sp-core", findings[0].Dependency)
	assert.Equal(t, path, findings[0].Manifest)
	assert.Contains(t, findings[0].String(), "`default-features = false` but is not present in feature `std`")
}

func TestCheckManifestFeaturesAllCovered(t *testing.T) {
	path := writeManifest(t, `[dependencies]
codec = { version = "3.0", default-features = false }
sp-core = { version = "7.0", default-features = false }

[features]
std = ["codec/std", "sp-core"]
`)
	findings, err := CheckManifestFeatures(path)
	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestCheckManifestFeaturesNoNonDefaultDeps(t *testing.T) {
	path := writeManifest(t, `[dependencies]
serde = { version = "1.0" }
`)
	findings, err := CheckManifestFeatures(path)
	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestCheckManifestFeaturesMissingStdFeature(t *testing.T) {
	path := writeManifest(t, `[dependencies]
codec = { version = "3.0", default-features = false }
`)
	_, err := CheckManifestFeatures(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "std")
}

func TestCheckManifestFeaturesIgnoresDevDependencies(t *testing.T) {
	path := writeManifest(t, `[dev-dependencies]
codec = { version = "3.0", default-features = false }
`)
	findings, err := CheckManifestFeatures(path)
	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestCheckManifestFeaturesMissingFile(t *testing.T) {
	_, err := CheckManifestFeatures(filepath.Join(t.TempDir(), "Cargo.toml"))
	require.Error(t, err)
	assert.True(t, os.IsNotExist(err))
}
