package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkspacify(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"alpha/Cargo.toml": `[package]
name = "alpha"
version = "0.1.0"

[dependencies]
beta = { git = "https://github.com/example/beta", branch = "master" }
serde = { version = "1.0" }
`,
		"beta/Cargo.toml": `[package]
name = "beta"
version = "0.1.0"
`,
	})
	reports := &capturingReports{}
	service := newTestService(nil, nil, reports)

	result, err := service.Workspacify(t.Context(), WorkspacifyRequest{
		Path:       root,
		ReportPath: filepath.Join(root, "report.yaml"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Packages)
	assert.Equal(t, 1, result.FilesChanged)

	rootData, err := os.ReadFile(filepath.Join(root, "Cargo.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(rootData), "[workspace]")
	assert.Contains(t, string(rootData), `"alpha",`)
	assert.Contains(t, string(rootData), `"beta",`)

	alphaData, err := os.ReadFile(filepath.Join(root, "alpha", "Cargo.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(alphaData), `beta = { path = "../beta" }`)
	assert.Contains(t, string(alphaData), `serde = { version = "1.0" }`)

	require.Len(t, reports.report.Files, 1)
}

func TestWorkspacifyCollisionAbortsBeforeMutation(t *testing.T) {
	root := t.TempDir()
	manifest := `[package]
name = "dup"
version = "0.1.0"

[dependencies]
dup = { git = "https://github.com/example/dup", branch = "master" }
`
	writeTree(t, root, map[string]string{
		"a/Cargo.toml": manifest,
		"b/Cargo.toml": manifest,
	})
	service := newTestService(nil, nil, nil)

	_, err := service.Workspacify(t.Context(), WorkspacifyRequest{Path: root})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeFailedPrecondition, errbuilder.CodeOf(err))
	assert.Contains(t, err.Error(), "dup")

	// No file was touched.
	for _, rel := range []string{"a/Cargo.toml", "b/Cargo.toml"} {
		data, err := os.ReadFile(filepath.Join(root, rel))
		require.NoError(t, err)
		assert.Equal(t, manifest, string(data))
	}
	_, err = os.Stat(filepath.Join(root, "Cargo.toml"))
	assert.True(t, os.IsNotExist(err))
}
