package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repoint/internal/types"
)

func TestRepoBaseName(t *testing.T) {
	cases := map[string]string{
		"https://github.com/paritytech/substrate":       "substrate",
		"https://github.com/paritytech/substrate.git":   "substrate",
		"https://github.com/paritytech/substrate/":      "substrate",
		"git@github.com:paritytech/polkadot.git":        "polkadot",
		"ssh://git@github.com/paritytech/cumulus":       "cumulus",
		"https://example.com/org/grandpa-bridge-gadget": "grandpa-bridge-gadget",
	}
	for remote, want := range cases {
		got, err := repoBaseName(remote)
		require.NoError(t, err, remote)
		assert.Equal(t, want, got, remote)
	}
}

func TestRepoBaseNameInvalid(t *testing.T) {
	for _, remote := range []string{"", "/", "git@github.com", "https://"} {
		_, err := repoBaseName(remote)
		assert.Error(t, err, remote)
	}
}

func TestMatchesFamily(t *testing.T) {
	assert.True(t, matchesFamily(types.ScopeAll, "https://anything.example/x/y"))
	assert.True(t, matchesFamily(types.ScopeSubstrate, "https://github.com/paritytech/substrate"))
	assert.False(t, matchesFamily(types.ScopeSubstrate, "https://github.com/paritytech/polkadot"))
	assert.True(t, matchesFamily(types.ScopeBeefy, "https://github.com/paritytech/grandpa-bridge-gadget"))
	assert.False(t, matchesFamily(types.ScopePolkadot, "not a url at all"))
}

func TestIsDependencyTable(t *testing.T) {
	assert.True(t, isDependencyTable([]string{"dependencies"}))
	assert.True(t, isDependencyTable([]string{"dev-dependencies"}))
	assert.True(t, isDependencyTable([]string{"build-dependencies"}))
	assert.True(t, isDependencyTable([]string{"workspace", "dependencies"}))
	assert.True(t, isDependencyTable([]string{"target", "cfg(unix)", "dependencies"}))
	assert.False(t, isDependencyTable([]string{"package"}))
	assert.False(t, isDependencyTable([]string{"features"}))
	assert.False(t, isDependencyTable(nil))
	// Expanded per-dependency tables hold fields, not entries.
	assert.False(t, isDependencyTable([]string{"dependencies", "sp-core"}))
	assert.False(t, isDependencyTable([]string{"target", "cfg(unix)", "dependencies", "sp-core"}))
}
