package cli

import (
	"errors"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repoint/internal/app"
	"repoint/internal/types"
)

// ---------- Command tree tests ----------

func TestRootCommandHasSubcommands(t *testing.T) {
	root := newRootCommand()
	names := make([]string, 0, len(root.Commands()))
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	expected := []string{"update", "patch", "workspacify", "check-features"}
	for _, name := range expected {
		assert.Contains(t, names, name, "missing subcommand: %s", name)
	}
}

func TestRootCommandVersion(t *testing.T) {
	root := newRootCommand()
	assert.Equal(t, "dev", root.Version)
}

func TestUpdateCommandFlags(t *testing.T) {
	cmd := newUpdateCommand()
	flags := []string{
		"path", "substrate", "polkadot", "cumulus", "beefy", "all",
		"git", "branch", "rev", "tag", "version", "exclude", "report",
	}
	for _, name := range flags {
		flag := cmd.Flags().Lookup(name)
		assert.NotNil(t, flag, "missing flag: %s", name)
	}
	assert.Equal(t, "s", cmd.Flags().Lookup("substrate").Shorthand)
	assert.Equal(t, "a", cmd.Flags().Lookup("all").Shorthand)
}

func TestPatchCommandFlags(t *testing.T) {
	cmd := newPatchCommand()
	flags := []string{
		"path", "crates-to-patch", "point-to-git",
		"point-to-git-branch", "point-to-git-commit", "target", "crates",
	}
	for _, name := range flags {
		flag := cmd.Flags().Lookup(name)
		assert.NotNil(t, flag, "missing flag: %s", name)
	}
}

func TestWorkspacifyCommandFlags(t *testing.T) {
	cmd := newWorkspacifyCommand()
	assert.NotNil(t, cmd.Flags().Lookup("path"))
	assert.NotNil(t, cmd.Flags().Lookup("report"))
}

func TestCheckFeaturesCommandFlags(t *testing.T) {
	cmd := newCheckFeaturesCommand()
	assert.NotNil(t, cmd.Flags().Lookup("path"))
}

// ---------- Request building tests ----------

func TestUpdateRequest(t *testing.T) {
	tests := []struct {
		name    string
		opts    updateOptions
		want    app.UpdateRequest
		wantErr string
	}{
		{
			name: "substrate tag",
			opts: updateOptions{Substrate: true, Tag: "v2.0", Path: "/tree"},
			want: app.UpdateRequest{
				Path:   "/tree",
				Scope:  types.ScopeSubstrate,
				Target: types.TargetTag,
				Value:  "v2.0",
			},
		},
		{
			name: "polkadot branch with git rewrite",
			opts: updateOptions{Polkadot: true, Branch: "release", Git: "https://github.com/me/polkadot"},
			want: app.UpdateRequest{
				Scope:  types.ScopePolkadot,
				Target: types.TargetBranch,
				Value:  "release",
				NewGit: "https://github.com/me/polkadot",
			},
		},
		{
			name: "beefy rev",
			opts: updateOptions{Beefy: true, Rev: "deadbeef"},
			want: app.UpdateRequest{
				Scope:  types.ScopeBeefy,
				Target: types.TargetRev,
				Value:  "deadbeef",
			},
		},
		{
			name: "version implies all families",
			opts: updateOptions{Version: "latest"},
			want: app.UpdateRequest{
				Scope:  types.ScopeAll,
				Target: types.TargetVersion,
				Value:  "latest",
			},
		},
		{
			name: "all with exclude and report",
			opts: updateOptions{All: true, Tag: "v1", Exclude: "ex.toml", Report: "out.yaml"},
			want: app.UpdateRequest{
				Scope:       types.ScopeAll,
				Target:      types.TargetTag,
				Value:       "v1",
				ExcludePath: "ex.toml",
				ReportPath:  "out.yaml",
			},
		},
		{
			name:    "no target",
			opts:    updateOptions{All: true},
			wantErr: "you need to pass `--branch`, `--tag`, `--rev` or `--version`",
		},
		{
			name:    "no scope",
			opts:    updateOptions{Tag: "v1"},
			wantErr: "you must specify one of `--substrate`, `--polkadot`, `--cumulus`, `--beefy` or `--all`",
		},
		{
			name:    "git requires a family scope",
			opts:    updateOptions{All: true, Tag: "v1", Git: "https://github.com/me/substrate"},
			wantErr: "you need to pass `--substrate`, `--polkadot`, `--cumulus` or `--beefy` for `--git`",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := updateRequest(tt.opts)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("request mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPatchTargetFromOptions(t *testing.T) {
	assert.Equal(t, types.PatchTargetGit(defaultPatchTarget),
		patchTargetFromOptions(patchOptions{}))
	assert.Equal(t, types.PatchTargetCrates(),
		patchTargetFromOptions(patchOptions{Crates: true}))
	assert.Equal(t, types.PatchTarget{Name: "https://github.com/me/fork"},
		patchTargetFromOptions(patchOptions{Target: "https://github.com/me/fork"}))
}

func TestPointToFromOptions(t *testing.T) {
	tests := []struct {
		name    string
		opts    patchOptions
		want    types.PointTo
		wantErr bool
	}{
		{
			name: "default points at paths",
			opts: patchOptions{},
			want: types.PointTo{Kind: types.PointToPath},
		},
		{
			name: "git branch",
			opts: patchOptions{PointToGit: "https://github.com/me/substrate", PointToBranch: "fix"},
			want: types.PointTo{
				Kind:       types.PointToGitBranch,
				Repository: "https://github.com/me/substrate",
				Ref:        "fix",
			},
		},
		{
			name: "git commit",
			opts: patchOptions{PointToGit: "https://github.com/me/substrate", PointToCommit: "deadbeef"},
			want: types.PointTo{
				Kind:       types.PointToGitCommit,
				Repository: "https://github.com/me/substrate",
				Ref:        "deadbeef",
			},
		},
		{
			name:    "branch without git",
			opts:    patchOptions{PointToBranch: "fix"},
			wantErr: true,
		},
		{
			name:    "git without ref",
			opts:    patchOptions{PointToGit: "https://github.com/me/substrate"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := pointToFromOptions(tt.opts)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// ---------- Error mapping tests ----------

func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		code errbuilder.ErrCode
		want int
	}{
		{errbuilder.CodeInvalidArgument, 2},
		{errbuilder.CodeFailedPrecondition, 3},
		{errbuilder.CodeNotFound, 5},
		{errbuilder.CodeInternal, 5},
	}
	for _, tt := range tests {
		err := errbuilder.New().WithCode(tt.code).WithMsg("boom")
		assert.Equal(t, tt.want, exitCodeForError(err), "code %v", tt.code)
	}
	assert.Equal(t, 1, exitCodeForError(errors.New("plain")))
}

func TestErrorMessage(t *testing.T) {
	err := errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg("bad flag combination")
	assert.Equal(t, "bad flag combination", errorMessage(err))
	assert.Equal(t, "plain", errorMessage(errors.New("plain")))
}
