package cli

import (
	"context"
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/cobra"

	"repoint/internal/app"
	"repoint/internal/types"
)

// defaultPatchTarget is the upstream monorepo patched when no explicit
// target is given.
const defaultPatchTarget = "https://github.com/paritytech/polkadot-sdk"

type patchOptions struct {
	Path          string
	CratesToPatch string
	PointToGit    string
	PointToBranch string
	PointToCommit string
	Target        string
	Crates        bool
}

func newPatchCommand() *cobra.Command {
	opts := patchOptions{}
	cmd := &cobra.Command{
		Use:   "patch",
		Short: "Patch all crates from a given cargo workspace in another cargo workspace",
		Long: "Collects all crates of the workspace given to --crates-to-patch and adds a patch\n" +
			"section entry for each of them to the workspace Cargo.toml at --path.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPatch(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.Path, "path", "", "Project (or Cargo.toml) that receives the patch section")
	cmd.Flags().StringVar(&opts.CratesToPatch, "crates-to-patch", "", "Workspace whose packages are added to the patch section")
	cmd.Flags().StringVar(&opts.PointToGit, "point-to-git", "", "Point patches at this git repository instead of the crate paths")
	cmd.Flags().StringVar(&opts.PointToBranch, "point-to-git-branch", "", "Git branch used with --point-to-git")
	cmd.Flags().StringVar(&opts.PointToCommit, "point-to-git-commit", "", "Git commit used with --point-to-git")
	cmd.Flags().StringVar(&opts.Target, "target", "", "Patch target table, `[patch.TARGET]` in the final Cargo.toml")
	cmd.Flags().BoolVar(&opts.Crates, "crates", false, "Use crates.io as patch target")
	_ = cmd.MarkFlagRequired("crates-to-patch")
	cmd.MarkFlagsMutuallyExclusive("point-to-git-branch", "point-to-git-commit")
	cmd.MarkFlagsMutuallyExclusive("target", "crates")

	return cmd
}

func runPatch(ctx context.Context, opts patchOptions) error {
	pointTo, err := pointToFromOptions(opts)
	if err != nil {
		return err
	}
	service := newAppService()
	result, err := service.Patch(ctx, app.PatchRequest{
		Path:          opts.Path,
		CratesToPatch: opts.CratesToPatch,
		Target:        patchTargetFromOptions(opts),
		PointTo:       pointTo,
	})
	if err != nil {
		return err
	}
	fmt.Printf("patched %d packages in %s\n", result.Patched, result.RootManifest)
	return nil
}

func patchTargetFromOptions(opts patchOptions) types.PatchTarget {
	switch {
	case opts.Target != "":
		return types.PatchTarget{Name: opts.Target}
	case opts.Crates:
		return types.PatchTargetCrates()
	default:
		return types.PatchTargetGit(defaultPatchTarget)
	}
}

func pointToFromOptions(opts patchOptions) (types.PointTo, error) {
	if opts.PointToGit == "" {
		if opts.PointToBranch != "" || opts.PointToCommit != "" {
			return types.PointTo{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("`--point-to-git` is required for `--point-to-git-branch` and `--point-to-git-commit`")
		}
		return types.PointTo{Kind: types.PointToPath}, nil
	}
	switch {
	case opts.PointToBranch != "":
		return types.PointTo{
			Kind:       types.PointToGitBranch,
			Repository: opts.PointToGit,
			Ref:        opts.PointToBranch,
		}, nil
	case opts.PointToCommit != "":
		return types.PointTo{
			Kind:       types.PointToGitCommit,
			Repository: opts.PointToGit,
			Ref:        opts.PointToCommit,
		}, nil
	}
	return types.PointTo{}, errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg("`--point-to-git-branch` or `--point-to-git-commit` is required when `--point-to-git` is passed")
}
