package cli

import (
	"context"
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"repoint/internal/app"
	"repoint/internal/types"
)

type updateOptions struct {
	Path      string
	Substrate bool
	Polkadot  bool
	Cumulus   bool
	Beefy     bool
	All       bool
	Git       string
	Branch    string
	Rev       string
	Tag       string
	Version   string
	Exclude   string
	Report    string
}

func newUpdateCommand() *cobra.Command {
	opts := updateOptions{}
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update all Cargo.toml files at a given path to a specific branch/tag/commit/version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUpdate(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.Path, "path", "", "Path to search for Cargo.toml files")
	cmd.Flags().BoolVarP(&opts.Substrate, "substrate", "s", false, "Only alter Substrate dependencies")
	cmd.Flags().BoolVarP(&opts.Polkadot, "polkadot", "p", false, "Only alter Polkadot dependencies")
	cmd.Flags().BoolVarP(&opts.Cumulus, "cumulus", "c", false, "Only alter Cumulus dependencies")
	cmd.Flags().BoolVarP(&opts.Beefy, "beefy", "b", false, "Only alter BEEFY dependencies")
	cmd.Flags().BoolVarP(&opts.All, "all", "a", false, "Alter all supported dependency families")
	cmd.Flags().StringVar(&opts.Git, "git", "", "Rewrite the git url to the given one")
	cmd.Flags().StringVar(&opts.Branch, "branch", "", "The branch the dependencies should use")
	cmd.Flags().StringVar(&opts.Rev, "rev", "", "The commit the dependencies should use")
	cmd.Flags().StringVar(&opts.Tag, "tag", "", "The tag the dependencies should use")
	cmd.Flags().StringVar(&opts.Version, "version", "", "Version source: `latest`, a Cargo.lock URL, or a Cargo.lock path")
	cmd.Flags().StringVar(&opts.Exclude, "exclude", "", "Toml file listing dependencies to exclude from updating")
	cmd.Flags().StringVar(&opts.Report, "report", "", "Write a YAML summary of the run to this path")
	cmd.MarkFlagsMutuallyExclusive("branch", "rev", "tag", "version")
	cmd.MarkFlagsMutuallyExclusive("git", "version")

	_ = viper.BindPFlag("update_path", cmd.Flags().Lookup("path"))
	_ = viper.BindPFlag("update_report", cmd.Flags().Lookup("report"))

	return cmd
}

func runUpdate(ctx context.Context, opts updateOptions) error {
	// Flag values win through the viper binding; config file and
	// environment fill the gaps.
	if opts.Path == "" {
		opts.Path = viper.GetString("update_path")
	}
	if opts.Report == "" {
		opts.Report = viper.GetString("update_report")
	}
	req, err := updateRequest(opts)
	if err != nil {
		return err
	}
	service := newAppService()
	result, err := service.Update(ctx, req)
	if err != nil {
		return err
	}
	fmt.Printf("updated %d of %d manifests (%d skipped)\n",
		result.FilesChanged, result.FilesVisited, result.FilesSkipped)
	return nil
}

// updateRequest converts flag state into a validated request, mirroring
// the mutual-exclusion rules of the option surface.
func updateRequest(opts updateOptions) (app.UpdateRequest, error) {
	req := app.UpdateRequest{
		Path:        opts.Path,
		NewGit:      opts.Git,
		ExcludePath: opts.Exclude,
		ReportPath:  opts.Report,
	}

	switch {
	case opts.Branch != "":
		req.Target, req.Value = types.TargetBranch, opts.Branch
	case opts.Rev != "":
		req.Target, req.Value = types.TargetRev, opts.Rev
	case opts.Tag != "":
		req.Target, req.Value = types.TargetTag, opts.Tag
	case opts.Version != "":
		req.Target, req.Value = types.TargetVersion, opts.Version
	default:
		return app.UpdateRequest{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("you need to pass `--branch`, `--tag`, `--rev` or `--version`")
	}

	switch {
	case opts.All || opts.Version != "":
		if opts.Git != "" {
			return app.UpdateRequest{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("you need to pass `--substrate`, `--polkadot`, `--cumulus` or `--beefy` for `--git`")
		}
		req.Scope = types.ScopeAll
	case opts.Substrate:
		req.Scope = types.ScopeSubstrate
	case opts.Polkadot:
		req.Scope = types.ScopePolkadot
	case opts.Cumulus:
		req.Scope = types.ScopeCumulus
	case opts.Beefy:
		req.Scope = types.ScopeBeefy
	default:
		return app.UpdateRequest{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("you must specify one of `--substrate`, `--polkadot`, `--cumulus`, `--beefy` or `--all`")
	}

	return req, nil
}
