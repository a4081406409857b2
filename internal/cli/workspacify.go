package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"repoint/internal/app"
)

func newWorkspacifyCommand() *cobra.Command {
	opts := app.WorkspacifyRequest{}
	cmd := &cobra.Command{
		Use:   "workspacify",
		Short: "Create a unified workspace from the supplied directory tree",
		Long: "Rewrites every dependency residing in the tree into a path dependency,\n" +
			"fills the top level workspace member list with all crates (sorted), and\n" +
			"sorts path dependency entries into a canonical order. Safe to run on\n" +
			"existing workspaces.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWorkspacify(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.Path, "path", "", "Workspace root to unify")
	cmd.Flags().StringVar(&opts.ReportPath, "report", "", "Write a YAML summary of the run to this path")
	return cmd
}

func runWorkspacify(ctx context.Context, req app.WorkspacifyRequest) error {
	service := newAppService()
	result, err := service.Workspacify(ctx, req)
	if err != nil {
		return err
	}
	fmt.Printf("workspace has %d packages, %d manifests rewritten\n",
		result.Packages, result.FilesChanged)
	return nil
}
