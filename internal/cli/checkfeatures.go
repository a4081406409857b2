package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"repoint/internal/app"
)

func newCheckFeaturesCommand() *cobra.Command {
	opts := app.CheckFeaturesRequest{}
	cmd := &cobra.Command{
		Use:   "check-features",
		Short: "Report dependencies with default-features = false missing from the std feature",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheckFeatures(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.Path, "path", "", "Path to search for Cargo.toml files")
	return cmd
}

func runCheckFeatures(ctx context.Context, req app.CheckFeaturesRequest) error {
	service := newAppService()
	result, err := service.CheckFeatures(ctx, req)
	if err != nil {
		return err
	}
	for _, finding := range result.Findings {
		fmt.Println(finding)
	}
	return nil
}

func newAppService() app.Service {
	service := app.NewService()
	service.Version = version
	return service
}
