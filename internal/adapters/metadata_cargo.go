package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"repoint/internal/shared"
	"repoint/internal/types"
)

// CargoMetadataAdapter resolves workspace membership by running
// `cargo metadata` in the workspace directory. Local workspaces resolve
// without network access because dependencies are not fetched
// (--no-deps).
type CargoMetadataAdapter struct{}

func NewCargoMetadataAdapter() CargoMetadataAdapter {
	return CargoMetadataAdapter{}
}

type cargoMetadata struct {
	Packages []struct {
		ID           string `json:"id"`
		Name         string `json:"name"`
		ManifestPath string `json:"manifest_path"`
	} `json:"packages"`
	WorkspaceMembers []string `json:"workspace_members"`
	WorkspaceRoot    string   `json:"workspace_root"`
}

func (a CargoMetadataAdapter) Members(ctx context.Context, dir string) ([]types.MemberPackage, error) {
	metadata, err := a.load(ctx, dir)
	if err != nil {
		return nil, err
	}
	memberIDs := make(map[string]struct{}, len(metadata.WorkspaceMembers))
	for _, id := range metadata.WorkspaceMembers {
		memberIDs[id] = struct{}{}
	}
	var members []types.MemberPackage
	for _, pkg := range metadata.Packages {
		if _, ok := memberIDs[pkg.ID]; !ok {
			continue
		}
		members = append(members, types.MemberPackage{
			Name:        pkg.Name,
			ManifestDir: filepath.Dir(pkg.ManifestPath),
		})
	}
	return members, nil
}

func (a CargoMetadataAdapter) RootManifest(ctx context.Context, dir string) (string, error) {
	// A direct manifest path needs no metadata lookup.
	if strings.HasSuffix(dir, "Cargo.toml") {
		return dir, nil
	}
	metadata, err := a.load(ctx, dir)
	if err != nil {
		return "", err
	}
	return filepath.Join(metadata.WorkspaceRoot, "Cargo.toml"), nil
}

func (a CargoMetadataAdapter) load(ctx context.Context, dir string) (cargoMetadata, error) {
	cmd := exec.CommandContext(ctx, "cargo", "metadata", "--format-version", "1", "--no-deps")
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		detail := err
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			detail = shared.CommandError(exitErr.Stderr, err)
		}
		return cargoMetadata{}, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("failed to get cargo metadata for workspace").
			WithCause(detail)
	}
	var metadata cargoMetadata
	if err := json.Unmarshal(out, &metadata); err != nil {
		return cargoMetadata{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to parse cargo metadata output").
			WithCause(err)
	}
	return metadata, nil
}
