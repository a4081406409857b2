package app

import (
	"context"
	"path/filepath"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"repoint/internal/adapters"
	"repoint/internal/core"
	"repoint/internal/types"
)

// Workspacify flattens the tree under the request path into one
// workspace: index all packages, fail on duplicate names before any
// mutation, rewrite the root member list, then collapse every internal
// dependency to a relative path.
func (s Service) Workspacify(ctx context.Context, req WorkspacifyRequest) (WorkspacifyResult, error) {
	root, err := resolveRoot(req.Path)
	if err != nil {
		return WorkspacifyResult{}, err
	}
	if root, err = filepath.Abs(root); err != nil {
		return WorkspacifyResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("cannot resolve workspace root").
			WithCause(err)
	}

	manifests, err := s.Locator.Find(root, manifestName)
	if err != nil {
		return WorkspacifyResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to scan workspace").
			WithCause(err)
	}

	index, collisions, err := core.BuildPackageIndex(manifests, adapters.PackageName)
	if err != nil {
		return WorkspacifyResult{}, err
	}
	if len(collisions) > 0 {
		return WorkspacifyResult{}, core.CollisionError(collisions)
	}

	if err := core.UpdateWorkspaceMembers(root, index); err != nil {
		return WorkspacifyResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to update member list in workspace manifest").
			WithCause(err)
	}

	result := WorkspacifyResult{Packages: len(index)}
	report := s.newReport()
	for _, manifest := range manifests {
		changed, err := core.CollapseManifest(manifest, index)
		if err != nil {
			return result, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to rewrite manifest " + manifest).
				WithCause(err)
		}
		if len(changed) > 0 {
			result.FilesChanged++
			report.Files = append(report.Files, types.FileReport{Path: manifest, Entries: changed})
		}
	}
	log.Info().Int("packages", result.Packages).Int("rewritten", result.FilesChanged).Msg("workspacified")
	if err := s.writeReport(req.ReportPath, report); err != nil {
		return result, err
	}
	return result, nil
}
