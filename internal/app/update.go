package app

import (
	"context"
	"os"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"repoint/internal/adapters"
	"repoint/internal/core"
	"repoint/internal/types"
)

// Update rewrites all manifests under the request path. Individual file
// failures are logged and skipped; only precondition failures abort the
// run.
func (s Service) Update(ctx context.Context, req UpdateRequest) (UpdateResult, error) {
	root, err := resolveRoot(req.Path)
	if err != nil {
		return UpdateResult{}, err
	}

	rewriter := core.Rewriter{
		Request: types.RewriteRequest{
			Scope:  req.Scope,
			Target: req.Target,
			Value:  req.Value,
			NewGit: req.NewGit,
		},
	}
	if req.ExcludePath != "" {
		excluded, err := adapters.LoadExclusions(req.ExcludePath)
		if err != nil {
			return UpdateResult{}, err
		}
		rewriter.Excluded = excluded
	}
	if req.Target == types.TargetVersion {
		source, err := core.ParseVersionSource(req.Value)
		if err != nil {
			return UpdateResult{}, err
		}
		rewriter.Request.VersionSource = source
		rewriter.Versions = core.NewVersionResolver(source, req.Value, s.Fetcher, s.Registry)
	}

	manifests, err := s.Locator.Find(root, manifestName)
	if err != nil {
		return UpdateResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to scan for manifests").
			WithCause(err)
	}

	result := UpdateResult{}
	report := s.newReport()
	for _, manifest := range manifests {
		log.Info().Str("manifest", manifest).Msg("processing")
		result.FilesVisited++
		changed, err := rewriter.RewriteFile(ctx, manifest)
		if err != nil {
			log.Error().Err(err).Str("manifest", manifest).Msg("skipping manifest")
			result.FilesSkipped++
			continue
		}
		if len(changed) > 0 {
			result.FilesChanged++
			report.Files = append(report.Files, types.FileReport{Path: manifest, Entries: changed})
		}
	}
	if err := s.writeReport(req.ReportPath, report); err != nil {
		return UpdateResult{}, err
	}
	return result, nil
}

// resolveRoot defaults the search path to the working directory and
// requires it to be a directory.
func resolveRoot(path string) (string, error) {
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("working directory is invalid").
				WithCause(err)
		}
		path = wd
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("path is not a directory: " + path)
	}
	return path, nil
}

func (s Service) newReport() types.RunReport {
	return types.RunReport{
		Tool:      "repoint",
		Version:   s.Version,
		StartedAt: s.Clock().UTC().Format("2006-01-02T15:04:05Z"),
	}
}

func (s Service) writeReport(path string, report types.RunReport) error {
	if path == "" {
		return nil
	}
	return s.Reports.Write(path, report)
}
