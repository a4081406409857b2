package app

import (
	"context"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"repoint/internal/core"
)

// CheckFeatures audits every manifest under the request path for
// dependencies that disable default features without being re-enabled
// by the std feature. Manifests without the expected sections are
// skipped quietly.
func (s Service) CheckFeatures(ctx context.Context, req CheckFeaturesRequest) (CheckFeaturesResult, error) {
	root, err := resolveRoot(req.Path)
	if err != nil {
		return CheckFeaturesResult{}, err
	}
	manifests, err := s.Locator.Find(root, manifestName)
	if err != nil {
		return CheckFeaturesResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to scan for manifests").
			WithCause(err)
	}
	result := CheckFeaturesResult{}
	for _, manifest := range manifests {
		findings, err := core.CheckManifestFeatures(manifest)
		if err != nil {
			log.Debug().Err(err).Str("manifest", manifest).Msg("skipping manifest")
			continue
		}
		for _, finding := range findings {
			result.Findings = append(result.Findings, finding.String())
		}
	}
	return result, nil
}
