package app

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"repoint/internal/core"
)

// Patch adds a patch section entry to the target workspace's root
// manifest for every member package of the workspace being patched.
func (s Service) Patch(ctx context.Context, req PatchRequest) (PatchResult, error) {
	path := req.Path
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return PatchResult{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("working directory is invalid").
				WithCause(err)
		}
		path = wd
	}
	if _, err := os.Stat(path); err != nil {
		return PatchResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("path does not exist: " + path).
			WithCause(err)
	}

	rootManifest := path
	if !strings.HasSuffix(path, manifestName) {
		var err error
		rootManifest, err = s.Metadata.RootManifest(ctx, path)
		if err != nil {
			return PatchResult{}, err
		}
	}

	members, err := s.Metadata.Members(ctx, req.CratesToPatch)
	if err != nil {
		return PatchResult{}, err
	}
	log.Info().Str("manifest", rootManifest).Str("target", req.Target.Name).Int("packages", len(members)).Msg("adding patch section")

	if err := core.ComposePatches(rootManifest, req.Target, members, req.PointTo); err != nil {
		var coded *errbuilder.ErrBuilder
		if errors.As(err, &coded) {
			return PatchResult{}, err
		}
		return PatchResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write patched manifest").
			WithCause(err)
	}
	return PatchResult{RootManifest: rootManifest, Patched: len(members)}, nil
}
