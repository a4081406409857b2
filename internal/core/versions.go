package core

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"

	"repoint/internal/ports"
	"repoint/internal/types"
)

// ParseVersionSource classifies the --version argument: "latest", a
// URL to a raw lock file, or a path to a local lock file.
func ParseVersionSource(value string) (types.VersionSourceKind, error) {
	switch {
	case value == "latest":
		return types.VersionSourceRegistry, nil
	case strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://"):
		return types.VersionSourceURL, nil
	}
	if info, err := os.Stat(value); err == nil && !info.IsDir() && strings.HasSuffix(value, "Cargo.lock") {
		return types.VersionSourceFile, nil
	}
	return "", errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("invalid version source %q", value))
}

// VersionResolver resolves package names to concrete version strings.
// Resolutions are cached for the lifetime of a run, so each distinct
// package costs at most one fetch, and a lock file body is fetched at
// most once regardless of how many packages it resolves.
type VersionResolver struct {
	Source   types.VersionSourceKind
	Location string
	Fetcher  ports.Fetcher
	Registry ports.RegistryClient

	versions map[string]string
	lockBody *string
}

func NewVersionResolver(source types.VersionSourceKind, location string, fetcher ports.Fetcher, registry ports.RegistryClient) *VersionResolver {
	return &VersionResolver{
		Source:   source,
		Location: location,
		Fetcher:  fetcher,
		Registry: registry,
		versions: make(map[string]string),
	}
}

// Resolve returns the version for the named package.
func (r *VersionResolver) Resolve(ctx context.Context, name string) (string, error) {
	if version, ok := r.versions[name]; ok {
		return version, nil
	}
	version, err := r.lookup(ctx, name)
	if err != nil {
		return "", err
	}
	r.versions[name] = version
	return version, nil
}

func (r *VersionResolver) lookup(ctx context.Context, name string) (string, error) {
	switch r.Source {
	case types.VersionSourceRegistry:
		return r.Registry.LatestVersion(ctx, name)
	case types.VersionSourceURL:
		body, err := r.cachedLockBody(func() (string, error) {
			return r.Fetcher.Fetch(ctx, r.Location)
		})
		if err != nil {
			return "", err
		}
		return lockfileVersion(body, name)
	case types.VersionSourceFile:
		body, err := r.cachedLockBody(func() (string, error) {
			data, err := os.ReadFile(r.Location)
			if err != nil {
				return "", errbuilder.New().
					WithCode(errbuilder.CodeNotFound).
					WithMsg("failed to read lock file").
					WithCause(err)
			}
			return string(data), nil
		})
		if err != nil {
			return "", err
		}
		return lockfileVersion(body, name)
	}
	return "", errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg(fmt.Sprintf("unknown version source %q", r.Source))
}

func (r *VersionResolver) cachedLockBody(load func() (string, error)) (string, error) {
	if r.lockBody != nil {
		return *r.lockBody, nil
	}
	body, err := load()
	if err != nil {
		return "", err
	}
	log.Trace().Str("location", r.Location).Msg("cached lock file body")
	r.lockBody = &body
	return body, nil
}

// lockFile models the part of a Cargo.lock body the resolver scans.
type lockFile struct {
	Package []struct {
		Name    string `toml:"name"`
		Version string `toml:"version"`
	} `toml:"package"`
}

func lockfileVersion(body string, name string) (string, error) {
	var decoded lockFile
	if err := toml.Unmarshal([]byte(body), &decoded); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to parse lock file").
			WithCause(err)
	}
	for _, pkg := range decoded.Package {
		if pkg.Name == name {
			return pkg.Version, nil
		}
	}
	return "", errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg(fmt.Sprintf("package %q not found in lock file", name))
}
