// Package ports defines the interfaces between the rewrite engine and
// its external collaborators.
package ports

import (
	"context"

	"repoint/internal/types"
)

// ManifestLocator walks a directory tree and returns every manifest
// with the given filename. Hidden directories and build-output
// directories are pruned structurally, without descending into them.
type ManifestLocator interface {
	Find(root string, filename string) ([]string, error)
}

// Fetcher retrieves the raw text body at a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// RegistryClient looks up the latest published version of a package.
type RegistryClient interface {
	LatestVersion(ctx context.Context, name string) (string, error)
}

// WorkspaceMetadata resolves the member packages of a cargo workspace
// rooted at dir. It must not require network access for local
// workspaces.
type WorkspaceMetadata interface {
	Members(ctx context.Context, dir string) ([]types.MemberPackage, error)
	// RootManifest returns the path of the workspace root Cargo.toml.
	RootManifest(ctx context.Context, dir string) (string, error)
}

// ReportWriter persists a machine-readable run summary.
type ReportWriter interface {
	Write(path string, report types.RunReport) error
}
