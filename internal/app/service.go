// Package app wires the rewrite engine to its collaborators and
// orchestrates one subcommand invocation per call.
package app

import (
	"time"

	"repoint/internal/adapters"
	"repoint/internal/ports"
)

const manifestName = "Cargo.toml"

type Service struct {
	Locator  ports.ManifestLocator
	Fetcher  ports.Fetcher
	Registry ports.RegistryClient
	Metadata ports.WorkspaceMetadata
	Reports  ports.ReportWriter
	Clock    func() time.Time
	// Version is stamped into run reports.
	Version string
}

func NewService() Service {
	fetcher := adapters.NewHTTPFetcherAdapter()
	return Service{
		Locator:  adapters.NewManifestLocatorAdapter(),
		Fetcher:  fetcher,
		Registry: adapters.NewCratesRegistryAdapter(fetcher),
		Metadata: adapters.NewCargoMetadataAdapter(),
		Reports:  adapters.NewYAMLReportAdapter(),
		Clock:    time.Now,
		Version:  "dev",
	}
}
