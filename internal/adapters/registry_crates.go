package adapters

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"repoint/internal/ports"
)

const defaultRegistryBase = "https://crates.io/api/v1/crates"

// CratesRegistryAdapter queries the crates.io API for the latest
// published version of a package.
type CratesRegistryAdapter struct {
	BaseURL string
	Fetcher ports.Fetcher
}

func NewCratesRegistryAdapter(fetcher ports.Fetcher) CratesRegistryAdapter {
	return CratesRegistryAdapter{
		BaseURL: defaultRegistryBase,
		Fetcher: fetcher,
	}
}

type cratesResponse struct {
	Crate struct {
		MaxVersion string `json:"max_version"`
	} `json:"crate"`
}

func (a CratesRegistryAdapter) LatestVersion(ctx context.Context, name string) (string, error) {
	url := fmt.Sprintf("%s/%s", a.BaseURL, name)
	body, err := a.Fetcher.Fetch(ctx, url)
	if err != nil {
		return "", err
	}
	log.Trace().Str("package", name).Str("body", body).Msg("registry response")
	var decoded cratesResponse
	if err := json.Unmarshal([]byte(body), &decoded); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to parse registry response").
			WithCause(err)
	}
	if decoded.Crate.MaxVersion == "" {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("package %q not found in registry", name))
	}
	return decoded.Crate.MaxVersion, nil
}
