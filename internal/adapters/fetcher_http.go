package adapters

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"repoint/internal/shared"
)

const defaultFetchTimeout = 30 * time.Second

// userAgent identifies the tool to remote registries, which reject
// anonymous crawlers.
const userAgent = "repoint (dependency manifest rewriter)"

// HTTPFetcherAdapter fetches raw text bodies over HTTP.
type HTTPFetcherAdapter struct {
	Client *http.Client
}

func NewHTTPFetcherAdapter() HTTPFetcherAdapter {
	return HTTPFetcherAdapter{
		Client: &http.Client{Timeout: defaultFetchTimeout},
	}
}

func (a HTTPFetcherAdapter) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid fetch url").
			WithCause(err)
	}
	req.Header.Set("User-Agent", userAgent)
	resp, err := a.Client.Do(req)
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("fetch failed").
			WithCause(err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read response body").
			WithCause(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("unexpected response status").
			WithCause(shared.HTTPStatusErrorWithBody(resp.StatusCode, url, string(body)))
	}
	return string(body), nil
}
