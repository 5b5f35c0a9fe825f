package badge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"

	"github.com/ryo246912/gh-review-registry/internal/review"
)

// ErrRegistryUnavailable wraps every failure to obtain a usable registry
var ErrRegistryUnavailable = errors.New("registry unavailable")

// HTTPClient interface for HTTP operations (allows mocking in tests).
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Fetcher loads a registry artifact from a URL or a local path.
// A fetch is attempted once; there is no retry.
type Fetcher struct {
	httpClient HTTPClient
}

func NewFetcher(httpClient HTTPClient) *Fetcher {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Fetcher{httpClient: httpClient}
}

// Fetch loads the registry at location
func (f *Fetcher) Fetch(ctx context.Context, location string) (*review.Registry, error) {
	var (
		reg *review.Registry
		err error
	)
	if isRemote(location) {
		reg, err = f.fetchURL(ctx, location)
	} else {
		reg, err = fetchFile(location)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRegistryUnavailable, err)
	}
	return reg, nil
}

func (f *Fetcher) fetchURL(ctx context.Context, location string) (*review.Registry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("registry returned status %d", resp.StatusCode)
	}
	return review.Decode(resp.Body)
}

func fetchFile(path string) (*review.Registry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return review.Decode(file)
}

func isRemote(location string) bool {
	u, err := url.Parse(location)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https")
}
