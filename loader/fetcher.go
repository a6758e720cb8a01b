package loader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/erraggy/oasgraph"
	"github.com/erraggy/oasgraph/oaserrors"
)

// Fetcher is the transport boundary the engine loads documents through.
// Implementations fetch raw text for a locator; they decide nothing about
// parsing. Transient failures are surfaced immediately as *oaserrors.LoadError;
// the engine never retries.
type Fetcher interface {
	// FetchText returns the raw bytes behind the locator.
	FetchText(ctx context.Context, locator string) ([]byte, error)
}

// FileFetcher reads documents from the local filesystem.
type FileFetcher struct{}

// FetchText implements Fetcher.
func (FileFetcher) FetchText(_ context.Context, locator string) ([]byte, error) {
	data, err := os.ReadFile(locator)
	if err != nil {
		return nil, &oaserrors.LoadError{
			Locator: locator,
			Message: "failed to read file",
			Cause:   err,
		}
	}
	return data, nil
}

// HTTPFetcher fetches documents over HTTP/HTTPS.
type HTTPFetcher struct {
	// Client is the HTTP client used for requests.
	// If nil, a default client with a 30-second timeout is created.
	// Callers impose timeout and TLS policy by supplying their own client.
	Client *http.Client
	// UserAgent is the User-Agent string sent with each request.
	// Defaults to "oasgraph/<version>" if not set.
	UserAgent string
}

// FetchText implements Fetcher.
func (f *HTTPFetcher) FetchText(ctx context.Context, locator string) ([]byte, error) {
	client := f.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, locator, nil)
	if err != nil {
		return nil, &oaserrors.LoadError{
			Locator: locator,
			Message: "failed to create request",
			Cause:   err,
		}
	}

	userAgent := f.UserAgent
	if userAgent == "" {
		userAgent = oasgraph.UserAgent()
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, &oaserrors.LoadError{
			Locator: locator,
			Message: "failed to fetch URL",
			Cause:   err,
		}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, &oaserrors.LoadError{
			Locator: locator,
			Message: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, resp.Status),
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &oaserrors.LoadError{
			Locator: locator,
			Message: "failed to read response body",
			Cause:   err,
		}
	}
	return data, nil
}
