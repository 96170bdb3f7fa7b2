// Package feed fetches remote iCalendar documents and extracts the pieces
// the availability pipeline needs: a timezone hint and the busy periods.
package feed

import (
	"context"
	"io"
	"net/http"

	"github.com/pkg/errors"
)

// Fetcher retrieves calendar documents over HTTP(S).
//
// A single attempt is made per request, with no retry and no client-side
// timeout; the caller's context bounds the fetch.
type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a fetcher backed by the given client. A nil client uses
// http.DefaultClient.
func NewFetcher(client *http.Client) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &Fetcher{client: client}
}

// Fetch downloads the calendar document at url. Any non-200 response is a
// fetch failure.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", errors.Wrapf(err, "invalid feed address %q", url)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", errors.Wrapf(err, "fetch calendar %q", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("fetch calendar %q: unexpected status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrapf(err, "read calendar body from %q", url)
	}
	return string(body), nil
}
