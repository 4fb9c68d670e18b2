package feed

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/samvad-hq/samvad-news-feed/internal/domain"
	"github.com/samvad-hq/samvad-news-feed/internal/logger"
	"github.com/samvad-hq/samvad-news-feed/pkg/httpclient"
)

const (
	DefaultConnectTimeout = 15 * time.Second
	DefaultReadTimeout    = 10 * time.Second
)

// Fetcher performs one GET and reports its raw outcome.
type Fetcher interface {
	Fetch(ctx context.Context, u *url.URL) domain.FetchResult
}

// HTTPFetcher implements Fetcher on top of an httpclient.Client.
type HTTPFetcher struct {
	client httpclient.Client
	log    logger.Logger
}

// DefaultHTTPClient returns a resty client with the stock connect/read timeouts.
func DefaultHTTPClient() httpclient.Client {
	return httpclient.NewRestyClientWithTimeouts(httpclient.Timeouts{
		Connect: DefaultConnectTimeout,
		Read:    DefaultReadTimeout,
	})
}

// NewHTTPFetcher builds a fetcher; a nil client falls back to DefaultHTTPClient.
func NewHTTPFetcher(client httpclient.Client, log logger.Logger) *HTTPFetcher {
	if client == nil {
		client = DefaultHTTPClient()
	}
	return &HTTPFetcher{client: client, log: logger.Ensure(log)}
}

// Fetch never fails past its boundary: transport problems are logged and
// turned into an empty body with whatever status code was obtained.
func (f *HTTPFetcher) Fetch(ctx context.Context, u *url.URL) domain.FetchResult {
	if u == nil {
		return domain.FetchResult{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	resp, err := f.client.Get(ctx, u.String(), map[string]string{"Accept": "application/json"})
	status := 0
	if resp != nil {
		status = resp.StatusCode()
	}
	if err != nil {
		f.log.ErrorObj("feed request failed", "fetch_error", map[string]any{
			"host":        u.Host,
			"status_code": status,
			"error":       err.Error(),
		})
		return domain.FetchResult{StatusCode: status}
	}

	if status != http.StatusOK {
		f.log.WarnObj("feed request returned non-200", "fetch_status", map[string]any{
			"host":        u.Host,
			"status_code": status,
		})
		return domain.FetchResult{StatusCode: status}
	}

	return domain.FetchResult{Body: resp.Body(), StatusCode: status}
}
