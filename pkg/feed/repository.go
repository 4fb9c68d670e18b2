package feed

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/samvad-hq/samvad-news-feed/internal/domain"
	"github.com/samvad-hq/samvad-news-feed/internal/logger"
)

// Repository composes a Fetcher and the article parser into one call.
type Repository struct {
	fetcher Fetcher
	log     logger.Logger
}

// NewRepository wires a repository; a nil fetcher falls back to an HTTPFetcher
// with default timeouts.
func NewRepository(fetcher Fetcher, log logger.Logger) *Repository {
	log = logger.Ensure(log)
	if fetcher == nil {
		fetcher = NewHTTPFetcher(nil, log)
	}
	return &Repository{fetcher: fetcher, log: log}
}

// FetchArticles loads and parses rawURL. The status code always travels with
// the result, whatever happened to the body.
func (r *Repository) FetchArticles(ctx context.Context, rawURL string) domain.Result {
	u, err := parseAbsolute(rawURL)
	if err != nil {
		r.log.ErrorObj("feed url rejected", "url_error", map[string]any{
			"error": err.Error(),
		})
		// a nil URL is an empty fetch
		res := r.fetcher.Fetch(ctx, nil)
		return domain.Result{StatusCode: res.StatusCode, Err: err}
	}

	res := r.fetcher.Fetch(ctx, u)
	result := domain.Result{StatusCode: res.StatusCode}
	if res.StatusCode != http.StatusOK {
		result.Err = fmt.Errorf("%w: %d", ErrUnexpectedStatus, res.StatusCode)
	}

	articles, err := ParseArticles(res.Body)
	switch {
	case err == nil:
	case errors.Is(err, ErrEmptyBody):
		if result.Err == nil {
			result.Err = err
		}
	default:
		r.log.ErrorObj("problem parsing feed response", "parse_error", map[string]any{
			"error":          err.Error(),
			"articles_kept":  len(articles),
			"response_bytes": len(res.Body),
		})
		result.Err = err
	}
	result.Articles = articles

	r.log.DebugObj("feed fetch completed", "fetch_result", map[string]any{
		"status_code": result.StatusCode,
		"articles":    len(articles),
	})
	return result
}
