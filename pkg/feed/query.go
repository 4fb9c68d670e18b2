package feed

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	DefaultBaseURL = "https://content.guardianapis.com/search"
	DefaultKeyword = "football"
	DefaultSection = "football"
	DefaultAPIKey  = "test"
)

// Query describes the single first-page search issued against the content API.
type Query struct {
	BaseURL string
	Keyword string
	Section string
	APIKey  string
}

// DefaultQuery is the newest-first football query.
func DefaultQuery() Query {
	return Query{
		BaseURL: DefaultBaseURL,
		Keyword: DefaultKeyword,
		Section: DefaultSection,
		APIKey:  DefaultAPIKey,
	}
}

// URL renders the query string. Parameter order is fixed so the output is
// stable for logging and tests.
func (q Query) URL() (string, error) {
	base := strings.TrimSpace(q.BaseURL)
	if base == "" {
		return "", fmt.Errorf("%w: base url is empty", ErrInvalidURL)
	}
	if _, err := parseAbsolute(base); err != nil {
		return "", err
	}

	params := []struct{ key, val string }{
		{"q", q.Keyword},
		{"format", "json"},
		{"section", q.Section},
		{"show-fields", "thumbnail"},
		{"order-by", "newest"},
		{"api-key", q.APIKey},
	}

	var b strings.Builder
	for _, p := range params {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(strings.TrimSpace(p.val)))
	}

	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + b.String(), nil
}

// parseAbsolute accepts only absolute http(s) URLs.
func parseAbsolute(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("%w: %q is not absolute", ErrInvalidURL, raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}
	return u, nil
}
