package viewer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/samvad-hq/samvad-news-feed/internal/logger"
	"github.com/samvad-hq/samvad-news-feed/pkg/httpclient"
)

const (
	maxHTMLBodyBytes = 1 << 20 // 1 MiB
	defaultTimeout   = 15 * time.Second
)

// Preview is the metadata a detail page advertises about itself.
type Preview struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

// Viewer fetches article pages and extracts a preview from OG tags.
type Viewer struct {
	client  httpclient.Client
	out     io.Writer
	log     logger.Logger
	timeout time.Duration
}

// New constructs a viewer with the provided HTTP client (or default). Open
// writes previews to out.
func New(client httpclient.Client, out io.Writer, log logger.Logger) *Viewer {
	if client == nil {
		client = httpclient.NewRestyClient(defaultTimeout)
	}
	if out == nil {
		out = io.Discard
	}
	return &Viewer{client: client, out: out, log: logger.Ensure(log), timeout: defaultTimeout}
}

// Open renders a preview of detailURL to the viewer's writer.
func (v *Viewer) Open(detailURL string) error {
	ctx, cancel := context.WithTimeout(context.Background(), v.timeout)
	defer cancel()

	p, err := v.Preview(ctx, detailURL)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(v.out, "%s\n%s\n%s\n", p.Title, p.URL, p.Description)
	return err
}

// Preview fetches detailURL and reads its OG metadata.
func (v *Viewer) Preview(ctx context.Context, detailURL string) (Preview, error) {
	u, err := url.Parse(strings.TrimSpace(detailURL))
	if err != nil || !u.IsAbs() {
		return Preview{}, fmt.Errorf("detail url %q is not absolute", detailURL)
	}

	resp, err := v.client.Get(ctx, u.String(), map[string]string{"Accept": "text/html"})
	if err != nil {
		return Preview{}, fmt.Errorf("http fetch: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		snippet := strings.TrimSpace(string(resp.Body()))
		if len(snippet) > 1024 {
			snippet = snippet[:1024]
		}
		return Preview{}, fmt.Errorf("status %d body: %s", resp.StatusCode(), snippet)
	}

	body := resp.Body()
	if len(body) > maxHTMLBodyBytes {
		body = body[:maxHTMLBodyBytes]
	}

	p, err := parseMeta(body)
	if err != nil {
		return Preview{}, err
	}
	p.URL = u.String()
	p.ImageURL = resolveURL(p.ImageURL, p.URL)

	v.log.DebugObj("detail preview extracted", "preview", p)
	return p, nil
}

func parseMeta(body []byte) (Preview, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return Preview{}, fmt.Errorf("parse html: %w", err)
	}

	extract := func(sel string) string {
		if node := doc.Find(sel).First(); node.Length() > 0 {
			if val, ok := node.Attr("content"); ok {
				return strings.TrimSpace(val)
			}
		}
		return ""
	}

	return Preview{
		Title: firstNonEmpty(
			extract(`meta[property="og:title"]`),
			strings.TrimSpace(doc.Find("title").First().Text()),
		),
		Description: firstNonEmpty(
			extract(`meta[property="og:description"]`),
			extract(`meta[name="description"]`),
		),
		ImageURL: extract(`meta[property="og:image"]`),
	}, nil
}

func resolveURL(ref, base string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
