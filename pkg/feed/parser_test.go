package feed

import (
	"errors"
	"testing"

	"github.com/samvad-hq/samvad-news-feed/internal/domain"
)

const threeResults = `{
  "response": {
    "status": "ok",
    "results": [
      {"webTitle": "First", "webUrl": "https://example.com/1", "fields": {"thumbnail": "https://img.example.com/1.jpg"}},
      {"webTitle": "Second", "webUrl": "https://example.com/2", "fields": {"thumbnail": "https://img.example.com/2.jpg"}},
      {"webTitle": "Third", "webUrl": "https://example.com/3", "fields": {"thumbnail": ""}}
    ]
  }
}`

func TestParseArticlesEmptyBody(t *testing.T) {
	for _, body := range [][]byte{nil, []byte(""), []byte("  \n\t")} {
		articles, err := ParseArticles(body)
		if articles != nil {
			t.Fatalf("ParseArticles(%q) = %#v, want nil", body, articles)
		}
		if !errors.Is(err, ErrEmptyBody) {
			t.Fatalf("ParseArticles(%q) err = %v, want ErrEmptyBody", body, err)
		}
	}
}

func TestParseArticlesPreservesOrderAndFields(t *testing.T) {
	articles, err := ParseArticles([]byte(threeResults))
	if err != nil {
		t.Fatalf("ParseArticles: %v", err)
	}
	want := []domain.Article{
		{Title: "First", DetailURL: "https://example.com/1", ThumbnailURL: "https://img.example.com/1.jpg"},
		{Title: "Second", DetailURL: "https://example.com/2", ThumbnailURL: "https://img.example.com/2.jpg"},
		{Title: "Third", DetailURL: "https://example.com/3"},
	}
	if len(articles) != len(want) {
		t.Fatalf("got %d articles, want %d", len(articles), len(want))
	}
	for i := range want {
		if articles[i] != want[i] {
			t.Errorf("article[%d] = %+v, want %+v", i, articles[i], want[i])
		}
	}
}

func TestParseArticlesZeroResultsIsNotNil(t *testing.T) {
	articles, err := ParseArticles([]byte(`{"response":{"results":[]}}`))
	if err != nil {
		t.Fatalf("ParseArticles: %v", err)
	}
	if articles == nil || len(articles) != 0 {
		t.Fatalf("expected non-nil empty slice, got %#v", articles)
	}
}

func TestParseArticlesMissingResponse(t *testing.T) {
	articles, err := ParseArticles([]byte(`{"message":"rate limited"}`))
	if len(articles) != 0 {
		t.Fatalf("expected no articles, got %#v", articles)
	}
	var perr *ParseError
	if !errors.As(err, &perr) || perr.Path != "response" {
		t.Fatalf("expected ParseError at response, got %v", err)
	}
}

func TestParseArticlesKeepsArticlesBeforeFailure(t *testing.T) {
	body := `{"response":{"results":[
      {"webTitle": "Kept", "webUrl": "https://example.com/k", "fields": {"thumbnail": "t"}},
      {"webTitle": "No fields", "webUrl": "https://example.com/x"},
      {"webTitle": "Never reached", "webUrl": "https://example.com/n", "fields": {"thumbnail": "t"}}
    ]}}`

	articles, err := ParseArticles([]byte(body))
	if len(articles) != 1 || articles[0].Title != "Kept" {
		t.Fatalf("expected only the first article, got %#v", articles)
	}
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if perr.Path != "response.results[1].fields" {
		t.Fatalf("Path = %q", perr.Path)
	}
}

func TestParseArticlesRejectsWrongTypes(t *testing.T) {
	cases := map[string]string{
		"not json":           `<html>`,
		"truncated":          `{"response": {"results": [`,
		"results not array":  `{"response":{"results":{}}}`,
		"title not string":   `{"response":{"results":[{"webTitle": 7, "webUrl": "u", "fields": {"thumbnail": "t"}}]}}`,
		"thumbnail null":     `{"response":{"results":[{"webTitle": "a", "webUrl": "u", "fields": {"thumbnail": null}}]}}`,
		"response is string": `{"response":"ok"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			articles, err := ParseArticles([]byte(body))
			if err == nil {
				t.Fatalf("expected error")
			}
			if articles == nil {
				t.Fatalf("expected non-nil slice for non-empty body")
			}
			if len(articles) != 0 {
				t.Fatalf("expected no articles, got %#v", articles)
			}
		})
	}
}
