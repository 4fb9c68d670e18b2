package feed

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/samvad-hq/samvad-news-feed/internal/domain"
)

var (
	errMissing   = errors.New("missing")
	errWrongType = errors.New("wrong type")
)

// ParseArticles extracts articles from a content API search response.
//
// A blank body yields (nil, ErrEmptyBody). Otherwise the traversal stops at
// the first structural problem and returns the articles collected before it
// along with a *ParseError; the slice is non-nil even when empty.
func ParseArticles(body []byte) ([]domain.Article, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, ErrEmptyBody
	}

	articles := []domain.Article{}

	root, err := asObject(body)
	if err != nil {
		return articles, &ParseError{Path: "$", Err: err}
	}
	response, err := objectField(root, "response")
	if err != nil {
		return articles, &ParseError{Path: "response", Err: err}
	}
	results, err := arrayField(response, "results")
	if err != nil {
		return articles, &ParseError{Path: "response.results", Err: err}
	}

	for i, raw := range results {
		article, err := parseResult(raw)
		if err != nil {
			err.Path = fmt.Sprintf("response.results[%d].%s", i, err.Path)
			return articles, err
		}
		articles = append(articles, article)
	}
	return articles, nil
}

func parseResult(raw json.RawMessage) (domain.Article, *ParseError) {
	obj, err := asObject(raw)
	if err != nil {
		return domain.Article{}, &ParseError{Path: "$", Err: err}
	}
	title, err := stringField(obj, "webTitle")
	if err != nil {
		return domain.Article{}, &ParseError{Path: "webTitle", Err: err}
	}
	detail, err := stringField(obj, "webUrl")
	if err != nil {
		return domain.Article{}, &ParseError{Path: "webUrl", Err: err}
	}
	fields, err := objectField(obj, "fields")
	if err != nil {
		return domain.Article{}, &ParseError{Path: "fields", Err: err}
	}
	thumb, err := stringField(fields, "thumbnail")
	if err != nil {
		return domain.Article{}, &ParseError{Path: "fields.thumbnail", Err: err}
	}
	return domain.Article{Title: title, DetailURL: detail, ThumbnailURL: thumb}, nil
}

type object map[string]json.RawMessage

func asObject(raw []byte) (object, error) {
	if !startsWith(raw, '{') {
		return nil, errWrongType
	}
	var obj object
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, err
	}
	return obj, nil
}

func objectField(obj object, key string) (object, error) {
	raw, ok := obj[key]
	if !ok {
		return nil, errMissing
	}
	return asObject(raw)
}

func arrayField(obj object, key string) ([]json.RawMessage, error) {
	raw, ok := obj[key]
	if !ok {
		return nil, errMissing
	}
	if !startsWith(raw, '[') {
		return nil, errWrongType
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func stringField(obj object, key string) (string, error) {
	raw, ok := obj[key]
	if !ok {
		return "", errMissing
	}
	if !startsWith(raw, '"') {
		return "", errWrongType
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", err
	}
	return s, nil
}

func startsWith(raw []byte, c byte) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == c
}
