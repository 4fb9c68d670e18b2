package domain

// Domain contains core models shared by the feed pipeline and its consumers.

// Article is one parsed news entry. Values are compared structurally.
type Article struct {
	Title        string `json:"title"`
	DetailURL    string `json:"detail_url"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
}

// FetchResult is the raw outcome of a single GET.
type FetchResult struct {
	Body       []byte
	StatusCode int
}

// Result is what a load delivers: the parsed articles together with the
// status code of the request that produced them.
//
// Articles is nil when there was nothing to parse and non-nil (possibly
// empty) when a body was parsed. Err carries the first problem met along the
// way for diagnostics; it never means the other fields are unusable.
type Result struct {
	Articles   []Article
	StatusCode int
	Err        error
}
