package publishers

import (
	"time"

	"github.com/samvad-hq/samvad-news-feed/internal/domain"
)

// Event is one delivered feed snapshot. Consumers replace whatever they
// held for FeedID with Articles; snapshots are never merged.
type Event struct {
	FeedID      string           `json:"feed_id"`
	StatusCode  int              `json:"status_code"`
	Articles    []domain.Article `json:"articles"`
	Error       string           `json:"error,omitempty"`
	DeliveredAt time.Time        `json:"delivered_at"`
}

// NewEvent constructs an Event for a delivered load result.
func NewEvent(feedID string, res domain.Result) Event {
	articles := res.Articles
	if articles == nil {
		articles = []domain.Article{}
	}
	evt := Event{
		FeedID:      feedID,
		StatusCode:  res.StatusCode,
		Articles:    articles,
		DeliveredAt: time.Now().UTC(),
	}
	if res.Err != nil {
		evt.Error = res.Err.Error()
	}
	return evt
}
