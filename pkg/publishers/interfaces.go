package publishers

import (
	"context"

	"github.com/samvad-hq/samvad-news-feed/internal/logger"
)

// Publisher sends events to a downstream sink (SQS, HTTP, etc).
type Publisher interface {
	ID() string
	Type() string
	Publish(ctx context.Context, evt Event) error
}

// Logger defines the logging surface publishers rely on.
type Logger = logger.Logger
