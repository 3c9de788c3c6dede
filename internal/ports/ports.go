package ports

import (
	"context"

	"ArtworksCrawler/internal/domain"
)

// ArtworkSource crawls the configured handles and returns one complete batch.
type ArtworkSource interface {
	Collect(ctx context.Context, handles []string) (domain.CrawlResult, error)
}

// ProfileFetcher downloads the raw markup of one creator profile.
type ProfileFetcher interface {
	Fetch(ctx context.Context, handle string) ([]byte, error)
}

// ArtifactSink persists the serialized record batch.
type ArtifactSink interface {
	Store(ctx context.Context, records []domain.ArtworkRecord) error
	Describe() string
}

// Notifier pushes run summaries to Telegram or other channels.
type Notifier interface {
	PublishSummary(ctx context.Context, summary string) error
}
