package usecase

import (
	"context"
	"io"

	"feedviewer/internal/domain"
)

// FeedFetcher retrieves the raw feed document.
type FeedFetcher interface {
	Fetch(ctx context.Context, url string) (io.ReadCloser, error)
}

// FeedParser turns the raw document into a domain feed.
type FeedParser interface {
	Parse(ctx context.Context, reader io.Reader) (*domain.Feed, error)
}

// FeedStorage keeps the fetched feed.
type FeedStorage interface {
	Put(feed *domain.Feed)
}

// FeedNotifier is told about every successful fetch.
type FeedNotifier interface {
	FeedRefreshed(ctx context.Context, feed *domain.Feed)
}
