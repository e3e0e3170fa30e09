package usecase

import (
	"context"
	"fmt"

	"feedviewer/internal/domain"
)

type FeedReader interface {
	Get(id string) (*domain.Feed, bool)
	List() []*domain.Feed
}

type FeedRefresher interface {
	RefreshIfStale(ctx context.Context, feed *domain.Feed) (*domain.Feed, error)
}

type FeedGetterUseCase struct {
	storage   FeedReader
	refresher FeedRefresher
}

func NewFeedGetterUseCase(s FeedReader, r FeedRefresher) *FeedGetterUseCase {
	return &FeedGetterUseCase{storage: s, refresher: r}
}

// ListFeeds refreshes every stale feed and returns all feeds ordered by title.
func (uc *FeedGetterUseCase) ListFeeds(ctx context.Context) ([]*domain.Feed, error) {
	for _, feed := range uc.storage.List() {
		if _, err := uc.refresher.RefreshIfStale(ctx, feed); err != nil {
			return nil, err
		}
	}
	return uc.storage.List(), nil
}

// GetFeed looks the feed up and refreshes it when stale.
func (uc *FeedGetterUseCase) GetFeed(ctx context.Context, id string) (*domain.Feed, error) {
	feed, err := uc.LookupFeed(id)
	if err != nil {
		return nil, err
	}
	return uc.refresher.RefreshIfStale(ctx, feed)
}

// LookupFeed returns the stored feed without refreshing it.
func (uc *FeedGetterUseCase) LookupFeed(id string) (*domain.Feed, error) {
	feed, ok := uc.storage.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrFeedNotFound, id)
	}
	return feed, nil
}
