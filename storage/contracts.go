package storage

import (
	"feedviewer/internal/domain"
)

type FeedStorage interface {
	Put(feed *domain.Feed)
	Get(id string) (*domain.Feed, bool)
	List() []*domain.Feed
	Len() int
}

type PostStorage interface {
	Put(post *domain.Post)
	Get(feedID, postID string) (*domain.Post, bool)
	Len() int
}
