package storage

import (
	"log/slog"
	"sort"
	"sync"

	"feedviewer/internal/domain"

	"github.com/samber/lo"
)

var (
	_ FeedStorage = (*FeedStore)(nil)
	_ PostStorage = (*PostCache)(nil)
)

// FeedStore keeps the last fetched state of every feed, keyed by feed ID.
// Writes overwrite whatever is stored under the same ID.
type FeedStore struct {
	mu    sync.RWMutex
	feeds map[string]*domain.Feed
	log   *slog.Logger
}

func NewFeedStore(log *slog.Logger) *FeedStore {
	return &FeedStore{
		feeds: make(map[string]*domain.Feed),
		log:   log,
	}
}

func (s *FeedStore) Put(feed *domain.Feed) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.feeds[feed.ID]; ok && prev.URL != feed.URL {
		s.log.Warn("Feed ID collision, overwriting stored feed",
			slog.String("feed_id", feed.ID),
			slog.String("previous_url", prev.URL),
			slog.String("url", feed.URL),
		)
	}
	s.feeds[feed.ID] = feed
}

func (s *FeedStore) Get(id string) (*domain.Feed, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	feed, ok := s.feeds[id]
	return feed, ok
}

// List returns every stored feed ordered by title.
func (s *FeedStore) List() []*domain.Feed {
	s.mu.RLock()
	feeds := lo.Values(s.feeds)
	s.mu.RUnlock()

	sort.SliceStable(feeds, func(i, j int) bool {
		return feeds[i].Title < feeds[j].Title
	})
	return feeds
}

func (s *FeedStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.feeds)
}

type postKey struct {
	feedID string
	postID string
}

// PostCache holds extracted posts for the lifetime of the process.
// Nothing is ever evicted.
type PostCache struct {
	mu    sync.RWMutex
	posts map[postKey]*domain.Post
}

func NewPostCache() *PostCache {
	return &PostCache{
		posts: make(map[postKey]*domain.Post),
	}
}

func (c *PostCache) Put(post *domain.Post) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.posts[postKey{feedID: post.FeedID, postID: post.Entry.ID}] = post
}

func (c *PostCache) Get(feedID, postID string) (*domain.Post, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	post, ok := c.posts[postKey{feedID: feedID, postID: postID}]
	return post, ok
}

func (c *PostCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.posts)
}
