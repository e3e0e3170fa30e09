package storage_test

import (
	"io"
	"log/slog"
	"sync"
	"testing"

	"feedviewer/internal/domain"
	"feedviewer/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFeedStoreListSortedByTitle(t *testing.T) {
	store := storage.NewFeedStore(testLogger())
	for _, title := range []string{"Pappy's Golden Age", "Bloody Pulp Tales", "The Horrors of it All"} {
		store.Put(&domain.Feed{ID: domain.HashID(title), Title: title})
	}

	feeds := store.List()
	require.Len(t, feeds, 3)
	assert.Equal(t, "Bloody Pulp Tales", feeds[0].Title)
	assert.Equal(t, "Pappy's Golden Age", feeds[1].Title)
	assert.Equal(t, "The Horrors of it All", feeds[2].Title)
}

func TestFeedStoreGet(t *testing.T) {
	store := storage.NewFeedStore(testLogger())
	store.Put(&domain.Feed{ID: "abcd1234", Title: "A"})

	feed, ok := store.Get("abcd1234")
	require.True(t, ok)
	assert.Equal(t, "A", feed.Title)

	_, ok = store.Get("missing0")
	assert.False(t, ok)
}

func TestFeedStoreSameIDLastWriteWins(t *testing.T) {
	store := storage.NewFeedStore(testLogger())
	id := domain.HashID("Same Title")
	store.Put(&domain.Feed{ID: id, URL: "http://one.example/feed", Title: "Same Title"})
	store.Put(&domain.Feed{ID: id, URL: "http://two.example/feed", Title: "Same Title"})

	assert.Equal(t, 1, store.Len())
	feed, ok := store.Get(id)
	require.True(t, ok)
	assert.Equal(t, "http://two.example/feed", feed.URL)
}

func TestPostCache(t *testing.T) {
	cache := storage.NewPostCache()
	post := &domain.Post{FeedID: "feed0001", Entry: domain.Entry{ID: "post-1"}}
	cache.Put(post)

	got, ok := cache.Get("feed0001", "post-1")
	require.True(t, ok)
	assert.Same(t, post, got)

	_, ok = cache.Get("feed0002", "post-1")
	assert.False(t, ok)
	assert.Equal(t, 1, cache.Len())
}

func TestStoresConcurrentAccess(t *testing.T) {
	feeds := storage.NewFeedStore(testLogger())
	posts := storage.NewPostCache()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			feeds.Put(&domain.Feed{ID: "feed0001", Title: "T"})
			feeds.List()
			posts.Put(&domain.Post{FeedID: "feed0001", Entry: domain.Entry{ID: "p"}})
			posts.Get("feed0001", "p")
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, feeds.Len())
	assert.Equal(t, 1, posts.Len())
}

func TestStoresThroughContracts(t *testing.T) {
	var (
		feeds storage.FeedStorage = storage.NewFeedStore(testLogger())
		posts storage.PostStorage = storage.NewPostCache()
	)

	feeds.Put(&domain.Feed{ID: "bbbb0000", Title: "B"})
	feeds.Put(&domain.Feed{ID: "aaaa0000", Title: "A"})
	posts.Put(&domain.Post{FeedID: "aaaa0000", Entry: domain.Entry{ID: "p"}})

	list := feeds.List()
	require.Len(t, list, 2)
	assert.Equal(t, "A", list[0].Title)
	_, ok := feeds.Get("bbbb0000")
	assert.True(t, ok)
	_, ok = posts.Get("aaaa0000", "p")
	assert.True(t, ok)
	assert.Equal(t, 2, feeds.Len())
	assert.Equal(t, 1, posts.Len())
}
