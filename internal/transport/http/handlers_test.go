package http_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"feedviewer/internal/domain"
	"feedviewer/internal/extractor"
	"feedviewer/internal/fetcher"
	"feedviewer/internal/notify"
	"feedviewer/internal/parser"
	transport "feedviewer/internal/transport/http"
	"feedviewer/internal/usecase"
	"feedviewer/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pulpFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Bloody Pulp Tales</title>
  <link href="http://bloodypulptales.com/"/>
  <entry>
    <id>tag:blogger.com,1999:blog-1.post-100</id>
    <title>The Crawling Thing</title>
    <link href="http://bloodypulptales.com/crawling"/>
    <published>2024-01-01T10:00:00Z</published>
    <content type="html">&lt;p&gt;Once upon a time&lt;/p&gt;&lt;a href="http://img.example/1.jpg"&gt;&lt;img src="http://img.example/1s.jpg"/&gt;&lt;/a&gt;&lt;a href="http://elsewhere.example/"&gt;link&lt;/a&gt;</content>
  </entry>
</feed>`

const comicsFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Alpha Comics</title>
  <entry>
    <id>post-1</id>
    <title>Issue one</title>
    <content type="html">&lt;p&gt;Comics&lt;/p&gt;</content>
  </entry>
</feed>`

type testEnv struct {
	feedServer *httptest.Server
	processor  *usecase.FeedProcessingUseCase
	posts      *storage.PostCache
	handler    http.Handler
	pulpID     string
	pulpHits   *atomic.Int32
}

func newTestEnv(t *testing.T, staleAfter time.Duration) *testEnv {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	pulpHits := &atomic.Int32{}
	mux := http.NewServeMux()
	mux.HandleFunc("/pulp", func(w http.ResponseWriter, r *http.Request) {
		pulpHits.Add(1)
		_, _ = w.Write([]byte(pulpFeed))
	})
	mux.HandleFunc("/comics", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(comicsFeed))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	feeds := storage.NewFeedStore(log)
	posts := storage.NewPostCache()
	processor := usecase.NewFeedProcessingUseCase(
		fetcher.New(srv.Client(), log),
		parser.New(log),
		feeds,
		notify.Nop{},
		log,
		nil,
		staleAfter,
	)
	for _, path := range []string{"/pulp", "/comics"} {
		_, err := processor.ProcessFeed(context.Background(), srv.URL+path)
		require.NoError(t, err)
	}

	api, err := transport.NewApi(
		usecase.NewFeedGetterUseCase(feeds, processor),
		usecase.NewPostUseCase(posts, extractor.New(log), log),
		feeds,
		posts,
		"/viewer",
		log,
	)
	require.NoError(t, err)

	return &testEnv{
		feedServer: srv,
		processor:  processor,
		posts:      posts,
		handler:    api.Router(),
		pulpID:     domain.HashID("Bloody Pulp Tales"),
		pulpHits:   pulpHits,
	}
}

func (e *testEnv) get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestIndexListsFeedsByTitle(t *testing.T) {
	env := newTestEnv(t, time.Hour)

	rec := env.get(t, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	alpha := strings.Index(body, "Alpha Comics")
	pulp := strings.Index(body, "Bloody Pulp Tales")
	require.NotEqual(t, -1, alpha)
	require.NotEqual(t, -1, pulp)
	assert.Less(t, alpha, pulp)
	assert.Contains(t, body, `href="/viewer/feed/`+env.pulpID+`"`)
}

func TestFeedUnknown(t *testing.T) {
	env := newTestEnv(t, time.Hour)

	rec := env.get(t, "/feed/deadbeef")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "could not find feed deadbeef", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
}

func TestFeedListsEntries(t *testing.T) {
	env := newTestEnv(t, time.Hour)

	rec := env.get(t, "/feed/"+env.pulpID+"?p=3")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "The Crawling Thing")
	assert.Contains(t, body, "/viewer/feed/"+env.pulpID+"/")
	assert.Contains(t, body, "p=3")
}

func TestPostRendersLeadAndGallery(t *testing.T) {
	env := newTestEnv(t, time.Hour)
	target := "/feed/" + env.pulpID + "/" + url.PathEscape("tag:blogger.com,1999:blog-1.post-100")

	rec := env.get(t, target)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<p>Once upon a time</p>")
	assert.Contains(t, body, `href="http://img.example/1.jpg"`)
	assert.NotContains(t, body, "elsewhere.example")
	assert.Contains(t, body, "Bloody Pulp Tales")
}

func TestPostRepeatedRequestsHitCache(t *testing.T) {
	env := newTestEnv(t, time.Hour)
	target := "/feed/" + env.pulpID + "/" + url.PathEscape("tag:blogger.com,1999:blog-1.post-100")

	first := env.get(t, target).Body.String()
	second := env.get(t, target).Body.String()

	assert.Equal(t, first, second)
	assert.Equal(t, 1, env.posts.Len())
}

func TestPostUnknownFeed(t *testing.T) {
	env := newTestEnv(t, time.Hour)

	rec := env.get(t, "/feed/deadbeef/post-1")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "could not find feed deadbeef", rec.Body.String())
}

func TestPostUnknownPost(t *testing.T) {
	env := newTestEnv(t, time.Hour)

	rec := env.get(t, "/feed/"+env.pulpID+"/missing-post")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "could not find post missing-post", rec.Body.String())
	assert.Zero(t, env.posts.Len())
}

func TestIndexFetchFailureIsServerError(t *testing.T) {
	env := newTestEnv(t, time.Nanosecond)
	env.feedServer.Close()

	rec := env.get(t, "/")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, time.Hour)

	rec := env.get(t, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "posts_cached")
}

func TestRejectsNonGet(t *testing.T) {
	env := newTestEnv(t, time.Hour)

	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.NotEqual(t, http.StatusOK, rec.Code)
}

func TestFeedFreshIsNotRefetched(t *testing.T) {
	env := newTestEnv(t, time.Hour)

	rec := env.get(t, "/feed/"+env.pulpID)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int32(1), env.pulpHits.Load())
}

func TestFeedStaleIsRefetched(t *testing.T) {
	env := newTestEnv(t, time.Nanosecond)
	require.Equal(t, int32(1), env.pulpHits.Load())

	rec := env.get(t, "/feed/"+env.pulpID)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "The Crawling Thing")
	assert.Equal(t, int32(2), env.pulpHits.Load())
}

func TestMetrics(t *testing.T) {
	env := newTestEnv(t, time.Hour)
	env.get(t, "/feed/"+env.pulpID+"/missing-post")

	rec := env.get(t, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "feedviewer_feed_fetch_total")
	assert.Contains(t, body, `feedviewer_post_cache_lookups_total{result="not_found"}`)
}
