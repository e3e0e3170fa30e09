package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"feedviewer/internal/domain"
	"feedviewer/internal/metrics"
)

// DefaultStaleAfter is how old a fetched feed may get before a request refetches it.
const DefaultStaleAfter = 30 * time.Minute

type FeedProcessingUseCase struct {
	fetcher    FeedFetcher
	parser     FeedParser
	storage    FeedStorage
	notifier   FeedNotifier
	log        *slog.Logger
	feedNames  map[string]string
	staleAfter time.Duration
	now        func() time.Time
}

func NewFeedProcessingUseCase(
	fetcher FeedFetcher,
	parser FeedParser,
	storage FeedStorage,
	notifier FeedNotifier,
	log *slog.Logger,
	feedNames map[string]string,
	staleAfter time.Duration,
) *FeedProcessingUseCase {
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}
	return &FeedProcessingUseCase{
		fetcher:    fetcher,
		parser:     parser,
		storage:    storage,
		notifier:   notifier,
		log:        log,
		feedNames:  feedNames,
		staleAfter: staleAfter,
		now:        time.Now,
	}
}

// ProcessFeed fetches and parses url, then stores the result under the hash
// of its title, replacing any feed already stored under that ID.
func (uc *FeedProcessingUseCase) ProcessFeed(ctx context.Context, url string) (*domain.Feed, error) {
	start := time.Now()
	feedName := uc.extractFeedName(url)
	log := uc.log.With(
		slog.String("component", "feed-processor"),
		slog.String("feed", feedName),
		slog.String("url", url),
	)
	log.Info("Processing feed started")

	reader, err := uc.fetcher.Fetch(ctx, url)
	if err != nil {
		metrics.FeedFetchTotal.WithLabelValues("fetch_error").Inc()
		log.Error("Feed fetch failed",
			slog.String("stage", "fetch"),
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("%w: fetch %s: %w", domain.ErrFetch, feedName, err)
	}
	defer reader.Close()

	feed, err := uc.parser.Parse(ctx, reader)
	if err != nil {
		metrics.FeedFetchTotal.WithLabelValues("parse_error").Inc()
		log.Error("Feed parsing error",
			slog.String("stage", "parse"),
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("%w: parse %s: %w", domain.ErrFetch, feedName, err)
	}

	feed.URL = url
	feed.ID = domain.HashID(feed.Title)
	feed.LastFetched = uc.now()
	uc.storage.Put(feed)
	uc.notifier.FeedRefreshed(ctx, feed)

	duration := time.Since(start)
	metrics.FeedFetchTotal.WithLabelValues("ok").Inc()
	metrics.FeedFetchDuration.Observe(duration.Seconds())
	log.Info("Feed processing completed successfully",
		slog.String("feed_id", feed.ID),
		slog.String("title", feed.Title),
		slog.Int("entries", len(feed.Entries)),
		slog.Duration("duration", duration),
	)
	return feed, nil
}

// RefreshIfStale refetches feed when it is older than the staleness window
// and returns whichever record is current. Concurrent callers may both
// refetch; the later write wins.
func (uc *FeedProcessingUseCase) RefreshIfStale(ctx context.Context, feed *domain.Feed) (*domain.Feed, error) {
	if uc.now().Sub(feed.LastFetched) <= uc.staleAfter {
		return feed, nil
	}
	uc.log.Debug("Feed is stale, refetching",
		slog.String("feed_id", feed.ID),
		slog.Time("last_fetched", feed.LastFetched),
	)
	return uc.ProcessFeed(ctx, feed.URL)
}

// extractFeedName returns a readable feed name for logs.
func (uc *FeedProcessingUseCase) extractFeedName(url string) string {
	if name, ok := uc.feedNames[url]; ok {
		return name
	}
	parts := strings.Split(url, "/")
	if len(parts) >= 3 {
		host := parts[2]
		if strings.HasPrefix(host, "www.") {
			host = host[4:]
		}
		return host
	}
	return "Unknown"
}
