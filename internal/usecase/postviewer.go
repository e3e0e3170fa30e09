package usecase

import (
	"fmt"
	"log/slog"

	"feedviewer/internal/domain"
	"feedviewer/internal/metrics"

	"github.com/samber/lo"
)

type PostStorage interface {
	Get(feedID, postID string) (*domain.Post, bool)
	Put(post *domain.Post)
}

type PostExtractor interface {
	Extract(html string) domain.Extraction
}

type PostUseCase struct {
	cache     PostStorage
	extractor PostExtractor
	log       *slog.Logger
}

func NewPostUseCase(cache PostStorage, extractor PostExtractor, log *slog.Logger) *PostUseCase {
	return &PostUseCase{
		cache:     cache,
		extractor: extractor,
		log:       log,
	}
}

// GetOrExtract returns the cached post for (feed.ID, postID). On a miss it
// extracts the first entry of feed whose ID matches and caches the result
// forever, even if the feed later changes.
func (uc *PostUseCase) GetOrExtract(feed *domain.Feed, postID string) (*domain.Post, error) {
	if post, ok := uc.cache.Get(feed.ID, postID); ok {
		metrics.PostCacheLookups.WithLabelValues("hit").Inc()
		return post, nil
	}

	entry, ok := lo.Find(feed.Entries, func(e domain.Entry) bool {
		return e.ID == postID
	})
	if !ok {
		metrics.PostCacheLookups.WithLabelValues("not_found").Inc()
		return nil, fmt.Errorf("%w: %s", domain.ErrPostNotFound, postID)
	}

	metrics.PostCacheLookups.WithLabelValues("miss").Inc()
	post := &domain.Post{
		FeedID:     feed.ID,
		Entry:      entry,
		Extraction: uc.extractor.Extract(entry.Content),
	}
	uc.cache.Put(post)
	uc.log.Debug("Post extracted and cached",
		slog.String("feed_id", feed.ID),
		slog.String("post_id", postID),
		slog.Int("images", len(post.Extraction.Images)),
	)
	return post, nil
}
