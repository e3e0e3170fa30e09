package parser

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"feedviewer/internal/domain"

	"github.com/mmcdole/gofeed"
)

// FeedParser turns RSS, Atom or JSON feed documents into domain feeds.
type FeedParser struct {
	parser *gofeed.Parser
	log    *slog.Logger
}

func New(log *slog.Logger) *FeedParser {
	return &FeedParser{
		parser: gofeed.NewParser(),
		log:    log,
	}
}

func (p *FeedParser) Parse(ctx context.Context, reader io.Reader) (*domain.Feed, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	parsed, err := p.parser.Parse(reader)
	if err != nil {
		p.log.Error(
			"Failed to parse feed",
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	feed := domain.Feed{
		Title:       parsed.Title,
		Link:        parsed.Link,
		Description: parsed.Description,
		Updated:     timeOrZero(parsed.UpdatedParsed),
		FeedType:    parsed.FeedType,
		Entries:     make([]domain.Entry, 0, len(parsed.Items)),
	}
	if parsed.Author != nil {
		feed.Author = parsed.Author.Name
	}

	for _, item := range parsed.Items {
		entry := toEntry(item)
		if entry.ID == "" {
			p.log.Warn(
				"Feed item has neither id nor link, skipping item",
				slog.String("item_title", item.Title),
			)
			continue
		}
		feed.Entries = append(feed.Entries, entry)
	}
	return &feed, nil
}

func toEntry(item *gofeed.Item) domain.Entry {
	entry := domain.Entry{
		ID:        item.GUID,
		Title:     item.Title,
		Link:      item.Link,
		Published: timeOrZero(item.PublishedParsed),
		Updated:   timeOrZero(item.UpdatedParsed),
		Content:   item.Content,
	}
	if entry.ID == "" {
		entry.ID = item.Link
	}
	if entry.Content == "" {
		entry.Content = item.Description
	}
	if item.Author != nil {
		entry.Author = item.Author.Name
	}
	return entry
}

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
