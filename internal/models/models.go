package models

import (
	"html/template"

	"feedviewer/internal/domain"
)

// IndexPage is the data behind the feed list.
type IndexPage struct {
	Root  string
	Feeds []*domain.Feed
}

type FeedPage struct {
	Root string
	Page int
	Feed *domain.Feed
}

// PostPage is the data behind a single post. Text is the sanitized lead
// paragraph markup.
type PostPage struct {
	Root   string
	Page   int
	FeedID string
	Feed   *domain.Feed
	Post   *domain.Post
	Text   template.HTML
	Images []string
}
