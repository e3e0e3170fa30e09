package domain

import (
	"crypto/sha1"
	"encoding/hex"
	"time"
)

// Entry is a single post summary as listed by the source feed.
type Entry struct {
	ID        string
	Title     string
	Link      string
	Author    string
	Published time.Time
	Updated   time.Time
	Content   string
}

type Feed struct {
	URL         string
	ID          string
	LastFetched time.Time

	Title       string
	Link        string
	Description string
	Author      string
	Updated     time.Time
	FeedType    string
	Entries     []Entry
}

// Extraction is what the viewer pulls out of a post's HTML body.
type Extraction struct {
	Lead     string
	LeadHTML string
	Images   []string
}

type Post struct {
	FeedID     string
	Entry      Entry
	Extraction Extraction
}

// HashID returns the first 8 hex characters of the SHA-1 digest of title.
// Feeds with identical titles get identical IDs.
func HashID(title string) string {
	sum := sha1.Sum([]byte(title))
	return hex.EncodeToString(sum[:])[:8]
}
