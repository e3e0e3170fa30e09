package domain

import "errors"

var (
	ErrFetch        = errors.New("feed fetch failed")
	ErrFeedNotFound = errors.New("feed not found")
	ErrPostNotFound = errors.New("post not found")
)
