// Package metrics provides Prometheus metrics for feedviewer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FeedFetchTotal counts feed fetches by outcome.
	FeedFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "feedviewer",
			Name:      "feed_fetch_total",
			Help:      "Total number of feed fetches",
		},
		[]string{"status"},
	)

	FeedFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "feedviewer",
			Name:      "feed_fetch_duration_seconds",
			Help:      "Duration of feed fetch and parse in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	// PostCacheLookups counts post cache lookups by result (hit, miss, not_found).
	PostCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "feedviewer",
			Name:      "post_cache_lookups_total",
			Help:      "Total number of post cache lookups",
		},
		[]string{"result"},
	)

	NotifyErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "feedviewer",
			Name:      "notify_errors_total",
			Help:      "Total number of failed feed refresh notifications",
		},
	)
)
