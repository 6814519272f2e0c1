package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ItemsFetched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "devradar_items_fetched_total",
			Help: "Raw items fetched per source",
		},
		[]string{"source", "status"},
	)

	DuplicatesMerged = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "devradar_duplicates_merged_total",
			Help: "Raw items merged away during deduplication",
		},
	)

	ItemsClassified = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "devradar_items_classified_total",
			Help: "Canonical items classified, by outcome",
		},
		[]string{"status"},
	)

	ItemsSaved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "devradar_items_saved_total",
			Help: "Classified items persisted, by outcome",
		},
		[]string{"status"},
	)

	FeedPagesServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "devradar_feed_pages_served_total",
			Help: "Feed pages served, by tier and backing source",
		},
		[]string{"tier", "source"},
	)

	PassDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "devradar_ingestion_pass_duration_seconds",
			Help:    "Wall time of one ingestion pass",
			Buckets: prometheus.DefBuckets,
		},
	)
)
