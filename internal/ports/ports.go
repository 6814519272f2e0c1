package ports

import (
	"context"
	"time"

	"DevRadar/internal/domain"
)

// SourceAdapter pulls fresh items from one upstream provider. Fetch must
// never panic out of its top level: on failure it returns an empty slice
// together with the error, never partial or corrupt data.
type SourceAdapter interface {
	Name() string
	Fetch(ctx context.Context) ([]domain.RawItem, error)
}

// Classifier scores one canonical item for developer relevance. A per-item
// failure is returned as an error and treated as a soft failure by callers.
type Classifier interface {
	Classify(ctx context.Context, item domain.CanonicalItem) (domain.ClassificationResult, error)
}

// ItemRepository persists classified canonical items and duplicate
// provenance, and serves the two feed tiers.
type ItemRepository interface {
	// Ping reports whether the store is reachable at all; a failure here is
	// the only pipeline-fatal condition.
	Ping(ctx context.Context) error

	// UpsertItem is keyed by URL: re-running the pipeline against the same
	// item updates score and summary fields rather than duplicating the row.
	UpsertItem(ctx context.Context, item domain.CanonicalItem, result domain.ClassificationResult) error

	// SaveDuplicate links a merged-away duplicate to its canonical item.
	SaveDuplicate(ctx context.Context, canonicalURL string, dup domain.DuplicateRef) error

	// ListRecent returns all feed entries published at or after since,
	// unordered; ordering is the assembler's job.
	ListRecent(ctx context.Context, since time.Time) ([]domain.FeedEntry, error)

	// ListHistorical returns entries published strictly before the recency
	// window, ordered score descending then publish time descending, plus
	// the total count of the historical dataset.
	ListHistorical(ctx context.Context, before time.Time, offset, limit int) ([]domain.FeedEntry, int, error)
}
