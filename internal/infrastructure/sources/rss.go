package sources

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mmcdole/gofeed"

	"DevRadar/internal/dedup"
	"DevRadar/internal/domain"
)

// RSSAdapter fetches a configured set of RSS/Atom feeds via gofeed.
type RSSAdapter struct {
	feedURLs []string
	lookback time.Duration
	parser   *gofeed.Parser
	logger   *slog.Logger
}

// NewRSS builds the adapter over the configured feed URLs.
func NewRSS(feedURLs []string, lookback time.Duration, logger *slog.Logger) *RSSAdapter {
	if lookback <= 0 {
		lookback = 3 * 24 * time.Hour
	}
	return &RSSAdapter{
		feedURLs: feedURLs,
		lookback: lookback,
		parser:   gofeed.NewParser(),
		logger:   logger,
	}
}

// Name identifies the adapter.
func (r *RSSAdapter) Name() string {
	return "rss"
}

// Fetch parses every configured feed. A single feed's failure is logged and
// skipped; the fetch as a whole fails only when every feed failed, so the
// caller never receives partial data presented as complete silence.
func (r *RSSAdapter) Fetch(ctx context.Context) ([]domain.RawItem, error) {
	cutoff := time.Now().UTC().Add(-r.lookback)

	items := make([]domain.RawItem, 0)
	errs := make([]error, 0)

	for _, feedURL := range r.feedURLs {
		parsed, err := r.parser.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("feed %s: %w", feedURL, err))
			if r.logger != nil {
				r.logger.Warn("feed fetch failed", "url", feedURL, "error", err)
			}
			continue
		}

		for _, entry := range parsed.Items {
			item, ok := mapFeedItem(entry, cutoff)
			if !ok {
				continue
			}
			items = append(items, item)
		}
	}

	if len(items) == 0 && len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return items, nil
}

func mapFeedItem(entry *gofeed.Item, cutoff time.Time) (domain.RawItem, bool) {
	if entry == nil || entry.Title == "" || entry.Link == "" {
		return domain.RawItem{}, false
	}

	published := time.Now().UTC()
	if entry.PublishedParsed != nil {
		published = entry.PublishedParsed.UTC()
	}
	if published.Before(cutoff) {
		return domain.RawItem{}, false
	}

	item := domain.RawItem{
		Title:       entry.Title,
		URL:         entry.Link,
		Source:      domain.SourceRSS,
		SourceID:    entry.GUID,
		PublishedAt: published,
		Excerpt:     entry.Description,
		Content:     entry.Content,
		Domain:      dedup.RegistrableDomain(entry.Link),
	}
	if entry.Author != nil {
		item.Author = entry.Author.Name
	}

	return item, true
}
