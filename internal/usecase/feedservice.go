package usecase

import (
	"context"
	"log/slog"
	"time"

	"DevRadar/internal/domain"
	"DevRadar/internal/feed"
	"DevRadar/internal/metrics"
	"DevRadar/internal/ports"
)

const defaultPageLimit = 20

// FeedRequest describes one paginated read. The two tiers carry independent
// offsets; callers track the RECENT -> HISTORICAL transition via NextTier in
// the response.
type FeedRequest struct {
	Tier   feed.Tier
	Offset int
	Limit  int
}

// FeedResponse is what a feed-reading caller receives: the page, the tier to
// request next, bucket distribution counts for observability and the oldest
// publish time in the page for "through-date" display.
type FeedResponse struct {
	Page         domain.FeedPage
	NextTier     feed.Tier
	Distribution map[domain.Label]int
	ThroughDate  time.Time
}

// FeedService serves the recent tier through the window cache and the
// historical tier straight from the store.
type FeedService struct {
	repository ports.ItemRepository
	cache      *feed.WindowCache
	logger     *slog.Logger
	now        func() time.Time
}

// NewFeedService wires the repository and cache; now may be nil for wall
// clock time.
func NewFeedService(repository ports.ItemRepository, cache *feed.WindowCache, logger *slog.Logger, now func() time.Time) *FeedService {
	if now == nil {
		now = time.Now
	}
	return &FeedService{
		repository: repository,
		cache:      cache,
		logger:     logger,
		now:        now,
	}
}

// Read serves one feed page. A store failure degrades to an empty response
// rather than an error, so the caller can decide what to show instead.
func (s *FeedService) Read(ctx context.Context, req FeedRequest) (FeedResponse, error) {
	if req.Limit <= 0 {
		req.Limit = defaultPageLimit
	}
	if req.Tier == "" {
		req.Tier = feed.TierRecent
	}

	switch req.Tier {
	case feed.TierHistorical:
		return s.readHistorical(ctx, req), nil
	default:
		return s.readRecent(ctx, req), nil
	}
}

// readRecent serves pages by slicing the cached ordered dataset for the
// current epoch, rebuilding it from the store on a miss. Every page request
// within one epoch slices the same array, so pages never drift mid-scroll
// even while a concurrent re-ingestion mutates the store.
func (s *FeedService) readRecent(ctx context.Context, req FeedRequest) FeedResponse {
	epoch := feed.EpochKey(s.now())

	ordered, ok := s.cache.Get(epoch)
	if !ok {
		entries, err := s.repository.ListRecent(ctx, feed.WindowStart(s.now()))
		if err != nil {
			s.warn("recent feed read failed, serving empty page", "error", err)
			return emptyResponse(feed.TierRecent, domain.PageSourceCache)
		}

		ordered = feed.Assemble(entries)
		s.cache.Put(epoch, ordered)
	}

	page := feed.Paginate(ordered, req.Offset, req.Limit, domain.PageSourceCache)
	metrics.FeedPagesServed.WithLabelValues(string(feed.TierRecent), string(page.Source)).Inc()

	return FeedResponse{
		Page:         page,
		NextTier:     feed.Next(feed.TierRecent, page),
		Distribution: feed.Distribution(ordered),
		ThroughDate:  oldestPublished(page.Entries),
	}
}

// readHistorical queries the store directly, bypassing assembly: historical
// entries come back in a single order (score desc, publish time desc) with
// their own offset. Cross-tier de-duplication by URL at the boundary is the
// consumer's contract, not performed here.
func (s *FeedService) readHistorical(ctx context.Context, req FeedRequest) FeedResponse {
	before := feed.WindowStart(s.now())

	entries, total, err := s.repository.ListHistorical(ctx, before, req.Offset, req.Limit)
	if err != nil {
		s.warn("historical feed read failed, serving empty page", "error", err)
		return emptyResponse(feed.TierHistorical, domain.PageSourceStore)
	}

	for i := range entries {
		entries[i].Section = domain.SectionHistorical
	}

	page := domain.FeedPage{
		Entries: entries,
		Total:   total,
		HasMore: req.Offset+len(entries) < total,
		Source:  domain.PageSourceStore,
	}
	metrics.FeedPagesServed.WithLabelValues(string(feed.TierHistorical), string(page.Source)).Inc()

	return FeedResponse{
		Page:         page,
		NextTier:     feed.TierHistorical,
		Distribution: feed.Distribution(entries),
		ThroughDate:  oldestPublished(entries),
	}
}

func emptyResponse(tier feed.Tier, source domain.PageSource) FeedResponse {
	return FeedResponse{
		Page: domain.FeedPage{
			Entries: []domain.FeedEntry{},
			Source:  source,
		},
		NextTier:     tier,
		Distribution: map[domain.Label]int{},
	}
}

func oldestPublished(entries []domain.FeedEntry) time.Time {
	var oldest time.Time
	for _, e := range entries {
		if oldest.IsZero() || e.Item.PublishedAt.Before(oldest) {
			oldest = e.Item.PublishedAt
		}
	}
	return oldest
}

func (s *FeedService) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
