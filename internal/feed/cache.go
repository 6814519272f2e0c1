package feed

import (
	"sync"
	"time"

	"DevRadar/internal/domain"
)

// RecencyWindowDays is the size of the rolling window served from cache.
const RecencyWindowDays = 3

// WindowStart returns the UTC start of the recency window: midnight of
// today minus RecencyWindowDays.
func WindowStart(now time.Time) time.Time {
	day := now.UTC().Truncate(24 * time.Hour)
	return day.AddDate(0, 0, -RecencyWindowDays)
}

// EpochKey derives the cache epoch from the window start date. The window
// rolls forward daily; a cached feed built under an older epoch is a miss.
func EpochKey(now time.Time) string {
	return WindowStart(now).Format("2006-01-02")
}

// WindowCache holds the full assembled feed for the current recency window.
// It is an explicit injectable object, not ambient process state. The entry
// slice is never mutated in place: Put replaces the whole value, so readers
// always observe a consistent snapshot. Invalidate is a one-way flag flip
// that may race harmlessly with an in-flight read of the old snapshot.
type WindowCache struct {
	mu      sync.RWMutex
	epoch   string
	entries []domain.FeedEntry
	valid   bool
}

// NewWindowCache returns an empty, invalid cache.
func NewWindowCache() *WindowCache {
	return &WindowCache{}
}

// Get returns the cached feed for the given epoch. Any epoch mismatch or
// prior invalidation is reported as a miss.
func (c *WindowCache) Get(epoch string) ([]domain.FeedEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.valid || c.epoch != epoch {
		return nil, false
	}
	return c.entries, true
}

// Put stores a freshly assembled feed under the given epoch, replacing the
// previous entry wholesale.
func (c *WindowCache) Put(epoch string, entries []domain.FeedEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.epoch = epoch
	c.entries = entries
	c.valid = true
}

// Invalidate marks the cache stale; the next read rebuilds from the store.
// Called after every successful ingestion pass.
func (c *WindowCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.valid = false
}
