// Package dedup groups raw items into canonical representatives using URL
// normalization, same-project heuristics and fuzzy title similarity.
package dedup

import (
	"log/slog"

	"DevRadar/internal/domain"
)

// Similarity thresholds for the fuzzy title rules. The cross-domain rule
// requires much higher confidence to avoid false positives.
const (
	sameDomainTitleThreshold  = 0.85
	crossDomainTitleThreshold = 0.95
)

// Deduplicator folds a batch of raw items into canonical items.
type Deduplicator struct {
	logger *slog.Logger
}

// New returns a Deduplicator; the logger may be nil.
func New(logger *slog.Logger) *Deduplicator {
	return &Deduplicator{logger: logger}
}

// cluster is one duplicate-equivalence class being accumulated. The slot key
// is fixed by the first item classified as canonical; later merges update the
// winning item's fields but never the key. Downstream consumers key off this
// first-seen URL.
type cluster struct {
	key        string
	item       domain.RawItem
	duplicates []domain.DuplicateRef
	merged     []domain.RawItem
}

// Deduplicate processes items single-pass, left to right: each item is
// compared against every canonical accumulated so far and merged into the
// first match, otherwise it opens a new canonical slot. O(n^2) comparisons;
// n is tens to low hundreds per pass, so this is an accepted tradeoff.
//
// The returned map is keyed by each cluster's first-seen URL and holds the
// raw items merged away into that cluster.
func (d *Deduplicator) Deduplicate(items []domain.RawItem) ([]domain.CanonicalItem, map[string][]domain.RawItem) {
	clusters := make([]*cluster, 0, len(items))

	for _, item := range items {
		matched := false
		for _, c := range clusters {
			if AreDuplicates(c.item, item) {
				d.merge(c, item)
				matched = true
				break
			}
		}
		if !matched {
			clusters = append(clusters, &cluster{key: item.URL, item: item})
		}
	}

	canonical := make([]domain.CanonicalItem, 0, len(clusters))
	dupMap := make(map[string][]domain.RawItem, len(clusters))

	for _, c := range clusters {
		canonical = append(canonical, domain.CanonicalItem{
			RawItem:    c.item,
			Duplicates: c.duplicates,
		})
		if len(c.merged) > 0 {
			dupMap[c.key] = c.merged
		}
	}

	return canonical, dupMap
}

// merge folds item into cluster c: the higher-engagement item keeps the
// canonical fields, and discussion URLs are carried over only into fields
// the winner does not already have set. A three-way group converges on the
// highest-score member regardless of arrival order.
func (d *Deduplicator) merge(c *cluster, item domain.RawItem) {
	winner, loser := c.item, item
	if item.Score > c.item.Score {
		winner, loser = item, c.item
	}

	if winner.DiscussionURL == "" && loser.DiscussionURL != "" {
		winner.DiscussionURL = loser.DiscussionURL
	}
	if winner.RedditURL == "" && loser.RedditURL != "" {
		winner.RedditURL = loser.RedditURL
	}

	c.item = winner
	c.merged = append(c.merged, loser)
	c.duplicates = append(c.duplicates, domain.DuplicateRef{
		Title:  loser.Title,
		URL:    loser.URL,
		Source: loser.Source,
	})

	if d.logger != nil {
		d.logger.Debug("merged duplicate",
			"canonical", c.key,
			"duplicate", loser.URL,
			"score", winner.Score)
	}
}

// AreDuplicates reports whether two items describe the same event. Rules are
// evaluated in order, short-circuiting; the predicate is symmetric.
func AreDuplicates(a, b domain.RawItem) bool {
	// Rule 1: URL equality after normalization.
	if NormalizeURL(a.URL) == NormalizeURL(b.URL) {
		return true
	}

	// Rule 2: same project, both URLs are release pages.
	if a.Repo != "" && a.Repo == b.Repo && isReleasePage(a.URL) && isReleasePage(b.URL) {
		return true
	}

	// Rule 3: same registrable domain, near-identical titles.
	da := RegistrableDomain(a.URL)
	db := RegistrableDomain(b.URL)
	if da != "" && da == db && Similarity(a.Title, b.Title) >= sameDomainTitleThreshold {
		return true
	}

	// Rule 4: cross-posted content, very high title confidence.
	return Similarity(a.Title, b.Title) >= crossDomainTitleThreshold
}
