// Package feed builds the diversity-balanced ordered feed and serves it
// through offset/limit pagination over two data tiers.
package feed

import "DevRadar/internal/domain"

// launchCategories are interleaved ahead of generic major items so launches
// stay visible among generic major news.
var launchCategories = map[domain.Category]bool{
	domain.CategoryProductLaunch: true,
	domain.CategoryTrendingRepo:  true,
	domain.CategoryDeveloperTool: true,
	domain.CategoryNewLibrary:    true,
}

// Assemble buckets classified entries by importance and returns the full
// ordered dataset for the recency window. Placement order: critical, then
// major launch-like, major other, notable, trending, info. A running
// placed-URL set guarantees no item appears twice. Truncation is left to
// Paginate so repeated page reads slice the same ordered data.
func Assemble(entries []domain.FeedEntry) []domain.FeedEntry {
	var critical, majorLaunch, majorOther, notable, info, trending []domain.FeedEntry

	for _, e := range entries {
		score := e.Classification.Score
		if score < domain.MinFeedScore {
			continue
		}

		// Trending items are pulled independently of their score bucket.
		if e.Item.Trending {
			trending = append(trending, e)
		}

		switch {
		case score >= domain.BreakingThreshold:
			critical = append(critical, e)
		case score >= domain.MajorThreshold:
			if launchCategories[e.Classification.Category] {
				majorLaunch = append(majorLaunch, e)
			} else {
				majorOther = append(majorOther, e)
			}
		case score >= domain.NotableThreshold:
			notable = append(notable, e)
		default:
			info = append(info, e)
		}
	}

	ordered := make([]domain.FeedEntry, 0, len(entries))
	placed := make(map[string]bool, len(entries))

	place := func(bucket []domain.FeedEntry) {
		for _, e := range bucket {
			if placed[e.Item.URL] {
				continue
			}
			placed[e.Item.URL] = true
			e.Section = sectionFor(e)
			ordered = append(ordered, e)
		}
	}

	place(critical)
	place(majorLaunch)
	place(majorOther)
	place(notable)
	place(trending)
	place(info)

	return ordered
}

// sectionFor labels an entry for display grouping. A trending item that also
// scores critical displays as critical; spotlight is reserved for trending
// items below that bar.
func sectionFor(e domain.FeedEntry) domain.Section {
	if e.Classification.Score >= domain.BreakingThreshold {
		return domain.SectionCritical
	}
	if e.Item.Trending {
		return domain.SectionSpotlight
	}
	return domain.SectionNoteworthy
}

// Distribution counts entries per importance tier for observability.
func Distribution(entries []domain.FeedEntry) map[domain.Label]int {
	counts := make(map[domain.Label]int, 5)
	for _, e := range entries {
		counts[domain.LabelForScore(e.Classification.Score)]++
	}
	return counts
}
