package feed

import (
	"fmt"
	"testing"

	"DevRadar/internal/domain"
)

func entry(url string, score int, category domain.Category, trending bool) domain.FeedEntry {
	return domain.FeedEntry{
		Item: domain.CanonicalItem{
			RawItem: domain.RawItem{URL: url, Trending: trending},
		},
		Classification: domain.ClassificationResult{
			Score:    score,
			Label:    domain.LabelForScore(score),
			Category: category,
		},
	}
}

func TestAssembleOrder(t *testing.T) {
	t.Parallel()

	// One critical, two major (one launch-like), one notable, one trending
	// major item: critical first, then major launch, major other, notable,
	// then the trending pull.
	entries := []domain.FeedEntry{
		entry("https://a.com/notable", 60, domain.CategoryResearch, false),
		entry("https://a.com/major-launch", 80, domain.CategoryProductLaunch, false),
		entry("https://a.com/critical", 97, domain.CategoryBreakingChange, false),
		entry("https://a.com/major-other", 80, domain.CategoryIndustryNews, false),
		entry("https://a.com/trending", 85, domain.CategoryIndustryNews, true),
	}

	ordered := Assemble(entries)

	want := []string{
		"https://a.com/critical",
		"https://a.com/major-launch",
		"https://a.com/major-other",
		"https://a.com/trending", // placed in the major/other bucket, trending flag set
		"https://a.com/notable",
	}

	if len(ordered) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(ordered))
	}
	for i, url := range want {
		if ordered[i].Item.URL != url {
			t.Fatalf("position %d: got %q, want %q", i, ordered[i].Item.URL, url)
		}
	}
}

func TestAssembleTrendingNotPlacedTwice(t *testing.T) {
	t.Parallel()

	entries := []domain.FeedEntry{
		entry("https://a.com/trending-major", 85, domain.CategoryIndustryNews, true),
		entry("https://a.com/trending-only", 45, domain.CategoryTrendingRepo, true),
	}

	ordered := Assemble(entries)

	urls := make(map[string]int)
	for _, e := range ordered {
		urls[e.Item.URL]++
	}
	for url, n := range urls {
		if n != 1 {
			t.Fatalf("item %s placed %d times", url, n)
		}
	}
	if len(ordered) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(ordered))
	}
}

func TestAssembleBucketExclusivity(t *testing.T) {
	t.Parallel()

	var entries []domain.FeedEntry
	for i := 0; i < 60; i++ {
		score := 40 + (i*7)%61 // spread across all buckets
		entries = append(entries, entry(
			fmt.Sprintf("https://x.com/%d", i),
			score,
			domain.CategoryIndustryNews,
			i%5 == 0,
		))
	}

	ordered := Assemble(entries)

	seen := make(map[string]bool, len(ordered))
	for _, e := range ordered {
		if seen[e.Item.URL] {
			t.Fatalf("item %s appears twice in assembled feed", e.Item.URL)
		}
		seen[e.Item.URL] = true
	}
	if len(seen) != len(ordered) {
		t.Fatalf("URL set cardinality %d != entry count %d", len(seen), len(ordered))
	}
	if len(ordered) != len(entries) {
		t.Fatalf("expected all %d entries placed once, got %d", len(entries), len(ordered))
	}
}

func TestAssembleDropsNoise(t *testing.T) {
	t.Parallel()

	entries := []domain.FeedEntry{
		entry("https://a.com/noise", 39, domain.CategoryCommunity, false),
		entry("https://a.com/info", 40, domain.CategoryCommunity, false),
	}

	ordered := Assemble(entries)
	if len(ordered) != 1 || ordered[0].Item.URL != "https://a.com/info" {
		t.Fatalf("noise filtering wrong: %+v", ordered)
	}
}

func TestSectionLabels(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		e    domain.FeedEntry
		want domain.Section
	}{
		{"critical wins over trending", entry("u1", 97, domain.CategoryBreakingChange, true), domain.SectionCritical},
		{"critical plain", entry("u2", 95, domain.CategoryResearch, false), domain.SectionCritical},
		{"spotlight for sub-critical trending", entry("u3", 85, domain.CategoryTrendingRepo, true), domain.SectionSpotlight},
		{"noteworthy otherwise", entry("u4", 60, domain.CategoryResearch, false), domain.SectionNoteworthy},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := sectionFor(tc.e); got != tc.want {
				t.Fatalf("sectionFor = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestDistribution(t *testing.T) {
	t.Parallel()

	entries := []domain.FeedEntry{
		entry("u1", 97, domain.CategoryResearch, false),
		entry("u2", 80, domain.CategoryResearch, false),
		entry("u3", 80, domain.CategoryResearch, false),
		entry("u4", 60, domain.CategoryResearch, false),
		entry("u5", 45, domain.CategoryResearch, false),
	}

	counts := Distribution(entries)
	if counts[domain.LabelBreaking] != 1 || counts[domain.LabelMajor] != 2 ||
		counts[domain.LabelNotable] != 1 || counts[domain.LabelInfo] != 1 {
		t.Fatalf("unexpected distribution: %v", counts)
	}
}
