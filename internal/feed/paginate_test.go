package feed

import (
	"fmt"
	"testing"

	"DevRadar/internal/domain"
)

func dataset(n int) []domain.FeedEntry {
	data := make([]domain.FeedEntry, n)
	for i := range data {
		data[i] = entry(fmt.Sprintf("https://x.com/%d", i), 50, domain.CategoryIndustryNews, false)
	}
	return data
}

func TestPaginateSlice(t *testing.T) {
	t.Parallel()

	data := dataset(25)

	// offset 20, limit 10 over 25 items: 5 items, no more.
	page := Paginate(data, 20, 10, domain.PageSourceCache)
	if len(page.Entries) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(page.Entries))
	}
	if page.HasMore {
		t.Fatal("expected hasMore=false at the tail")
	}
	if page.Total != 25 {
		t.Fatalf("total = %d, want 25", page.Total)
	}
	if page.Source != domain.PageSourceCache {
		t.Fatalf("source = %q, want cache", page.Source)
	}
}

func TestPaginateOffsetPastEnd(t *testing.T) {
	t.Parallel()

	data := dataset(3)
	page := Paginate(data, 10, 5, domain.PageSourceStore)

	if len(page.Entries) != 0 {
		t.Fatalf("expected empty page, got %d entries", len(page.Entries))
	}
	if page.HasMore {
		t.Fatal("expected hasMore=false past the end")
	}
}

func TestPaginateEmptyDataset(t *testing.T) {
	t.Parallel()

	page := Paginate(nil, 0, 10, domain.PageSourceCache)
	if len(page.Entries) != 0 || page.HasMore || page.Total != 0 {
		t.Fatalf("unexpected page for empty dataset: %+v", page)
	}
}

func TestPaginateCoverage(t *testing.T) {
	t.Parallel()

	// Concatenating all pages from offset 0 stepping by limit until hasMore
	// is false reconstructs the dataset exactly once, for a spread of
	// dataset lengths and limits.
	lengths := []int{0, 1, 9, 10, 11, 49, 50, 51, 137, 500}
	limits := []int{1, 10, 50}

	for _, n := range lengths {
		for _, limit := range limits {
			data := dataset(n)

			var collected []domain.FeedEntry
			offset := 0
			for {
				page := Paginate(data, offset, limit, domain.PageSourceCache)
				collected = append(collected, page.Entries...)
				if !page.HasMore {
					break
				}
				offset += limit
			}

			if len(collected) != n {
				t.Fatalf("n=%d limit=%d: collected %d entries", n, limit, len(collected))
			}
			for i := range collected {
				if collected[i].Item.URL != data[i].Item.URL {
					t.Fatalf("n=%d limit=%d: position %d mismatch", n, limit, i)
				}
			}
		}
	}
}
