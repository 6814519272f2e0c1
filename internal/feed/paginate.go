package feed

import "DevRadar/internal/domain"

// Paginate slices a fixed ordered dataset: the page is data[offset:offset+limit]
// and hasMore is true while offset+limit is inside the dataset. An offset at
// or past the end yields an empty page with hasMore=false, not an error.
// Repeated calls against the same dataset produce stable, non-overlapping
// pages.
func Paginate(data []domain.FeedEntry, offset, limit int, source domain.PageSource) domain.FeedPage {
	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}

	page := domain.FeedPage{
		Total:  len(data),
		Source: source,
	}

	if offset >= len(data) {
		page.Entries = []domain.FeedEntry{}
		return page
	}

	end := offset + limit
	if end > len(data) {
		end = len(data)
	}

	page.Entries = data[offset:end]
	page.HasMore = offset+limit < len(data)

	return page
}
