package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"DevRadar/internal/dedup"
	"DevRadar/internal/domain"
)

const (
	defaultHNBaseURL = "https://hn.algolia.com/api/v1/search"
	hnItemURLFormat  = "https://news.ycombinator.com/item?id=%s"
)

// HackerNewsAdapter queries the Algolia search API for front-page AI/ML
// stories.
type HackerNewsAdapter struct {
	baseURL  string
	query    string
	minScore int
	maxItems int
	client   *http.Client
}

// NewHackerNews builds the adapter; baseURL is overridable for tests.
func NewHackerNews(client *http.Client, baseURL, query string, minScore, maxItems int) *HackerNewsAdapter {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	if baseURL == "" {
		baseURL = defaultHNBaseURL
	}
	if maxItems <= 0 {
		maxItems = 50
	}
	return &HackerNewsAdapter{
		baseURL:  baseURL,
		query:    query,
		minScore: minScore,
		maxItems: maxItems,
		client:   client,
	}
}

// Name identifies the adapter.
func (h *HackerNewsAdapter) Name() string {
	return "hackernews"
}

type hnResponse struct {
	Hits []struct {
		Title       string    `json:"title"`
		URL         string    `json:"url"`
		Author      string    `json:"author"`
		Points      int       `json:"points"`
		NumComments int       `json:"num_comments"`
		ObjectID    string    `json:"objectID"`
		CreatedAt   time.Time `json:"created_at"`
	} `json:"hits"`
}

// Fetch returns stories matching the configured query above the score
// floor. Link-less submissions (Ask HN) fall back to the discussion URL.
func (h *HackerNewsAdapter) Fetch(ctx context.Context) ([]domain.RawItem, error) {
	params := url.Values{}
	params.Set("query", h.query)
	params.Set("tags", "story")
	params.Set("hitsPerPage", strconv.Itoa(h.maxItems))
	if h.minScore > 0 {
		params.Set("numericFilters", "points>="+strconv.Itoa(h.minScore))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request stories: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("hackernews returned %s", resp.Status)
	}

	var decoded hnResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	items := make([]domain.RawItem, 0, len(decoded.Hits))
	for _, hit := range decoded.Hits {
		if hit.Title == "" {
			continue
		}

		discussion := fmt.Sprintf(hnItemURLFormat, hit.ObjectID)
		link := hit.URL
		if link == "" {
			link = discussion
		}

		items = append(items, domain.RawItem{
			Title:         hit.Title,
			URL:           link,
			Source:        domain.SourceHackerNews,
			SourceID:      hit.ObjectID,
			PublishedAt:   hit.CreatedAt,
			Author:        hit.Author,
			Domain:        dedup.RegistrableDomain(link),
			Score:         hit.Points,
			CommentCount:  hit.NumComments,
			DiscussionURL: discussion,
		})
	}

	return items, nil
}
