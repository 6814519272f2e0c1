package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"DevRadar/internal/domain"
	"DevRadar/internal/feed"
	"DevRadar/internal/usecase"
)

// feedReader is the slice of the feed service the handler needs.
type feedReader interface {
	Read(ctx context.Context, req usecase.FeedRequest) (usecase.FeedResponse, error)
}

// FeedHandler serves the paginated feed API.
type FeedHandler struct {
	feeds feedReader
}

// NewFeedHandler wires the feed read use case.
func NewFeedHandler(feeds feedReader) *FeedHandler {
	return &FeedHandler{feeds: feeds}
}

type feedItemDTO struct {
	Title         string    `json:"title"`
	URL           string    `json:"url"`
	Source        string    `json:"source"`
	PublishedAt   time.Time `json:"publishedAt"`
	Excerpt       string    `json:"excerpt,omitempty"`
	Domain        string    `json:"domain,omitempty"`
	Repo          string    `json:"repo,omitempty"`
	Stars         int       `json:"stars,omitempty"`
	Trending      bool      `json:"trending,omitempty"`
	DiscussionURL string    `json:"discussionUrl,omitempty"`

	Score    int      `json:"score"`
	Label    string   `json:"label"`
	Category string   `json:"category"`
	Section  string   `json:"section"`
	Topics   []string `json:"topics,omitempty"`
	Tags     []string `json:"tags,omitempty"`

	DuplicateCount int `json:"duplicateCount,omitempty"`
}

type feedPageDTO struct {
	Entries      []feedItemDTO  `json:"entries"`
	Total        int            `json:"total"`
	HasMore      bool           `json:"hasMore"`
	PageSource   string         `json:"pageSource"`
	Tier         string         `json:"tier"`
	NextTier     string         `json:"nextTier"`
	Distribution map[string]int `json:"distribution"`
	ThroughDate  *time.Time     `json:"throughDate,omitempty"`
}

// GetFeed handles GET /api/feed?tier=&offset=&limit=.
func (h *FeedHandler) GetFeed(c *gin.Context) {
	tier, ok := parseTier(c.DefaultQuery("tier", string(feed.TierRecent)))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tier must be recent or historical"})
		return
	}

	offset, err := parseNonNegative(c.DefaultQuery("offset", "0"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "offset must be a non-negative integer"})
		return
	}

	limit, err := parseNonNegative(c.DefaultQuery("limit", "0"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
		return
	}

	resp, err := h.feeds.Read(c.Request.Context(), usecase.FeedRequest{
		Tier:   tier,
		Offset: offset,
		Limit:  limit,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "feed unavailable"})
		return
	}

	c.JSON(http.StatusOK, toPageDTO(tier, resp))
}

func parseTier(raw string) (feed.Tier, bool) {
	switch feed.Tier(raw) {
	case feed.TierRecent, feed.TierHistorical:
		return feed.Tier(raw), true
	default:
		return "", false
	}
}

func parseNonNegative(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, strconv.ErrRange
	}
	return n, nil
}

func toPageDTO(tier feed.Tier, resp usecase.FeedResponse) feedPageDTO {
	entries := make([]feedItemDTO, 0, len(resp.Page.Entries))
	for _, e := range resp.Page.Entries {
		entries = append(entries, toItemDTO(e))
	}

	distribution := make(map[string]int, len(resp.Distribution))
	for label, count := range resp.Distribution {
		distribution[string(label)] = count
	}

	dto := feedPageDTO{
		Entries:      entries,
		Total:        resp.Page.Total,
		HasMore:      resp.Page.HasMore,
		PageSource:   string(resp.Page.Source),
		Tier:         string(tier),
		NextTier:     string(resp.NextTier),
		Distribution: distribution,
	}
	if !resp.ThroughDate.IsZero() {
		through := resp.ThroughDate
		dto.ThroughDate = &through
	}

	return dto
}

func toItemDTO(e domain.FeedEntry) feedItemDTO {
	return feedItemDTO{
		Title:          e.Item.Title,
		URL:            e.Item.URL,
		Source:         string(e.Item.Source),
		PublishedAt:    e.Item.PublishedAt,
		Excerpt:        e.Item.Excerpt,
		Domain:         e.Item.Domain,
		Repo:           e.Item.Repo,
		Stars:          e.Item.Stars,
		Trending:       e.Item.Trending,
		DiscussionURL:  e.Item.DiscussionURL,
		Score:          e.Classification.Score,
		Label:          string(e.Classification.Label),
		Category:       string(e.Classification.Category),
		Section:        string(e.Section),
		Topics:         e.Classification.Topics,
		Tags:           e.Classification.Tags,
		DuplicateCount: len(e.Item.Duplicates),
	}
}
