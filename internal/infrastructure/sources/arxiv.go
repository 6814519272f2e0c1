package sources

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"DevRadar/internal/domain"
)

const arxivBaseURL = "https://arxiv.org"

var arxivDateExpr = regexp.MustCompile(`\d{1,2} [A-Za-z]{3} \d{4}`)

// ArxivAdapter crawls arXiv category listing pages and extracts papers
// published within the lookback window.
type ArxivAdapter struct {
	client      *http.Client
	listingURLs []string
	lookback    time.Duration
}

// NewArxiv wires an HTTP client over the configured category listing URLs;
// a nil client gets a sane default.
func NewArxiv(client *http.Client, listingURLs []string, lookback time.Duration) *ArxivAdapter {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	if lookback <= 0 {
		lookback = 3 * 24 * time.Hour
	}
	return &ArxivAdapter{client: client, listingURLs: listingURLs, lookback: lookback}
}

// Name identifies the adapter.
func (a *ArxivAdapter) Name() string {
	return "arxiv"
}

// Fetch walks each listing page and returns papers newer than the lookback
// cutoff. Failure of any page fails the whole fetch with an empty result;
// the pipeline's fan-out barrier degrades it to zero items.
func (a *ArxivAdapter) Fetch(ctx context.Context) ([]domain.RawItem, error) {
	cutoff := time.Now().UTC().Add(-a.lookback)

	items := make([]domain.RawItem, 0)
	seen := map[string]struct{}{}

	for _, listing := range a.listingURLs {
		doc, err := a.fetchDocument(ctx, listing)
		if err != nil {
			return nil, fmt.Errorf("listing %s: %w", listing, err)
		}

		doc.Find("dl > dt").Each(func(_ int, dt *goquery.Selection) {
			item, ok := parseArxivEntry(dt, dt.Next())
			if !ok {
				return
			}
			if item.PublishedAt.Before(cutoff) {
				return
			}
			if _, dup := seen[item.SourceID]; dup {
				return
			}
			seen[item.SourceID] = struct{}{}
			items = append(items, item)
		})
	}

	return items, nil
}

func (a *ArxivAdapter) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "DevRadar/1.0")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arxiv returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	return doc, nil
}

func parseArxivEntry(dt, dd *goquery.Selection) (domain.RawItem, bool) {
	link := dt.Find("a[href*=\"/abs/\"]").First()

	id := strings.TrimSpace(link.Text())
	href, _ := link.Attr("href")
	if id == "" {
		id = strings.TrimPrefix(href, "/abs/")
	}
	if id == "" {
		return domain.RawItem{}, false
	}
	if !strings.HasPrefix(href, "http") {
		href = arxivBaseURL + href
	}

	title := strings.TrimSpace(dd.Find(".list-title").First().Text())
	title = strings.TrimSpace(strings.TrimPrefix(title, "Title:"))

	abstract := dd.Find(".mathjax").First().Text()
	abstract = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(abstract), "Abstract:"))

	dateText := strings.TrimSpace(dd.Find(".list-date").First().Text())
	if dateText == "" {
		dateText = strings.TrimSpace(dd.Find(".list-dateline").First().Text())
	}

	publishedAt := time.Now().UTC()
	if match := arxivDateExpr.FindString(dateText); match != "" {
		if parsed, err := time.Parse("2 Jan 2006", match); err == nil {
			publishedAt = parsed
		}
	}

	return domain.RawItem{
		Title:       title,
		URL:         href,
		Source:      domain.SourceArxiv,
		SourceID:    id,
		PublishedAt: publishedAt,
		Excerpt:     abstract,
		Domain:      "arxiv.org",
	}, true
}
