package sources

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"DevRadar/internal/domain"
)

const defaultGitHubBaseURL = "https://github.com"

// GitHubTrendingAdapter scrapes the GitHub trending page for the configured
// languages. Trending repos carry the trending flag the assembler uses for
// the spotlight pull.
type GitHubTrendingAdapter struct {
	baseURL   string
	languages []string
	client    *http.Client
}

// NewGitHubTrending builds the adapter; an empty language entry means the
// all-languages trending page.
func NewGitHubTrending(client *http.Client, baseURL string, languages []string) *GitHubTrendingAdapter {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	if baseURL == "" {
		baseURL = defaultGitHubBaseURL
	}
	if len(languages) == 0 {
		languages = []string{""}
	}
	return &GitHubTrendingAdapter{baseURL: baseURL, languages: languages, client: client}
}

// Name identifies the adapter.
func (g *GitHubTrendingAdapter) Name() string {
	return "github-trending"
}

// Fetch scrapes one trending page per configured language.
func (g *GitHubTrendingAdapter) Fetch(ctx context.Context) ([]domain.RawItem, error) {
	items := make([]domain.RawItem, 0)
	seen := map[string]struct{}{}

	for _, lang := range g.languages {
		pageURL := g.baseURL + "/trending"
		if lang != "" {
			pageURL += "/" + lang
		}
		pageURL += "?since=daily"

		doc, err := g.fetchDocument(ctx, pageURL)
		if err != nil {
			return nil, fmt.Errorf("trending %q: %w", lang, err)
		}

		doc.Find("article.Box-row").Each(func(_ int, row *goquery.Selection) {
			item, ok := g.parseRow(row)
			if !ok {
				return
			}
			if _, dup := seen[item.Repo]; dup {
				return
			}
			seen[item.Repo] = struct{}{}
			items = append(items, item)
		})
	}

	return items, nil
}

func (g *GitHubTrendingAdapter) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "DevRadar/1.0")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	return doc, nil
}

func (g *GitHubTrendingAdapter) parseRow(row *goquery.Selection) (domain.RawItem, bool) {
	href, _ := row.Find("h2 a").First().Attr("href")
	repo := strings.Trim(strings.TrimSpace(href), "/")
	if repo == "" {
		return domain.RawItem{}, false
	}

	description := strings.TrimSpace(row.Find("p").First().Text())
	language := strings.TrimSpace(row.Find("span[itemprop=\"programmingLanguage\"]").First().Text())
	stars := parseStarCount(row.Find("a[href$=\"/stargazers\"]").First().Text())

	title := repo
	if description != "" {
		title = repo + ": " + description
	}

	return domain.RawItem{
		Title:       title,
		URL:         defaultGitHubBaseURL + "/" + repo,
		Source:      domain.SourceGitHub,
		SourceID:    repo,
		PublishedAt: time.Now().UTC(),
		Excerpt:     description,
		Domain:      "github.com",
		Repo:        repo,
		Stars:       stars,
		Score:       stars,
		Language:    language,
		Trending:    true,
	}, true
}

func parseStarCount(text string) int {
	text = strings.ReplaceAll(strings.TrimSpace(text), ",", "")
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0
	}
	return n
}
