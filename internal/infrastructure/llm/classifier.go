package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"DevRadar/internal/config"
	"DevRadar/internal/domain"
	"DevRadar/internal/enrich"
	"DevRadar/internal/ports"
)

// ChatClassifier implements ports.Classifier backed by OpenAI-compatible
// chat completion APIs. One request classifies one item; batching and
// pacing live in the classify package.
type ChatClassifier struct {
	endpoint     string
	model        string
	apiKey       string
	systemPrompt string
	httpClient   *http.Client
}

var _ ports.Classifier = (*ChatClassifier)(nil)

// NewChatClassifier builds a classifier from configuration.
func NewChatClassifier(cfg config.LLMConfig) *ChatClassifier {
	return &ChatClassifier{
		endpoint:     cfg.Endpoint,
		model:        cfg.Model,
		apiKey:       cfg.APIKey,
		systemPrompt: cfg.SystemPrompt,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// WithHTTPClient swaps the HTTP client, primarily for tests.
func (c *ChatClassifier) WithHTTPClient(client *http.Client) *ChatClassifier {
	c.httpClient = client
	return c
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// classificationPayload is the strict-JSON contract the model must return.
type classificationPayload struct {
	Score             int      `json:"score"`
	Category          string   `json:"category"`
	Languages         []string `json:"languages"`
	Frameworks        []string `json:"frameworks"`
	Topics            []string `json:"topics"`
	AffectsProduction bool     `json:"affects_production"`
	Reasoning         string   `json:"reasoning"`
	Tags              []string `json:"tags"`
}

// Classify sends one canonical item to the model and decodes its verdict.
// Errors are per-item soft failures: the caller omits the item rather than
// aborting the batch.
func (c *ChatClassifier) Classify(ctx context.Context, item domain.CanonicalItem) (domain.ClassificationResult, error) {
	if c == nil {
		return domain.ClassificationResult{}, fmt.Errorf("chat classifier is nil")
	}
	if c.apiKey == "" || c.endpoint == "" || c.model == "" {
		return domain.ClassificationResult{}, fmt.Errorf("chat classifier misconfigured")
	}

	userPayload, err := json.Marshal(map[string]any{
		"title":    item.Title,
		"url":      item.URL,
		"source":   item.Source,
		"excerpt":  item.Excerpt,
		"points":   item.Score,
		"comments": item.CommentCount,
		"repo":     item.Repo,
		"stars":    item.Stars,
		"trending": item.Trending,
	})
	if err != nil {
		return domain.ClassificationResult{}, fmt.Errorf("marshal item payload: %w", err)
	}

	body, err := json.Marshal(map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "system", "content": safePrompt(c.systemPrompt)},
			{"role": "user", "content": string(userPayload)},
		},
		"response_format": map[string]string{"type": "json_object"},
	})
	if err != nil {
		return domain.ClassificationResult{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.ClassificationResult{}, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.ClassificationResult{}, fmt.Errorf("classify request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return domain.ClassificationResult{}, fmt.Errorf("classifier error %s: %s",
			resp.Status, strings.TrimSpace(string(detail)))
	}

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return domain.ClassificationResult{}, fmt.Errorf("decode response: %w", err)
	}
	if len(chat.Choices) == 0 {
		return domain.ClassificationResult{}, fmt.Errorf("empty completion")
	}

	var verdict classificationPayload
	if err := json.Unmarshal([]byte(chat.Choices[0].Message.Content), &verdict); err != nil {
		return domain.ClassificationResult{}, fmt.Errorf("parse verdict: %w", err)
	}

	result := domain.ClassificationResult{
		Score:             verdict.Score,
		Label:             domain.LabelForScore(verdict.Score),
		Category:          normalizeCategory(verdict.Category),
		Languages:         verdict.Languages,
		Frameworks:        verdict.Frameworks,
		Topics:            mergeTopics(verdict.Topics, enrich.Tags(item.Title, item.Excerpt)),
		AffectsProduction: verdict.AffectsProduction,
		Reasoning:         verdict.Reasoning,
		Tags:              verdict.Tags,
	}

	return result, nil
}

var knownCategories = map[domain.Category]bool{
	domain.CategoryBreakingChange:   true,
	domain.CategoryNewLibrary:       true,
	domain.CategorySDKUpdate:        true,
	domain.CategoryProductLaunch:    true,
	domain.CategoryTrendingRepo:     true,
	domain.CategoryIndustryNews:     true,
	domain.CategoryDeveloperTool:    true,
	domain.CategoryPerformance:      true,
	domain.CategoryKnownIssue:       true,
	domain.CategoryCaseStudy:        true,
	domain.CategoryResearch:         true,
	domain.CategoryCommunity:        true,
	domain.CategorySecurityAdvisory: true,
}

// normalizeCategory maps model output onto the closed category set. Anything
// outside it collapses to industry-news rather than leaking free-form text
// into the feed.
func normalizeCategory(raw string) domain.Category {
	c := domain.Category(strings.ToLower(strings.TrimSpace(raw)))
	if knownCategories[c] {
		return c
	}
	return domain.CategoryIndustryNews
}

// mergeTopics unions the model's topics with keyword-derived tags,
// preserving the model's ordering first.
func mergeTopics(modelTopics, keywordTags []string) []string {
	seen := make(map[string]bool, len(modelTopics)+len(keywordTags))
	merged := make([]string, 0, len(modelTopics)+len(keywordTags))
	for _, t := range modelTopics {
		t = strings.TrimSpace(strings.ToLower(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		merged = append(merged, t)
	}
	for _, t := range keywordTags {
		if seen[t] {
			continue
		}
		seen[t] = true
		merged = append(merged, t)
	}
	return merged
}

func safePrompt(prompt string) string {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "You score AI/ML developer news for relevance and return strict JSON."
	}
	return prompt
}
