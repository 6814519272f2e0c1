package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"DevRadar/internal/config"
	"DevRadar/internal/domain"
)

func newTestClassifier(serverURL string, client *http.Client) *ChatClassifier {
	return NewChatClassifier(config.LLMConfig{
		Endpoint: serverURL,
		Model:    "test-model",
		APIKey:   "test-key",
	}).WithHTTPClient(client)
}

func completion(content string) string {
	raw, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"content": content}},
		},
	})
	return string(raw)
}

func TestClassify(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected authorization header: %q", got)
		}

		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" {
			t.Errorf("unexpected messages: %+v", req.Messages)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completion(`{
			"score": 96,
			"category": "breaking-change",
			"languages": ["python"],
			"frameworks": ["pytorch"],
			"topics": ["inference"],
			"affects_production": true,
			"reasoning": "major framework release with breaking API changes",
			"tags": ["pytorch", "release"]
		}`)))
	}))
	defer server.Close()

	c := newTestClassifier(server.URL, server.Client())

	item := domain.CanonicalItem{
		RawItem: domain.RawItem{
			Title:   "PyTorch 3.0 released with breaking changes",
			URL:     "https://pytorch.org/blog/3.0",
			Excerpt: "New compiler stack for LLM inference.",
		},
	}

	result, err := c.Classify(context.Background(), item)
	if err != nil {
		t.Fatalf("Classify error: %v", err)
	}

	if result.Score != 96 {
		t.Fatalf("score = %d, want 96", result.Score)
	}
	if result.Label != domain.LabelBreaking {
		t.Fatalf("label = %s, want breaking", result.Label)
	}
	if result.Category != domain.CategoryBreakingChange {
		t.Fatalf("category = %s, want breaking-change", result.Category)
	}
	if !result.AffectsProduction {
		t.Fatal("affects_production lost")
	}

	// Keyword tags from the title and excerpt join the model's topics.
	wantTopics := map[string]bool{}
	for _, topic := range result.Topics {
		wantTopics[topic] = true
	}
	if !wantTopics["inference"] || !wantTopics["pytorch"] || !wantTopics["llm"] {
		t.Fatalf("topics missing keyword merge: %v", result.Topics)
	}
}

func TestClassifyUnknownCategoryCollapses(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(completion(`{"score": 60, "category": "Something Odd"}`)))
	}))
	defer server.Close()

	c := newTestClassifier(server.URL, server.Client())

	result, err := c.Classify(context.Background(), domain.CanonicalItem{})
	if err != nil {
		t.Fatalf("Classify error: %v", err)
	}
	if result.Category != domain.CategoryIndustryNews {
		t.Fatalf("category = %s, want industry-news fallback", result.Category)
	}
}

func TestClassifyMalformedVerdict(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(completion(`not json at all`)))
	}))
	defer server.Close()

	c := newTestClassifier(server.URL, server.Client())

	if _, err := c.Classify(context.Background(), domain.CanonicalItem{}); err == nil {
		t.Fatal("expected parse error for malformed verdict")
	}
}

func TestClassifyHTTPError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	c := newTestClassifier(server.URL, server.Client())

	if _, err := c.Classify(context.Background(), domain.CanonicalItem{}); err == nil {
		t.Fatal("expected error for HTTP failure")
	}
}

func TestClassifyMisconfigured(t *testing.T) {
	t.Parallel()

	c := NewChatClassifier(config.LLMConfig{})
	if _, err := c.Classify(context.Background(), domain.CanonicalItem{}); err == nil {
		t.Fatal("expected misconfiguration error")
	}
}
