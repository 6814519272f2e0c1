package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"DevRadar/internal/domain"
)

func TestHackerNewsFetch(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("tags"); got != "story" {
			t.Errorf("expected tags=story, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"hits": [
				{
					"title": "PyTorch 2.5 released",
					"url": "https://pytorch.org/blog/2.5",
					"author": "swyx",
					"points": 412,
					"num_comments": 187,
					"objectID": "41234567",
					"created_at": "2025-03-09T10:00:00Z"
				},
				{
					"title": "Ask HN: best local LLM setup?",
					"url": "",
					"author": "tptacek",
					"points": 95,
					"num_comments": 60,
					"objectID": "41234568",
					"created_at": "2025-03-09T11:00:00Z"
				},
				{
					"title": "",
					"objectID": "41234569"
				}
			]
		}`))
	}))
	defer server.Close()

	h := NewHackerNews(server.Client(), server.URL, "llm", 50, 30)

	items, err := h.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items (untitled hit dropped), got %d", len(items))
	}

	first := items[0]
	if first.Source != domain.SourceHackerNews {
		t.Fatalf("unexpected source: %s", first.Source)
	}
	if first.Score != 412 || first.CommentCount != 187 {
		t.Fatalf("engagement = %d/%d, want 412/187", first.Score, first.CommentCount)
	}
	if first.DiscussionURL != "https://news.ycombinator.com/item?id=41234567" {
		t.Fatalf("unexpected discussion url: %s", first.DiscussionURL)
	}
	if first.Domain != "pytorch.org" {
		t.Fatalf("unexpected domain: %s", first.Domain)
	}

	// Link-less submissions fall back to the discussion URL.
	if items[1].URL != "https://news.ycombinator.com/item?id=41234568" {
		t.Fatalf("unexpected fallback url: %s", items[1].URL)
	}
}

func TestHackerNewsFetchBadJSON(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	}))
	defer server.Close()

	h := NewHackerNews(server.Client(), server.URL, "ai", 0, 10)

	if _, err := h.Fetch(context.Background()); err == nil {
		t.Fatal("expected decode error")
	}
}
