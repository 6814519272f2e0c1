package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGitHubTrendingFetch(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("since") != "daily" {
			t.Errorf("expected since=daily, got %q", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`
		<html><body>
		<article class="Box-row">
		  <h2><a href="/ggerganov/llama.cpp">llama.cpp</a></h2>
		  <p>LLM inference in C/C++</p>
		  <span itemprop="programmingLanguage">C++</span>
		  <a href="/ggerganov/llama.cpp/stargazers">68,123</a>
		</article>
		<article class="Box-row">
		  <h2><a href="/pytorch/pytorch">pytorch</a></h2>
		  <p></p>
		  <span itemprop="programmingLanguage">Python</span>
		  <a href="/pytorch/pytorch/stargazers">82,400</a>
		</article>
		<article class="Box-row">
		  <h2><a href="">broken</a></h2>
		</article>
		</body></html>`))
	}))
	defer server.Close()

	g := NewGitHubTrending(server.Client(), server.URL, nil)

	items, err := g.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items (row without href dropped), got %d", len(items))
	}

	first := items[0]
	if first.Repo != "ggerganov/llama.cpp" {
		t.Fatalf("unexpected repo: %s", first.Repo)
	}
	if first.URL != "https://github.com/ggerganov/llama.cpp" {
		t.Fatalf("unexpected url: %s", first.URL)
	}
	if !first.Trending {
		t.Fatal("trending flag must be set")
	}
	if first.Stars != 68123 || first.Score != 68123 {
		t.Fatalf("stars = %d, want 68123", first.Stars)
	}
	if first.Language != "C++" {
		t.Fatalf("unexpected language: %s", first.Language)
	}
	if first.Title != "ggerganov/llama.cpp: LLM inference in C/C++" {
		t.Fatalf("unexpected title: %s", first.Title)
	}

	// Empty description keeps the bare repo name as title.
	if items[1].Title != "pytorch/pytorch" {
		t.Fatalf("unexpected title for bare repo: %s", items[1].Title)
	}
}

func TestParseStarCount(t *testing.T) {
	t.Parallel()

	cases := []struct {
		text string
		want int
	}{
		{"68,123", 68123},
		{" 1,024 ", 1024},
		{"7", 7},
		{"", 0},
		{"n/a", 0},
	}

	for _, tc := range cases {
		if got := parseStarCount(tc.text); got != tc.want {
			t.Fatalf("parseStarCount(%q) = %d, want %d", tc.text, got, tc.want)
		}
	}
}
