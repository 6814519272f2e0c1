package classify

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"DevRadar/internal/domain"
)

type stubClassifier struct {
	calls   atomic.Int64
	failURL string
	score   int
}

func (s *stubClassifier) Classify(_ context.Context, item domain.CanonicalItem) (domain.ClassificationResult, error) {
	s.calls.Add(1)
	if item.URL == s.failURL {
		return domain.ClassificationResult{}, errors.New("model overloaded")
	}
	return domain.ClassificationResult{Score: s.score, Category: domain.CategoryIndustryNews}, nil
}

func TestLabelForScoreThresholds(t *testing.T) {
	t.Parallel()

	cases := []struct {
		score int
		want  domain.Label
	}{
		{100, domain.LabelBreaking},
		{95, domain.LabelBreaking},
		{94, domain.LabelMajor},
		{75, domain.LabelMajor},
		{74, domain.LabelNotable},
		{55, domain.LabelNotable},
		{54, domain.LabelInfo},
		{40, domain.LabelInfo},
		{39, domain.LabelNoise},
		{0, domain.LabelNoise},
	}

	for _, tc := range cases {
		if got := domain.LabelForScore(tc.score); got != tc.want {
			t.Fatalf("LabelForScore(%d) = %q, want %q", tc.score, got, tc.want)
		}
	}
}

func TestLabelMonotonicity(t *testing.T) {
	t.Parallel()

	// A higher score may never map to a lower severity tier.
	for s1 := 0; s1 <= 100; s1++ {
		for s2 := s1 + 1; s2 <= 100; s2++ {
			if domain.LabelForScore(s1).Severity() < domain.LabelForScore(s2).Severity() {
				t.Fatalf("label(%d) outranks label(%d)", s1, s2)
			}
		}
	}
}

func TestClassifyAllPartialFailure(t *testing.T) {
	t.Parallel()

	stub := &stubClassifier{failURL: "https://bad.example.com/x", score: 80}
	b := NewBatcher(stub, 2, time.Millisecond, nil)

	items := make([]domain.CanonicalItem, 0, 5)
	for i := 0; i < 4; i++ {
		items = append(items, domain.CanonicalItem{
			RawItem: domain.RawItem{URL: fmt.Sprintf("https://ok.example.com/%d", i)},
		})
	}
	items = append(items, domain.CanonicalItem{
		RawItem: domain.RawItem{URL: "https://bad.example.com/x"},
	})

	results := b.ClassifyAll(context.Background(), items)

	if len(results) != 4 {
		t.Fatalf("expected 4 results (one omitted), got %d", len(results))
	}
	if _, ok := results["https://bad.example.com/x"]; ok {
		t.Fatal("failed item must be omitted from the result map")
	}
	if got := stub.calls.Load(); got != 5 {
		t.Fatalf("expected all 5 items attempted, got %d calls", got)
	}

	for url, res := range results {
		if res.Label != domain.LabelMajor {
			t.Fatalf("item %s: label = %q, want major for score 80", url, res.Label)
		}
	}
}

func TestClassifyAllClampsScore(t *testing.T) {
	t.Parallel()

	stub := &stubClassifier{score: 250}
	b := NewBatcher(stub, 10, time.Millisecond, nil)

	results := b.ClassifyAll(context.Background(), []domain.CanonicalItem{
		{RawItem: domain.RawItem{URL: "https://x.example.com/1"}},
	})

	res, ok := results["https://x.example.com/1"]
	if !ok {
		t.Fatal("expected a result")
	}
	if res.Score != 100 || res.Label != domain.LabelBreaking {
		t.Fatalf("score/label = %d/%q, want clamped 100/breaking", res.Score, res.Label)
	}
}

func TestClassifyAllEmptyInput(t *testing.T) {
	t.Parallel()

	b := NewBatcher(&stubClassifier{score: 50}, 3, time.Millisecond, nil)
	if got := b.ClassifyAll(context.Background(), nil); len(got) != 0 {
		t.Fatalf("expected empty map, got %v", got)
	}
}
