// Package classify drives the external classifier in fixed-size batches.
package classify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"DevRadar/internal/domain"
	"DevRadar/internal/ports"
)

const (
	defaultBatchSize  = 5
	defaultBatchDelay = 10 * time.Second
)

// Batcher invokes the classifier port over fixed-size groups with an
// inter-batch delay to respect the external rate limit. Items within a
// batch are classified concurrently; batch order is not preserved in the
// output, which is keyed by item URL.
type Batcher struct {
	classifier ports.Classifier
	batchSize  int
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewBatcher builds a batch driver. batchSize <= 0 and delay <= 0 fall back
// to defaults.
func NewBatcher(classifier ports.Classifier, batchSize int, delay time.Duration, logger *slog.Logger) *Batcher {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	if delay <= 0 {
		delay = defaultBatchDelay
	}

	return &Batcher{
		classifier: classifier,
		batchSize:  batchSize,
		limiter:    rate.NewLimiter(rate.Every(delay), 1),
		logger:     logger,
	}
}

// ClassifyAll classifies items in batches. A failure classifying one item
// never aborts its batch: the item is simply omitted from the result map
// and logged. The returned label always matches the score thresholds.
func (b *Batcher) ClassifyAll(ctx context.Context, items []domain.CanonicalItem) map[string]domain.ClassificationResult {
	results := make(map[string]domain.ClassificationResult, len(items))
	if b.classifier == nil {
		return results
	}

	for start := 0; start < len(items); start += b.batchSize {
		if err := b.limiter.Wait(ctx); err != nil {
			b.warn("classification interrupted", "error", err)
			return results
		}

		end := start + b.batchSize
		if end > len(items) {
			end = len(items)
		}
		batch := items[start:end]

		// Per-index slots: concurrent calls share no mutable state.
		type slot struct {
			result domain.ClassificationResult
			err    error
		}
		slots := make([]slot, len(batch))

		var wg sync.WaitGroup
		for i, item := range batch {
			wg.Add(1)
			go func(i int, item domain.CanonicalItem) {
				defer wg.Done()
				slots[i].result, slots[i].err = b.classifier.Classify(ctx, item)
			}(i, item)
		}
		wg.Wait()

		for i, s := range slots {
			if s.err != nil {
				b.warn("classification failed, item omitted",
					"url", batch[i].URL, "error", s.err)
				continue
			}

			res := s.result
			res.Score = clampScore(res.Score)
			res.Label = domain.LabelForScore(res.Score)
			results[batch[i].URL] = res
		}
	}

	return results
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func (b *Batcher) warn(msg string, args ...any) {
	if b.logger != nil {
		b.logger.Warn(msg, args...)
	}
}
