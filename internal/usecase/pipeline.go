package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"DevRadar/internal/classify"
	"DevRadar/internal/dedup"
	"DevRadar/internal/domain"
	"DevRadar/internal/feed"
	"DevRadar/internal/metrics"
	"DevRadar/internal/ports"
)

// PipelineDeps wires all driven adapters into the ingestion pipeline.
type PipelineDeps struct {
	Sources    []ports.SourceAdapter
	Classifier *classify.Batcher
	Repository ports.ItemRepository
	Cache      *feed.WindowCache
	Logger     *slog.Logger
}

// PassResult is the structured outcome of one ingestion pass. A pass with a
// non-empty error list can still be a success if at least some items saved;
// only total store unavailability fails the pass as a whole.
type PassResult struct {
	Fetched    int
	Canonical  int
	Classified int
	Saved      int
	Errors     []error
}

// Pipeline implements the ingestion-to-store workflow: concurrent source
// fan-out, deduplication, batched classification, persistence, cache
// invalidation.
type Pipeline struct {
	sources    []ports.SourceAdapter
	classifier *classify.Batcher
	repository ports.ItemRepository
	cache      *feed.WindowCache
	dedup      *dedup.Deduplicator
	logger     *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		sources:    deps.Sources,
		classifier: deps.Classifier,
		repository: deps.Repository,
		cache:      deps.Cache,
		dedup:      dedup.New(deps.Logger),
		logger:     deps.Logger,
	}
}

// RunPass executes one discrete batch pass. It always returns a structured
// result; the error is non-nil only for pass-fatal conditions, in which case
// the result reports zero progress.
func (p *Pipeline) RunPass(ctx context.Context) (PassResult, error) {
	started := time.Now()
	defer func() {
		metrics.PassDuration.Observe(time.Since(started).Seconds())
	}()

	result := PassResult{}

	if p.repository == nil {
		return result, fmt.Errorf("item repository is not configured")
	}
	if err := p.repository.Ping(ctx); err != nil {
		return result, fmt.Errorf("store unreachable: %w", err)
	}

	raw := p.fetchAll(ctx, &result)
	result.Fetched = len(raw)

	canonical, dupMap := p.dedup.Deduplicate(raw)
	result.Canonical = len(canonical)
	for _, dups := range dupMap {
		metrics.DuplicatesMerged.Add(float64(len(dups)))
	}

	classified := p.classifier.ClassifyAll(ctx, canonical)
	result.Classified = len(classified)
	metrics.ItemsClassified.WithLabelValues("ok").Add(float64(len(classified)))
	metrics.ItemsClassified.WithLabelValues("failed").Add(float64(len(canonical) - len(classified)))

	p.save(ctx, canonical, classified, &result)

	if p.cache != nil && result.Saved > 0 {
		p.cache.Invalidate()
	}

	p.info("ingestion pass finished",
		"fetched", result.Fetched,
		"canonical", result.Canonical,
		"classified", result.Classified,
		"saved", result.Saved,
		"errors", len(result.Errors))

	return result, nil
}

// fetchAll runs every source adapter concurrently and joins them at a single
// barrier. Each call is independently guarded: a failing or panicking source
// degrades to an empty result set and never blocks its siblings. Output
// preserves adapter order, so the deduplicator sees the concatenation order
// of all sources.
func (p *Pipeline) fetchAll(ctx context.Context, result *PassResult) []domain.RawItem {
	perSource := make([][]domain.RawItem, len(p.sources))
	perSourceErr := make([]error, len(p.sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range p.sources {
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					p.warn("source adapter panicked", "source", src.Name(), "panic", r)
					perSourceErr[i] = fmt.Errorf("fetch %s: panic: %v", src.Name(), r)
				}
			}()

			items, err := src.Fetch(gctx)
			if err != nil {
				p.warn("source fetch failed", "source", src.Name(), "error", err)
				metrics.ItemsFetched.WithLabelValues(src.Name(), "error").Inc()
				perSourceErr[i] = fmt.Errorf("fetch %s: %w", src.Name(), err)
				return nil
			}

			metrics.ItemsFetched.WithLabelValues(src.Name(), "ok").Add(float64(len(items)))
			perSource[i] = items
			return nil
		})
	}
	_ = g.Wait() // goroutines never return errors; the barrier only joins

	var all []domain.RawItem
	for i, items := range perSource {
		if perSourceErr[i] != nil {
			result.Errors = append(result.Errors, perSourceErr[i])
		}
		all = append(all, items...)
	}
	return all
}

// save upserts every classified canonical item above the noise threshold,
// plus provenance records for its merged-away duplicates. One item's
// persistence failure is collected and does not abort the pass.
func (p *Pipeline) save(ctx context.Context, canonical []domain.CanonicalItem, classified map[string]domain.ClassificationResult, result *PassResult) {
	for _, item := range canonical {
		res, ok := classified[item.URL]
		if !ok {
			continue
		}
		if res.Score < domain.MinFeedScore {
			// Primary noise filter: below-threshold items are never
			// persisted or surfaced.
			continue
		}

		if err := p.repository.UpsertItem(ctx, item, res); err != nil {
			metrics.ItemsSaved.WithLabelValues("error").Inc()
			result.Errors = append(result.Errors, fmt.Errorf("save %s: %w", item.URL, err))
			continue
		}
		metrics.ItemsSaved.WithLabelValues("ok").Inc()
		result.Saved++

		for _, dup := range item.Duplicates {
			if err := p.repository.SaveDuplicate(ctx, item.URL, dup); err != nil {
				result.Errors = append(result.Errors, fmt.Errorf("save duplicate %s: %w", dup.URL, err))
			}
		}
	}
}

func (p *Pipeline) info(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}

func (p *Pipeline) warn(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}
