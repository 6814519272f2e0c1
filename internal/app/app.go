// Package app wires configuration to use cases and owns process lifecycle.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"

	"DevRadar/internal/classify"
	"DevRadar/internal/config"
	"DevRadar/internal/feed"
	"DevRadar/internal/infrastructure/httpapi"
	"DevRadar/internal/infrastructure/llm"
	"DevRadar/internal/infrastructure/scheduler"
	"DevRadar/internal/infrastructure/sources"
	"DevRadar/internal/infrastructure/storage"
	"DevRadar/internal/logging"
	"DevRadar/internal/ports"
	"DevRadar/internal/usecase"
)

// Application holds the wired components of the running service.
type Application struct {
	cfg       config.Config
	logger    *slog.Logger
	db        *sql.DB
	pipeline  *usecase.Pipeline
	server    *httpapi.Server
	scheduler *scheduler.IntervalScheduler
}

// New builds a runnable application instance from configuration.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	repository := storage.NewPostgresRepository(db)
	cache := feed.NewWindowCache()

	lookback := time.Duration(cfg.Sources.LookbackDays) * 24 * time.Hour

	adapters := []ports.SourceAdapter{
		sources.NewRSS(cfg.Sources.Feeds, lookback, baseLogger.With("component", "source.rss")),
		sources.NewHackerNews(nil, "",
			cfg.Sources.HackerNews.Query,
			cfg.Sources.HackerNews.MinScore,
			cfg.Sources.HackerNews.MaxItems),
		sources.NewGitHubTrending(nil, "", cfg.Sources.GitHub.Languages),
		sources.NewArxiv(nil, cfg.Sources.Arxiv.Listings, lookback),
	}

	var classifier ports.Classifier
	if cfg.LLM.APIKey != "" {
		classifier = llm.NewChatClassifier(cfg.LLM)
	} else {
		baseLogger.Warn("no classifier API key configured, items will not be scored")
	}

	batcher := classify.NewBatcher(classifier,
		cfg.LLM.BatchSize,
		time.Duration(cfg.LLM.BatchDelaySeconds)*time.Second,
		baseLogger.With("component", "classify"))

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Sources:    adapters,
		Classifier: batcher,
		Repository: repository,
		Cache:      cache,
		Logger:     baseLogger.With("component", "pipeline"),
	})

	feeds := usecase.NewFeedService(repository, cache,
		baseLogger.With("component", "feed"), nil)

	server := httpapi.NewServer(cfg.Server.Addr, feeds,
		baseLogger.With("component", "http"))

	interval := time.Duration(cfg.Scheduler.IntervalMinutes) * time.Minute

	return &Application{
		cfg:       cfg,
		logger:    baseLogger,
		db:        db,
		pipeline:  pipeline,
		server:    server,
		scheduler: scheduler.NewIntervalScheduler(interval),
	}, nil
}

// Run starts the scheduler and the HTTP server, and blocks until the context
// is cancelled or the server fails.
func (a *Application) Run(ctx context.Context) error {
	if err := a.scheduler.Start(ctx, func(time.Time) {
		passCtx, cancel := context.WithTimeout(ctx, 15*time.Minute)
		defer cancel()

		result, err := a.pipeline.RunPass(passCtx)
		if err != nil {
			a.logger.Error("ingestion pass failed", "error", err)
			return
		}
		for _, passErr := range result.Errors {
			a.logger.Warn("ingestion pass degraded", "error", passErr)
		}
	}); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- a.server.Run()
	}()

	select {
	case <-ctx.Done():
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	return a.shutdown()
}

func (a *Application) shutdown() error {
	a.scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Warn("http shutdown incomplete", "error", err)
	}
	if err := a.db.Close(); err != nil {
		a.logger.Warn("database close failed", "error", err)
	}

	a.logger.Info("shutdown complete")
	return nil
}
