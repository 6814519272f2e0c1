package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"DevRadar/internal/domain"
	"DevRadar/internal/ports"
)

// PostgresRepository persists classified canonical items and duplicate
// provenance, and serves both feed tiers.
type PostgresRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.ItemRepository = (*PostgresRepository)(nil)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Ping reports store reachability; the pipeline treats a failure here as
// fatal for the whole pass.
func (r *PostgresRepository) Ping(ctx context.Context) error {
	if r.db == nil {
		return fmt.Errorf("storage not configured")
	}
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping storage: %w", err)
	}
	return nil
}

// UpsertItem is keyed by URL: re-running a pass against the same item
// refreshes its classification and engagement fields in place.
func (r *PostgresRepository) UpsertItem(ctx context.Context, item domain.CanonicalItem, result domain.ClassificationResult) error {
	if r.db == nil {
		return fmt.Errorf("storage not configured")
	}

	query, args, err := r.builder.
		Insert("feed_items").
		Columns(
			"url", "title", "source", "source_id", "published_at",
			"excerpt", "author", "domain",
			"engagement", "comment_count",
			"repo", "stars", "language", "release_tag", "trending",
			"discussion_url", "reddit_url",
			"score", "label", "category",
			"languages", "frameworks", "topics",
			"affects_production", "reasoning", "tags",
		).
		Values(
			item.URL, item.Title, item.Source, item.SourceID, item.PublishedAt,
			item.Excerpt, item.Author, item.Domain,
			item.Score, item.CommentCount,
			item.Repo, item.Stars, item.Language, item.ReleaseTag, item.Trending,
			item.DiscussionURL, item.RedditURL,
			result.Score, result.Label, result.Category,
			pq.StringArray(result.Languages), pq.StringArray(result.Frameworks), pq.StringArray(result.Topics),
			result.AffectsProduction, result.Reasoning, pq.StringArray(result.Tags),
		).
		Suffix(`ON CONFLICT (url) DO UPDATE SET
			title = EXCLUDED.title,
			engagement = EXCLUDED.engagement,
			comment_count = EXCLUDED.comment_count,
			stars = EXCLUDED.stars,
			trending = EXCLUDED.trending,
			discussion_url = EXCLUDED.discussion_url,
			reddit_url = EXCLUDED.reddit_url,
			score = EXCLUDED.score,
			label = EXCLUDED.label,
			category = EXCLUDED.category,
			languages = EXCLUDED.languages,
			frameworks = EXCLUDED.frameworks,
			topics = EXCLUDED.topics,
			affects_production = EXCLUDED.affects_production,
			reasoning = EXCLUDED.reasoning,
			tags = EXCLUDED.tags,
			updated_at = NOW()`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert item: %w", err)
	}

	return nil
}

// SaveDuplicate links a merged-away duplicate to its canonical item. The
// link is idempotent across repeated passes.
func (r *PostgresRepository) SaveDuplicate(ctx context.Context, canonicalURL string, dup domain.DuplicateRef) error {
	if r.db == nil {
		return fmt.Errorf("storage not configured")
	}

	query, args, err := r.builder.
		Insert("feed_item_duplicates").
		Columns("canonical_url", "dup_url", "dup_title", "dup_source").
		Values(canonicalURL, dup.URL, dup.Title, dup.Source).
		Suffix("ON CONFLICT (canonical_url, dup_url) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("build duplicate insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save duplicate: %w", err)
	}

	return nil
}

// ListRecent returns all entries published at or after since, unordered;
// ordering is the assembler's job.
func (r *PostgresRepository) ListRecent(ctx context.Context, since time.Time) ([]domain.FeedEntry, error) {
	if r.db == nil {
		return nil, fmt.Errorf("storage not configured")
	}

	query, args, err := r.itemSelect().
		Where(sq.GtOrEq{"published_at": since}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build recent query: %w", err)
	}

	entries, err := r.queryEntries(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("list recent: %w", err)
	}

	if err := r.attachDuplicates(ctx, entries); err != nil {
		return nil, err
	}

	return entries, nil
}

// ListHistorical pages through entries published strictly before the
// recency window, ordered score descending then publish time descending,
// and reports the total size of the historical dataset.
func (r *PostgresRepository) ListHistorical(ctx context.Context, before time.Time, offset, limit int) ([]domain.FeedEntry, int, error) {
	if r.db == nil {
		return nil, 0, fmt.Errorf("storage not configured")
	}
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		return nil, 0, fmt.Errorf("limit must be positive")
	}

	countQuery, countArgs, err := r.builder.
		Select("COUNT(*)").
		From("feed_items").
		Where(sq.Lt{"published_at": before}).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build historical count: %w", err)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count historical: %w", err)
	}

	query, args, err := r.itemSelect().
		Where(sq.Lt{"published_at": before}).
		OrderBy("score DESC", "published_at DESC").
		Offset(uint64(offset)).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build historical query: %w", err)
	}

	entries, err := r.queryEntries(ctx, query, args)
	if err != nil {
		return nil, 0, fmt.Errorf("list historical: %w", err)
	}

	if err := r.attachDuplicates(ctx, entries); err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

func (r *PostgresRepository) itemSelect() sq.SelectBuilder {
	return r.builder.
		Select(
			"url", "title", "source", "source_id", "published_at",
			"excerpt", "author", "domain",
			"engagement", "comment_count",
			"repo", "stars", "language", "release_tag", "trending",
			"discussion_url", "reddit_url",
			"score", "label", "category",
			"languages", "frameworks", "topics",
			"affects_production", "reasoning", "tags",
		).
		From("feed_items")
}

func (r *PostgresRepository) queryEntries(ctx context.Context, query string, args []any) ([]domain.FeedEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	var entries []domain.FeedEntry
	for rows.Next() {
		var (
			entry      domain.FeedEntry
			languages  pq.StringArray
			frameworks pq.StringArray
			topics     pq.StringArray
			tags       pq.StringArray
		)
		item := &entry.Item.RawItem
		res := &entry.Classification

		if err := rows.Scan(
			&item.URL, &item.Title, &item.Source, &item.SourceID, &item.PublishedAt,
			&item.Excerpt, &item.Author, &item.Domain,
			&item.Score, &item.CommentCount,
			&item.Repo, &item.Stars, &item.Language, &item.ReleaseTag, &item.Trending,
			&item.DiscussionURL, &item.RedditURL,
			&res.Score, &res.Label, &res.Category,
			&languages, &frameworks, &topics,
			&res.AffectsProduction, &res.Reasoning, &tags,
		); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}

		res.Languages = languages
		res.Frameworks = frameworks
		res.Topics = topics
		res.Tags = tags

		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return entries, nil
}

// attachDuplicates loads provenance links for the given entries in one
// round trip.
func (r *PostgresRepository) attachDuplicates(ctx context.Context, entries []domain.FeedEntry) error {
	if len(entries) == 0 {
		return nil
	}

	urls := make([]string, len(entries))
	index := make(map[string]int, len(entries))
	for i, e := range entries {
		urls[i] = e.Item.URL
		index[e.Item.URL] = i
	}

	query := `SELECT canonical_url, dup_url, dup_title, dup_source
	          FROM feed_item_duplicates WHERE canonical_url = ANY($1)`

	rows, err := r.db.QueryContext(ctx, query, pq.StringArray(urls))
	if err != nil {
		return fmt.Errorf("query duplicates: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			canonical string
			dup       domain.DuplicateRef
		)
		if err := rows.Scan(&canonical, &dup.URL, &dup.Title, &dup.Source); err != nil {
			return fmt.Errorf("scan duplicate: %w", err)
		}
		if i, ok := index[canonical]; ok {
			entries[i].Item.Duplicates = append(entries[i].Item.Duplicates, dup)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("duplicate rows iteration: %w", err)
	}

	return nil
}
