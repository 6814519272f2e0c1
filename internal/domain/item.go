package domain

import "time"

// Source enumerates the providers items are ingested from.
type Source string

const (
	SourceGitHub     Source = "github"
	SourceHackerNews Source = "hackernews"
	SourceArxiv      Source = "arxiv"
	SourceReddit     Source = "reddit"
	SourceRSS        Source = "rss"
)

// RawItem is one ingested record before deduplication and classification.
// Created by a source adapter, immutable, consumed once by the deduplicator.
type RawItem struct {
	Title       string
	URL         string
	Source      Source
	SourceID    string
	PublishedAt time.Time
	Content     string
	Excerpt     string
	Author      string
	Domain      string

	// Engagement metrics as reported by the provider.
	Score        int
	CommentCount int

	// Provider-specific fields.
	Repo          string // owner/name identifier for repository-backed items
	Stars         int
	Language      string
	ReleaseTag    string
	Trending      bool
	DiscussionURL string // HN or similar discussion thread
	RedditURL     string
}

// DuplicateRef records a merged-away duplicate for provenance, not display.
type DuplicateRef struct {
	Title  string
	URL    string
	Source Source
}

// CanonicalItem is the surviving representative of a duplicate group: the
// highest-engagement member of its equivalence class, with discussion URLs
// backfilled from its duplicates.
type CanonicalItem struct {
	RawItem

	Duplicates []DuplicateRef
}
