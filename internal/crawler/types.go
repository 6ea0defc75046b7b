package crawler

import (
	"context"
	"time"

	"alkoteka/feedworker/internal/api"
)

// Crawler is the contract the worker drives. One implementation crawls one
// category end to end.
type Crawler interface {
	// Crawl walks the category until its pagination branch terminates,
	// emitting every successfully parsed product to the sink
	Crawl(ctx context.Context) error

	// GetName returns the crawler's name for logging and identification
	GetName() string

	// GetCategory returns the category slug the crawler covers
	GetCategory() string
}

// CrawlerConfig contains configuration for a category crawler
type CrawlerConfig struct {
	// CategoryURL is the catalog page URL; its last path segment is the slug
	CategoryURL string
	PerPage     int
	// MaxPages bounds pagination as a guard against a server that never
	// clears has_more_pages; zero means unbounded
	MaxPages  int
	BlockTime time.Duration
	URLs      api.URLBuilder
}
