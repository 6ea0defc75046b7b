package crawler

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"alkoteka/feedworker/helpers"
	"alkoteka/feedworker/internal/api"
	"alkoteka/feedworker/internal/product"
	"alkoteka/feedworker/logger"
	"alkoteka/feedworker/pkg/errors"
	"alkoteka/feedworker/services/cache"
	"alkoteka/feedworker/services/sink"
)

// CategoryCrawler walks one category of the product API: list pages in
// order, detail pages concurrently. Page N+1 is requested only after page
// N's response is processed, since the continuation depends on it.
type CategoryCrawler struct {
	Slug      string
	URLs      api.URLBuilder
	PerPage   int
	MaxPages  int
	BlockTime time.Duration

	fetcher  helpers.Fetcher
	sink     sink.Sink
	cacheSvc cache.CacheService
	log      *logger.Logger
}

// NewCategoryCrawler creates a crawler for the category behind cfg.CategoryURL
func NewCategoryCrawler(cfg CrawlerConfig, fetcher helpers.Fetcher, s sink.Sink, cacheSvc cache.CacheService) *CategoryCrawler {
	slug := helpers.SlugFromURL(cfg.CategoryURL)

	perPage := cfg.PerPage
	if perPage <= 0 {
		perPage = api.DefaultPerPage
	}

	urls := cfg.URLs
	if urls.Base == "" {
		urls = api.NewURLBuilder()
	}

	return &CategoryCrawler{
		Slug:      slug,
		URLs:      urls,
		PerPage:   perPage,
		MaxPages:  cfg.MaxPages,
		BlockTime: cfg.BlockTime,
		fetcher:   fetcher,
		sink:      s,
		cacheSvc:  cacheSvc,
		log:       logger.ForCategory(slug),
	}
}

// GetName returns the crawler's name
func (c *CategoryCrawler) GetName() string {
	return "CategoryCrawler(" + c.Slug + ")"
}

// GetCategory returns the category slug
func (c *CategoryCrawler) GetCategory() string {
	return c.Slug
}

// Crawl runs the two-stage crawl for this category. A malformed list page
// terminates the pagination branch; a bad detail response only drops that
// one record. Returns after all spawned detail fetches finished.
func (c *CategoryCrawler) Crawl(ctx context.Context) error {
	var wg sync.WaitGroup
	defer wg.Wait()

	for page := 1; ; page++ {
		if c.MaxPages > 0 && page > c.MaxPages {
			c.log.Warn().
				Int("max_pages", c.MaxPages).
				Msg("Page bound reached, terminating pagination")
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		body, err := c.fetchWithBlock(ctx, c.URLs.ListURL(c.Slug, page, c.PerPage))
		if err != nil {
			return errors.NewNetwork(c.Slug, fmt.Sprintf("fetching list page %d", page), err)
		}

		var list api.ListResponse
		if err := json.Unmarshal(body, &list); err != nil {
			return errors.NewParsing(c.Slug, fmt.Sprintf("decoding list page %d", page), err)
		}

		spawned := 0
		for _, item := range list.Results {
			if item.Slug == "" || item.ProductURL == "" {
				// sparse stub, expected in listing data
				continue
			}
			spawned++
			wg.Add(1)
			go func(item api.ListItem) {
				defer wg.Done()
				c.crawlDetail(ctx, item)
			}(item)
		}

		c.log.Debug().
			Int("page", page).
			Int("items", len(list.Results)).
			Int("detail_requests", spawned).
			Bool("has_more_pages", list.Meta.HasMorePages).
			Msg("List page processed")

		if !list.Meta.HasMorePages {
			return nil
		}
	}
}

// crawlDetail fetches and parses one product detail page and emits the
// record. Failures are logged and dropped without touching sibling requests.
func (c *CategoryCrawler) crawlDetail(ctx context.Context, item api.ListItem) {
	body, err := c.fetchWithBlock(ctx, c.URLs.DetailURL(item.Slug))
	if err != nil {
		c.log.Error().Err(err).Str("slug", item.Slug).Msg("Failed to fetch product detail")
		return
	}

	record, err := product.ParseDetail(body, item.ProductURL)
	if err != nil {
		c.log.Error().Err(err).Str("slug", item.Slug).Msg("Failed to parse product detail")
		return
	}

	if err := c.sink.Emit(record); err != nil {
		c.log.Error().Err(err).Str("slug", item.Slug).Msg("Failed to emit product record")
	}
}

// fetchWithBlock fetches a URL unless the category is currently blocked
// after an upstream rate limit. A 429 sets the block so the remaining
// requests of this category short-circuit for BlockTime.
func (c *CategoryCrawler) fetchWithBlock(ctx context.Context, url string) ([]byte, error) {
	if c.cacheSvc != nil && c.BlockTime > 0 {
		if _, err := c.cacheSvc.Get(c.blockKey()); err == nil {
			return nil, errors.NewRateLimit(c.Slug, c.BlockTime)
		}
	}

	body, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		var rateErr *helpers.RateLimitError
		if stderrors.As(err, &rateErr) && c.cacheSvc != nil && c.BlockTime > 0 {
			blockSeconds := strconv.Itoa(int(c.BlockTime / time.Second))
			if cacheErr := c.cacheSvc.Set(c.blockKey(), []byte(blockSeconds), c.BlockTime); cacheErr != nil {
				c.log.Warn().Err(cacheErr).Msg("Failed to set rate limit block")
			}
		}
		return nil, err
	}

	return body, nil
}

// blockKey is the cache key holding this category's rate limit block
func (c *CategoryCrawler) blockKey() string {
	return "blocked:" + c.Slug
}
