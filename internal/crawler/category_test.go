package crawler

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"alkoteka/feedworker/helpers"
	"alkoteka/feedworker/internal/api"
	"alkoteka/feedworker/internal/product"
	"alkoteka/feedworker/pkg/errors"

	"github.com/stretchr/testify/assert"
)

// stubFetcher serves canned bodies by URL and records the request order
type stubFetcher struct {
	mu        sync.Mutex
	responses map[string][]byte
	errs      map[string]error
	requests  []string
}

// Ensure stubFetcher implements helpers.Fetcher
var _ helpers.Fetcher = (*stubFetcher)(nil)

func newStubFetcher() *stubFetcher {
	return &stubFetcher{
		responses: make(map[string][]byte),
		errs:      make(map[string]error),
	}
}

func (f *stubFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	f.requests = append(f.requests, url)
	f.mu.Unlock()

	if err, ok := f.errs[url]; ok {
		return nil, err
	}
	if body, ok := f.responses[url]; ok {
		return body, nil
	}
	return nil, fmt.Errorf("unexpected request: %s", url)
}

func (f *stubFetcher) requested(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.requests {
		if r == url {
			return true
		}
	}
	return false
}

func (f *stubFetcher) indexOf(url string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, r := range f.requests {
		if r == url {
			return i
		}
	}
	return -1
}

// collectSink gathers emitted records for assertions
type collectSink struct {
	mu      sync.Mutex
	records []product.ProductRecord
}

func (s *collectSink) Emit(record product.ProductRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	return nil
}

func (s *collectSink) Close() error {
	return nil
}

func (s *collectSink) all() []product.ProductRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]product.ProductRecord(nil), s.records...)
}

// fakeCache is an in-memory CacheService
type fakeCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{items: make(map[string][]byte)}
}

func (c *fakeCache) Get(key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.items[key]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("cache miss: %s", key)
}

func (c *fakeCache) Set(key string, value []byte, expiration time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value
	return nil
}

func (c *fakeCache) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
	return nil
}

func detailBody(uuid, name string) []byte {
	return []byte(fmt.Sprintf(`{"results": {"uuid": %q, "name": %q, "price": 100, "quantity_total": 5}}`, uuid, name))
}

func newTestCrawler(f helpers.Fetcher, s *collectSink, c *fakeCache) *CategoryCrawler {
	cfg := CrawlerConfig{
		CategoryURL: "https://alkoteka.com/catalog/vodka",
		PerPage:     20,
		BlockTime:   time.Minute,
	}
	if c != nil {
		return NewCategoryCrawler(cfg, f, s, c)
	}
	return NewCategoryCrawler(cfg, f, s, nil)
}

func TestCrawlTwoPages(t *testing.T) {
	urls := api.NewURLBuilder()
	fetcher := newStubFetcher()
	fetcher.responses[urls.ListURL("vodka", 1, 20)] = []byte(`{
		"results": [
			{"slug": "vodka-1", "product_url": "https://alkoteka.com/product/vodka/vodka-1"},
			{"slug": "vodka-2", "product_url": "https://alkoteka.com/product/vodka/vodka-2"}
		],
		"meta": {"has_more_pages": true}
	}`)
	fetcher.responses[urls.ListURL("vodka", 2, 20)] = []byte(`{
		"results": [
			{"slug": "vodka-3", "product_url": "https://alkoteka.com/product/vodka/vodka-3"}
		],
		"meta": {"has_more_pages": false}
	}`)
	fetcher.responses[urls.DetailURL("vodka-1")] = detailBody("id-1", "Vodka One")
	fetcher.responses[urls.DetailURL("vodka-2")] = detailBody("id-2", "Vodka Two")
	fetcher.responses[urls.DetailURL("vodka-3")] = detailBody("id-3", "Vodka Three")

	s := &collectSink{}
	c := newTestCrawler(fetcher, s, nil)

	assert.NoError(t, c.Crawl(context.Background()))

	records := s.all()
	assert.Len(t, records, 3)

	// Pagination stops at the flag: no third-page request
	assert.False(t, fetcher.requested(urls.ListURL("vodka", 3, 20)))

	// Page 2 is requested only after page 1 was processed
	assert.Less(t, fetcher.indexOf(urls.ListURL("vodka", 1, 20)), fetcher.indexOf(urls.ListURL("vodka", 2, 20)))

	// Records carry the canonical page URL, not the API URL
	urlsSeen := map[string]bool{}
	for _, r := range records {
		urlsSeen[r.URL] = true
	}
	assert.True(t, urlsSeen["https://alkoteka.com/product/vodka/vodka-1"])
	assert.True(t, urlsSeen["https://alkoteka.com/product/vodka/vodka-3"])
}

func TestCrawlSkipsIncompleteStubs(t *testing.T) {
	urls := api.NewURLBuilder()
	fetcher := newStubFetcher()
	fetcher.responses[urls.ListURL("vodka", 1, 20)] = []byte(`{
		"results": [
			{"slug": "vodka-1"},
			{"product_url": "https://alkoteka.com/product/vodka/vodka-2"},
			{"slug": "vodka-3", "product_url": "https://alkoteka.com/product/vodka/vodka-3"}
		],
		"meta": {"has_more_pages": false}
	}`)
	fetcher.responses[urls.DetailURL("vodka-3")] = detailBody("id-3", "Vodka Three")

	s := &collectSink{}
	c := newTestCrawler(fetcher, s, nil)

	assert.NoError(t, c.Crawl(context.Background()))

	// Only the complete stub produced a record, and no detail request was
	// made for the incomplete ones
	records := s.all()
	assert.Len(t, records, 1)
	assert.Equal(t, "id-3", records[0].RPC)
	assert.False(t, fetcher.requested(urls.DetailURL("vodka-1")))
}

func TestCrawlBadDetailDoesNotBlockSiblings(t *testing.T) {
	urls := api.NewURLBuilder()
	fetcher := newStubFetcher()
	fetcher.responses[urls.ListURL("vodka", 1, 20)] = []byte(`{
		"results": [
			{"slug": "vodka-1", "product_url": "https://alkoteka.com/product/vodka/vodka-1"},
			{"slug": "vodka-2", "product_url": "https://alkoteka.com/product/vodka/vodka-2"}
		],
		"meta": {"has_more_pages": false}
	}`)
	fetcher.responses[urls.DetailURL("vodka-1")] = []byte("<html>502 Bad Gateway</html>")
	fetcher.responses[urls.DetailURL("vodka-2")] = detailBody("id-2", "Vodka Two")

	s := &collectSink{}
	c := newTestCrawler(fetcher, s, nil)

	assert.NoError(t, c.Crawl(context.Background()))

	records := s.all()
	assert.Len(t, records, 1)
	assert.Equal(t, "id-2", records[0].RPC)
}

func TestCrawlBadListTerminatesBranch(t *testing.T) {
	urls := api.NewURLBuilder()
	fetcher := newStubFetcher()
	fetcher.responses[urls.ListURL("vodka", 1, 20)] = []byte("not json at all")

	s := &collectSink{}
	c := newTestCrawler(fetcher, s, nil)

	err := c.Crawl(context.Background())
	assert.Error(t, err)

	var crawlErr *errors.CrawlError
	assert.ErrorAs(t, err, &crawlErr)
	assert.Equal(t, errors.ErrorTypeParsing, crawlErr.Type)
	assert.Empty(t, s.all())
}

func TestCrawlMaxPagesBound(t *testing.T) {
	urls := api.NewURLBuilder()
	fetcher := newStubFetcher()
	// server that always claims more pages
	for page := 1; page <= 3; page++ {
		fetcher.responses[urls.ListURL("vodka", page, 20)] = []byte(`{"results": [], "meta": {"has_more_pages": true}}`)
	}

	s := &collectSink{}
	c := NewCategoryCrawler(CrawlerConfig{
		CategoryURL: "https://alkoteka.com/catalog/vodka",
		PerPage:     20,
		MaxPages:    2,
	}, fetcher, s, nil)

	assert.NoError(t, c.Crawl(context.Background()))
	assert.True(t, fetcher.requested(urls.ListURL("vodka", 2, 20)))
	assert.False(t, fetcher.requested(urls.ListURL("vodka", 3, 20)))
}

func TestCrawlRateLimitSetsBlock(t *testing.T) {
	urls := api.NewURLBuilder()
	fetcher := newStubFetcher()
	fetcher.errs[urls.ListURL("vodka", 1, 20)] = &helpers.RateLimitError{URL: urls.ListURL("vodka", 1, 20), RetryAfter: "60"}

	s := &collectSink{}
	cacheSvc := newFakeCache()
	c := newTestCrawler(fetcher, s, cacheSvc)

	err := c.Crawl(context.Background())
	assert.Error(t, err)

	// The block key is set; a second crawl short-circuits without fetching
	_, cacheErr := cacheSvc.Get("blocked:vodka")
	assert.NoError(t, cacheErr)

	before := len(fetcher.requests)
	err = c.Crawl(context.Background())
	assert.Error(t, err)

	var crawlErr *errors.CrawlError
	assert.ErrorAs(t, err, &crawlErr)
	assert.Equal(t, errors.ErrorTypeNetwork, crawlErr.Type)
	assert.Len(t, fetcher.requests, before)
}

func TestCrawlCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := newStubFetcher()
	s := &collectSink{}
	c := newTestCrawler(fetcher, s, nil)

	err := c.Crawl(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, fetcher.requests)
}

func TestCategorySlugDerivation(t *testing.T) {
	c := NewCategoryCrawler(CrawlerConfig{CategoryURL: "https://alkoteka.com/catalog/krepkiy-alkogol"}, newStubFetcher(), &collectSink{}, nil)
	assert.Equal(t, "krepkiy-alkogol", c.GetCategory())
	assert.Equal(t, "CategoryCrawler(krepkiy-alkogol)", c.GetName())
	assert.Equal(t, api.DefaultPerPage, c.PerPage)
}
