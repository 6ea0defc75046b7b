package worker

import (
	"context"
	"sync"
	"time"

	"alkoteka/feedworker/internal/crawler"
	"alkoteka/feedworker/logger"
)

// Worker drives the category crawlers. Categories run concurrently; the
// worker only joins them and logs per-category outcomes.
type Worker struct {
	ctx      context.Context
	crawlers []crawler.Crawler
	interval time.Duration
	log      *logger.Logger
}

// NewWorker creates a new worker. A zero interval means one crawl pass;
// otherwise the worker re-crawls every interval until the context ends.
func NewWorker(ctx context.Context, crawlers []crawler.Crawler, interval time.Duration) *Worker {
	return &Worker{
		ctx:      ctx,
		crawlers: crawlers,
		interval: interval,
		log:      logger.ForWorker(),
	}
}

// Start runs the worker until its crawl passes are done or the context is
// cancelled
func (w *Worker) Start() error {
	for {
		start := time.Now()
		w.runCrawlers()
		w.log.Info().
			Dur("elapsed", time.Since(start)).
			Int("categories", len(w.crawlers)).
			Msg("Crawl pass finished")

		if w.interval <= 0 {
			return nil
		}

		select {
		case <-w.ctx.Done():
			return w.ctx.Err()
		case <-time.After(w.interval):
		}
	}
}

// runCrawlers runs all category crawlers in parallel and waits for them
func (w *Worker) runCrawlers() {
	var wg sync.WaitGroup
	for _, c := range w.crawlers {
		wg.Add(1)
		go func(c crawler.Crawler) {
			defer wg.Done()
			if err := c.Crawl(w.ctx); err != nil {
				w.log.Error().
					Err(err).
					Str("crawler", c.GetName()).
					Str("category", c.GetCategory()).
					Msg("Category crawl failed")
			}
		}(c)
	}
	wg.Wait()
}
