package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"alkoteka/feedworker/config"
	"alkoteka/feedworker/helpers"
	"alkoteka/feedworker/internal/crawler"
	"alkoteka/feedworker/logger"
	"alkoteka/feedworker/services/cache"
	"alkoteka/feedworker/services/sink"
	"alkoteka/feedworker/services/worker"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Str("sink", cfg.Sink).
		Int("categories", len(cfg.CategoryURLs)).
		Dur("request_delay", cfg.RequestDelay).
		Msg("Starting application")

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Initialize the fetch layer shared by all crawlers
	fetcher, err := helpers.NewHTTPFetcher(cfg.RequestDelay, cfg.ProxyURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create fetcher")
	}

	// Optional memcache-backed rate limit blocking
	var cacheSvc cache.CacheService
	if cfg.MemcacheAddr != "" {
		cacheSvc = cache.NewMemcacheService(cfg.MemcacheAddr)
		log.Info().Str("addr", cfg.MemcacheAddr).Msg("Connected to Memcache")
	}

	// Initialize the record sink
	recordSink, err := newSink(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create sink")
	}

	// Resolve category seeds
	categoryURLs := cfg.CategoryURLs
	if cfg.DiscoverCategories {
		discovered, err := crawler.DiscoverCategories(ctx, fetcher, crawler.DefaultSiteURL)
		if err != nil {
			log.Warn().Err(err).Msg("Category discovery failed, using configured seeds")
		} else {
			log.Info().Int("count", len(discovered)).Msg("Discovered categories")
			categoryURLs = discovered
		}
	}
	if len(categoryURLs) == 0 {
		log.Fatal().Msg("No categories to crawl")
	}

	// Create one crawler per category
	crawlers := make([]crawler.Crawler, 0, len(categoryURLs))
	for _, categoryURL := range categoryURLs {
		crawlers = append(crawlers, crawler.NewCategoryCrawler(
			crawler.CrawlerConfig{
				CategoryURL: categoryURL,
				PerPage:     cfg.PerPage,
				MaxPages:    cfg.MaxPages,
				BlockTime:   cfg.BlockTime,
			},
			fetcher,
			recordSink,
			cacheSvc,
		))
	}

	log.Info().
		Int("crawler_count", len(crawlers)).
		Msg("Created crawlers")

	// Create and start worker
	w := worker.NewWorker(ctx, crawlers, cfg.CrawlInterval)

	workerDone := make(chan error, 1)
	go func() {
		log.Info().Msg("Starting product feed worker")
		workerDone <- w.Start()
	}()

	// Wait for shutdown signal or worker completion
	select {
	case sig := <-sigChan:
		log.Info().
			Str("signal", sig.String()).
			Msg("Received shutdown signal")
		cancel()
		<-workerDone
	case err := <-workerDone:
		if err != nil {
			log.Error().Err(err).Msg("Worker exited with error")
		} else {
			log.Info().Msg("Worker exited normally")
		}
	}

	// Flush the sink before exiting
	if err := recordSink.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close sink")
	}

	log.Info().Msg("Shutting down gracefully...")
}

// newSink creates the configured record sink
func newSink(ctx context.Context, cfg config.Config) (sink.Sink, error) {
	switch cfg.Sink {
	case config.SinkRedis:
		logger.Info("Publishing to Redis at %s (DB: %d, Stream: %s)",
			cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream)
		return sink.NewRedisSink(
			ctx,
			cfg.RedisAddr,
			cfg.RedisDB,
			cfg.RedisStream,
			cfg.RedisStreamCount,
			cfg.RedisStreamMaxLength,
		), nil
	default:
		logger.Info("Writing feed to %s", cfg.OutputFile)
		return sink.NewFileSink(cfg.OutputFile), nil
	}
}
