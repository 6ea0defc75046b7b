package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Sink types selectable via the SINK environment variable
const (
	SinkFile  = "file"
	SinkRedis = "redis"
)

// Config represents the application configuration
type Config struct {
	// Category seeds: catalog page URLs, slug is the last path segment
	CategoryURLs       []string
	DiscoverCategories bool

	// Listing configuration
	PerPage  int
	MaxPages int

	// Fetch politeness
	RequestDelay time.Duration
	BlockTime    time.Duration
	ProxyURL     string

	// Worker configuration; zero interval means a single crawl pass
	CrawlInterval time.Duration

	// Sink configuration
	Sink       string
	OutputFile string

	// Redis configuration (redis sink)
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamCount     int
	RedisStreamMaxLength int

	// Memcache configuration; empty address disables rate-limit blocking
	MemcacheAddr string

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	streamCount, _ := strconv.Atoi(getEnv("REDIS_STREAM_COUNT", "1"))
	streamMaxLen, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAX_LENGTH", "500"))
	perPage, _ := strconv.Atoi(getEnv("PER_PAGE", "20"))
	maxPages, _ := strconv.Atoi(getEnv("MAX_PAGES", "0"))
	requestDelay, _ := strconv.Atoi(getEnv("REQUEST_DELAY_MS", "500"))
	blockTime, _ := strconv.Atoi(getEnv("BLOCK_TIME_SECONDS", "300"))
	crawlInterval, _ := strconv.Atoi(getEnv("CRAWL_INTERVAL_SECONDS", "0"))

	return Config{
		CategoryURLs:         splitURLs(getEnv("CATEGORY_URLS", "https://alkoteka.com/catalog/krepkiy-alkogol")),
		DiscoverCategories:   getEnv("DISCOVER_CATEGORIES", "false") == "true",
		PerPage:              perPage,
		MaxPages:             maxPages,
		RequestDelay:         time.Duration(requestDelay) * time.Millisecond,
		BlockTime:            time.Duration(blockTime) * time.Second,
		ProxyURL:             getEnv("PROXY_URL", ""),
		CrawlInterval:        time.Duration(crawlInterval) * time.Second,
		Sink:                 getEnv("SINK", SinkFile),
		OutputFile:           getEnv("OUTPUT_FILE", "result.json"),
		RedisAddr:            getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:              redisDB,
		RedisStream:          getEnv("REDIS_STREAM", "products"),
		RedisStreamCount:     streamCount,
		RedisStreamMaxLength: streamMaxLen,
		MemcacheAddr:         getEnv("MEMCACHE_ADDR", ""),
		Environment:          getEnv("FEEDWORKER_ENVIRONMENT", "development"),
	}
}

// Validate checks the configuration for values the worker cannot run with
func (c Config) Validate() error {
	if len(c.CategoryURLs) == 0 && !c.DiscoverCategories {
		return fmt.Errorf("no category URLs configured and discovery is disabled")
	}
	if c.PerPage <= 0 {
		return fmt.Errorf("PER_PAGE must be positive, got %d", c.PerPage)
	}
	if c.MaxPages < 0 {
		return fmt.Errorf("MAX_PAGES must not be negative, got %d", c.MaxPages)
	}
	switch c.Sink {
	case SinkFile:
		if c.OutputFile == "" {
			return fmt.Errorf("OUTPUT_FILE must be set for the file sink")
		}
	case SinkRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR must be set for the redis sink")
		}
		if c.RedisStreamCount <= 0 {
			return fmt.Errorf("REDIS_STREAM_COUNT must be positive, got %d", c.RedisStreamCount)
		}
	default:
		return fmt.Errorf("unknown sink type %q", c.Sink)
	}
	return nil
}

// splitURLs splits a comma-separated URL list, dropping empty entries
func splitURLs(raw string) []string {
	var urls []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			urls = append(urls, part)
		}
	}
	return urls
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
