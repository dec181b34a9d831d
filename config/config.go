package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// PageFailurePolicy decides what a failed search-page fetch means.
const (
	// PageFailureStop treats an unreachable page as the end of pagination
	PageFailureStop = "stop"
	// PageFailureFail aborts the run with the page fetch error
	PageFailureFail = "fail"
)

// Config represents the application configuration
type Config struct {
	// Search configuration
	SaleSearchURL string
	RentSearchURL string
	HarvestModes  []string

	// Dispatch configuration
	Concurrency       int
	StartPage         int
	MaxPages          int
	PageFailurePolicy string
	HTTPTimeout       time.Duration

	// Output configuration
	OutputPath string

	// Optional Postgres sink
	PostgresDSN string

	// Optional Redis stream sink
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamMaxLength int

	// Optional Memcache checkpoint store
	MemcacheAddr string

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() Config {
	concurrency, _ := strconv.Atoi(getEnv("CONCURRENCY", "20"))
	startPage, _ := strconv.Atoi(getEnv("START_PAGE", "1"))
	maxPages, _ := strconv.Atoi(getEnv("MAX_PAGES", "0"))
	httpTimeout, _ := strconv.Atoi(getEnv("HTTP_TIMEOUT_SECONDS", "10"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	redisStreamMaxLength, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAX_LENGTH", "500"))

	return Config{
		SaleSearchURL:        getEnv("SALE_SEARCH_URL", "https://www.immoweb.be/en/search/house/for-sale?countries=BE"),
		RentSearchURL:        getEnv("RENT_SEARCH_URL", "https://www.immoweb.be/en/search/house/for-rent?countries=BE"),
		HarvestModes:         splitModes(getEnv("HARVEST_MODES", "sale,rent")),
		Concurrency:          concurrency,
		StartPage:            startPage,
		MaxPages:             maxPages,
		PageFailurePolicy:    getEnv("PAGE_FAILURE_POLICY", PageFailureStop),
		HTTPTimeout:          time.Duration(httpTimeout) * time.Second,
		OutputPath:           getEnv("OUTPUT_PATH", "./data/listings.csv"),
		PostgresDSN:          getEnv("POSTGRES_DSN", ""),
		RedisAddr:            getEnv("REDIS_ADDR", ""),
		RedisDB:              redisDB,
		RedisStream:          getEnv("REDIS_STREAM", "listings"),
		RedisStreamMaxLength: redisStreamMaxLength,
		MemcacheAddr:         getEnv("MEMCACHE_ADDR", ""),
		Environment:          getEnv("HARVESTER_ENVIRONMENT", "development"),
	}
}

// Validate checks the configuration for values the harvester cannot run with
func (c *Config) Validate() error {
	if len(c.HarvestModes) == 0 {
		return fmt.Errorf("HARVEST_MODES must name at least one of sale, rent")
	}
	for _, mode := range c.HarvestModes {
		switch mode {
		case "sale":
			if c.SaleSearchURL == "" {
				return fmt.Errorf("SALE_SEARCH_URL must be set for sale mode")
			}
		case "rent":
			if c.RentSearchURL == "" {
				return fmt.Errorf("RENT_SEARCH_URL must be set for rent mode")
			}
		default:
			return fmt.Errorf("unknown harvest mode %q", mode)
		}
	}
	if c.Concurrency <= 0 {
		return fmt.Errorf("CONCURRENCY must be positive, got %d", c.Concurrency)
	}
	if c.StartPage <= 0 {
		return fmt.Errorf("START_PAGE must be positive, got %d", c.StartPage)
	}
	if c.MaxPages < 0 {
		return fmt.Errorf("MAX_PAGES must be zero or positive, got %d", c.MaxPages)
	}
	if c.PageFailurePolicy != PageFailureStop && c.PageFailurePolicy != PageFailureFail {
		return fmt.Errorf("PAGE_FAILURE_POLICY must be %q or %q, got %q",
			PageFailureStop, PageFailureFail, c.PageFailurePolicy)
	}
	if c.OutputPath == "" {
		return fmt.Errorf("OUTPUT_PATH must not be empty")
	}
	return nil
}

func splitModes(value string) []string {
	var modes []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(strings.ToLower(part))
		if part != "" {
			modes = append(modes, part)
		}
	}
	return modes
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
