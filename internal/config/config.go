package config

import (
	"time"

	"github.com/spf13/viper"
)

const (
	// DefaultGutendexBaseURL is the Gutendex books endpoint searched by title
	DefaultGutendexBaseURL = "https://gutendex.com/books/"
	// DefaultRequestTimeout bounds a single catalog request
	DefaultRequestTimeout = 30 * time.Second
	// DefaultRequestInterval is the minimum spacing between catalog requests
	DefaultRequestInterval = time.Second
)

// Global configuration variables
var (
	// DatabaseDriver selects the persistence backend: "sqlite" or "postgres"
	DatabaseDriver string
	// DatabaseFile is the SQLite database path
	DatabaseFile string
	// DatabaseDSN is the Postgres connection string
	DatabaseDSN string
	// GutendexBaseURL is the catalog search endpoint
	GutendexBaseURL string
	// RequestTimeout is the HTTP timeout for catalog requests
	RequestTimeout time.Duration
	// RequestInterval spaces catalog requests; zero disables rate limiting
	RequestInterval time.Duration
	// CacheEnabled controls whether catalog responses are cached locally
	CacheEnabled bool
)

// SetDefaults registers the default values for every config key
func SetDefaults() {
	viper.SetDefault("database.driver", "sqlite")
	viper.SetDefault("database.dbfile", "./gutenshelf.db")
	viper.SetDefault("database.dsn", "")

	viper.SetDefault("gutendex.baseurl", DefaultGutendexBaseURL)
	viper.SetDefault("gutendex.timeout", DefaultRequestTimeout.String())
	viper.SetDefault("gutendex.interval", DefaultRequestInterval.String())

	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("cache.dbfile", "./cache.db")
	viper.SetDefault("cache.ttl", "24h")

	viper.SetDefault("export.jsonoutput", "./json/books.json")
	viper.SetDefault("export.markdownoutputdir", "./markdown/")
}

// InitConfig initializes the global configuration
func InitConfig() {
	SetDefaults()

	DatabaseDriver = viper.GetString("database.driver")
	DatabaseFile = viper.GetString("database.dbfile")
	DatabaseDSN = viper.GetString("database.dsn")
	GutendexBaseURL = viper.GetString("gutendex.baseurl")
	RequestTimeout = parseDuration(viper.GetString("gutendex.timeout"), DefaultRequestTimeout)
	RequestInterval = parseInterval(viper.GetString("gutendex.interval"))
	CacheEnabled = viper.GetBool("cache.enabled")
}

// CacheTTL returns the configured cache TTL, falling back to 24h
func CacheTTL() time.Duration {
	return parseDuration(viper.GetString("cache.ttl"), 24*time.Hour)
}

// SetCacheEnabled sets the CacheEnabled flag
func SetCacheEnabled(enabled bool) {
	CacheEnabled = enabled
	viper.Set("cache.enabled", enabled)
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// parseInterval accepts "0" to disable rate limiting.
func parseInterval(value string) time.Duration {
	if d, err := time.ParseDuration(value); err == nil && d == 0 {
		return 0
	}
	return parseDuration(value, DefaultRequestInterval)
}
