// Package gutendex provides a client for the Gutendex book catalog API.
package gutendex

import (
	"net/http"
	"time"

	"github.com/lepinkainen/gutenshelf/internal/cache"
	"github.com/lepinkainen/gutenshelf/internal/ratelimit"
)

const (
	defaultBaseURL       = "https://gutendex.com/books/"
	defaultTimeout       = 30 * time.Second
	defaultMaxAttempts   = 1
	defaultRateInterval  = time.Second
	defaultUserAgent     = "gutenshelf/1.0 (+https://github.com/lepinkainen/gutenshelf)"
	defaultCacheTTL      = 24 * time.Hour
	maxResponseBodyBytes = 16 << 20
)

// HTTPDoer is an interface for making HTTP requests.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client is a Gutendex API client.
type Client struct {
	baseURL       string
	userAgent     string
	timeout       time.Duration
	httpClient    HTTPDoer
	rateLimiter   *ratelimit.Limiter
	retryAttempts int
	cache         *cache.CacheDB
	cacheTTL      time.Duration
}

// NewClient creates a new Gutendex API client.
func NewClient(opts ...Option) *Client {
	client := &Client{
		baseURL:       defaultBaseURL,
		userAgent:     defaultUserAgent,
		timeout:       defaultTimeout,
		rateLimiter:   ratelimit.Every("Gutendex", defaultRateInterval),
		retryAttempts: defaultMaxAttempts,
		cacheTTL:      defaultCacheTTL,
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: client.timeout}
	}

	return client
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c HTTPDoer) Option {
	return func(client *Client) {
		if c != nil {
			client.httpClient = c
		}
	}
}

// WithBaseURL sets a custom search endpoint.
func WithBaseURL(base string) Option {
	return func(client *Client) {
		if base != "" {
			client.baseURL = base
		}
	}
}

// WithTimeout sets the request timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(client *Client) {
		if timeout > 0 {
			client.timeout = timeout
		}
	}
}

// WithRetryAttempts sets the number of attempts for requests that fail
// with a timeout or connection error. The default is a single attempt.
func WithRetryAttempts(attempts int) Option {
	return func(client *Client) {
		if attempts > 0 {
			client.retryAttempts = attempts
		}
	}
}

// WithRateLimiter replaces the request limiter. A nil limiter disables
// throttling.
func WithRateLimiter(limiter *ratelimit.Limiter) Option {
	return func(client *Client) {
		client.rateLimiter = limiter
	}
}

// WithCache stores decoded search responses in c for ttl.
func WithCache(c *cache.CacheDB, ttl time.Duration) Option {
	return func(client *Client) {
		client.cache = c
		if ttl > 0 {
			client.cacheTTL = ttl
		}
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(userAgent string) Option {
	return func(client *Client) {
		if userAgent != "" {
			client.userAgent = userAgent
		}
	}
}
