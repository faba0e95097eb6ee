package gutendex

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/lepinkainen/gutenshelf/internal/cache"
)

// SearchURL builds the search request URL for a free-text title query.
// Spaces are sent as %20; other reserved characters are percent-escaped.
func (c *Client) SearchURL(query string) string {
	escaped := strings.ReplaceAll(url.QueryEscape(query), "+", "%20")

	sep := "?"
	if strings.Contains(c.baseURL, "?") {
		sep = "&"
	}
	return c.baseURL + sep + "search=" + escaped
}

// FetchRaw issues the search request and returns the raw response body.
func (c *Client) FetchRaw(ctx context.Context, query string) ([]byte, error) {
	return c.getBody(ctx, c.SearchURL(query))
}

// Search fetches and decodes the candidates for query. When a cache is
// configured, successfully decoded responses are reused until they expire.
func (c *Client) Search(ctx context.Context, query string) (*SearchResponse, error) {
	key := strings.ToLower(strings.TrimSpace(query))

	resp, fromCache, err := cache.GetOrFetch(c.cache, cache.GutendexTable, key, c.cacheTTL, func() (*SearchResponse, error) {
		body, err := c.FetchRaw(ctx, query)
		if err != nil {
			return nil, err
		}
		return Decode(body)
	})
	if err != nil {
		return nil, err
	}

	slog.Debug("Catalog search complete", "query", query, "results", len(resp.Results), "from_cache", fromCache)
	return resp, nil
}
