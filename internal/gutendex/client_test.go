package gutendex

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lepinkainen/gutenshelf/internal/cache"
	apperrors "github.com/lepinkainen/gutenshelf/internal/errors"
	"github.com/lepinkainen/gutenshelf/internal/ratelimit"
	"github.com/lepinkainen/gutenshelf/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type timeoutError struct{}

func (timeoutError) Error() string   { return "timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

type flakyDoer struct {
	calls int
}

func (f *flakyDoer) Do(req *http.Request) (*http.Response, error) {
	f.calls++
	if f.calls == 1 {
		return nil, &url.Error{Op: "Get", URL: req.URL.String(), Err: timeoutError{}}
	}
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(`{"results": []}`)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}, nil
}

func newTestClient(baseURL string, opts ...Option) *Client {
	base := []Option{WithBaseURL(baseURL), WithRateLimiter(nil)}
	return NewClient(append(base, opts...)...)
}

func TestClientOptionsApply(t *testing.T) {
	customHTTP := &http.Client{}
	limiter := ratelimit.New("Gutendex", 2)

	client := NewClient(
		WithBaseURL("https://example.test/books/"),
		WithHTTPClient(customHTTP),
		WithRetryAttempts(3),
		WithRateLimiter(limiter),
		WithUserAgent("tests/1.0"),
	)

	require.Equal(t, "https://example.test/books/", client.baseURL)
	require.Equal(t, customHTTP, client.httpClient)
	require.Equal(t, 3, client.retryAttempts)
	require.Equal(t, limiter, client.rateLimiter)
	require.Equal(t, "tests/1.0", client.userAgent)
}

func TestNewClientDefaults(t *testing.T) {
	client := NewClient(WithTimeout(5 * time.Second))

	assert.Equal(t, defaultBaseURL, client.baseURL)
	assert.Equal(t, 1, client.retryAttempts)
	assert.NotNil(t, client.rateLimiter)

	httpClient, ok := client.httpClient.(*http.Client)
	require.True(t, ok)
	assert.Equal(t, 5*time.Second, httpClient.Timeout)
}

func TestSearchURLEncodesSpaces(t *testing.T) {
	client := NewClient(WithBaseURL("https://gutendex.com/books/"))

	tests := []struct {
		query    string
		expected string
	}{
		{query: "frankenstein", expected: "https://gutendex.com/books/?search=frankenstein"},
		{query: "pride and prejudice", expected: "https://gutendex.com/books/?search=pride%20and%20prejudice"},
		{query: "war & peace", expected: "https://gutendex.com/books/?search=war%20%26%20peace"},
		{query: "c++", expected: "https://gutendex.com/books/?search=c%2B%2B"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.expected, client.SearchURL(tt.query))
		})
	}

	withQuery := NewClient(WithBaseURL("https://gutendex.com/books/?languages=en"))
	assert.Equal(t, "https://gutendex.com/books/?languages=en&search=dracula", withQuery.SearchURL("dracula"))
}

func TestFetchRawSendsSingleGET(t *testing.T) {
	server := testutil.NewCatalogServer(t, http.StatusOK, testutil.FrankensteinPayload)
	client := newTestClient(server.URL + "/books/")

	body, err := client.FetchRaw(context.Background(), "modern prometheus")
	require.NoError(t, err)

	assert.Equal(t, 1, server.Hits())
	assert.Equal(t, "/books/?search=modern%20prometheus", server.LastRequestURI())
	assert.Contains(t, string(body), "Frankenstein")
}

func TestSearchDecodesResults(t *testing.T) {
	server := testutil.NewCatalogServer(t, http.StatusOK, testutil.FrankensteinPayload)
	client := newTestClient(server.URL + "/books/")

	resp, err := client.Search(context.Background(), "frankenstein")
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "Frankenstein; Or, The Modern Prometheus", resp.Results[0].Title)
}

func TestSearchStatusError(t *testing.T) {
	server := testutil.NewCatalogServer(t, http.StatusInternalServerError, "oops")
	client := newTestClient(server.URL + "/books/")

	_, err := client.Search(context.Background(), "frankenstein")
	require.Error(t, err)

	var remoteErr *apperrors.RemoteError
	require.True(t, errors.As(err, &remoteErr))
	assert.Equal(t, http.StatusInternalServerError, remoteErr.StatusCode)
	assert.Contains(t, err.Error(), "oops")
}

func TestSearchRateLimited(t *testing.T) {
	server := testutil.NewIPv4TestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	client := newTestClient(server.URL + "/books/")

	_, err := client.Search(context.Background(), "frankenstein")
	require.Error(t, err)

	var rlErr *apperrors.RateLimitError
	require.True(t, errors.As(err, &rlErr))
	assert.Equal(t, 30*time.Second, rlErr.RetryAfter)
}

func TestSearchMalformedBody(t *testing.T) {
	server := testutil.NewCatalogServer(t, http.StatusOK, `{"results": [`)
	client := newTestClient(server.URL + "/books/")

	_, err := client.Search(context.Background(), "frankenstein")
	require.Error(t, err)
	assert.True(t, apperrors.IsDecodeError(err))
}

func TestSearchTransportError(t *testing.T) {
	server := testutil.NewCatalogServer(t, http.StatusOK, "{}")
	base := server.URL + "/books/"
	server.Close()

	client := newTestClient(base)
	_, err := client.Search(context.Background(), "frankenstein")
	require.Error(t, err)
	assert.True(t, apperrors.IsRemoteError(err))
}

func TestGetBodyRetriesOnTimeoutWhenEnabled(t *testing.T) {
	doer := &flakyDoer{}
	client := newTestClient("http://example.test/books/", WithHTTPClient(doer), WithRetryAttempts(2))

	body, err := client.getBody(context.Background(), "http://example.test/books/?search=x")
	require.NoError(t, err)
	assert.Equal(t, 2, doer.calls)
	assert.JSONEq(t, `{"results": []}`, string(body))
}

func TestGetBodyDoesNotRetryByDefault(t *testing.T) {
	doer := &flakyDoer{}
	client := newTestClient("http://example.test/books/", WithHTTPClient(doer))

	_, err := client.getBody(context.Background(), "http://example.test/books/?search=x")
	require.Error(t, err)
	assert.Equal(t, 1, doer.calls)
	assert.True(t, apperrors.IsRemoteError(err))
}

func TestSearchUsesCache(t *testing.T) {
	server := testutil.NewCatalogServer(t, http.StatusOK, testutil.FrankensteinPayload)
	env := testutil.NewTestEnv(t)

	c, err := cache.Open(filepath.Join(env.RootDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	client := newTestClient(server.URL+"/books/", WithCache(c, time.Hour))

	first, err := client.Search(context.Background(), "Frankenstein")
	require.NoError(t, err)
	second, err := client.Search(context.Background(), "  frankenstein ")
	require.NoError(t, err)

	assert.Equal(t, 1, server.Hits())
	assert.Equal(t, first, second)
	require.NotNil(t, second.Results[0].Authors[0].BirthYear)
	assert.Equal(t, 1797, *second.Results[0].Authors[0].BirthYear)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, isRetryable(&url.Error{Err: timeoutError{}}))
	assert.True(t, isRetryable(&url.Error{Err: errors.New("connection reset by peer")}))
	assert.False(t, isRetryable(&url.Error{Err: errors.New("bad request")}))
	assert.False(t, isRetryable(errors.New("plain")))
}

func TestBackoffDelayCaps(t *testing.T) {
	assert.Equal(t, 1*time.Second, backoffDelay(1))
	assert.Equal(t, 2*time.Second, backoffDelay(2))
	assert.Equal(t, 10*time.Second, backoffDelay(5))
}

func TestParseRetryAfter(t *testing.T) {
	assert.Equal(t, 5*time.Second, parseRetryAfter("5"))
	assert.Equal(t, time.Duration(0), parseRetryAfter(""))
	assert.Equal(t, time.Duration(0), parseRetryAfter("Wed, 21 Oct 2015 07:28:00 GMT"))
}
