package testutil

import (
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

// NewIPv4TestServer starts a test server bound to IPv4 loopback to avoid IPv6 listener issues.
func NewIPv4TestServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()

	listener, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen on IPv4 loopback: %v", err)
	}

	server := httptest.NewUnstartedServer(handler)
	server.Listener = listener
	server.Start()

	t.Cleanup(server.Close)
	return server
}

// CatalogServer is a fake Gutendex endpoint that serves a fixed JSON body
// and counts requests.
type CatalogServer struct {
	*httptest.Server
	hits     atomic.Int32
	lastPath atomic.Value
}

// NewCatalogServer serves body with the given status for every request.
func NewCatalogServer(t *testing.T, status int, body string) *CatalogServer {
	t.Helper()

	cs := &CatalogServer{}
	cs.lastPath.Store("")
	cs.Server = NewIPv4TestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cs.hits.Add(1)
		cs.lastPath.Store(r.URL.RequestURI())
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	return cs
}

// Hits returns the number of requests served.
func (cs *CatalogServer) Hits() int {
	return int(cs.hits.Load())
}

// LastRequestURI returns the path and raw query of the most recent request.
func (cs *CatalogServer) LastRequestURI() string {
	return cs.lastPath.Load().(string)
}

// FrankensteinPayload is a single-result Gutendex response used across tests.
const FrankensteinPayload = `{
  "count": 1,
  "next": null,
  "previous": null,
  "results": [
    {
      "id": 84,
      "title": "Frankenstein; Or, The Modern Prometheus",
      "authors": [
        {"name": "Shelley, Mary Wollstonecraft", "birth_year": 1797, "death_year": 1851}
      ],
      "translators": [],
      "subjects": ["Science fiction"],
      "languages": ["en"],
      "copyright": false,
      "media_type": "Text",
      "download_count": 50000
    }
  ]
}`
