package cache

// SQL schemas for cache tables
// All cache tables use "cache_key" as the primary key column and store the
// insertion time as unix seconds.

// GutendexCacheSchema defines the schema for raw Gutendex search responses
const GutendexCacheSchema = `
CREATE TABLE IF NOT EXISTS gutendex_cache (
	cache_key TEXT PRIMARY KEY NOT NULL,
	data TEXT NOT NULL,
	cached_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_gutendex_cached_at ON gutendex_cache(cached_at);
`

// GutendexTable is the cache table for catalog search responses
const GutendexTable = "gutendex_cache"

// AllCacheSchemas contains all cache table schemas for easy initialization
var AllCacheSchemas = []string{
	GutendexCacheSchema,
}

// ValidCacheTableNames is the whitelist of allowed cache table names
// Used to prevent SQL injection when interpolating table names
var ValidCacheTableNames = map[string]bool{
	GutendexTable: true,
}
