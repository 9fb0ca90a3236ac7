package fuzzdex

import (
	"time"

	"go.uber.org/zap"
)

// Option configures the Client.
type Option func(*clientConfig)

type clientConfig struct {
	driver      string // "sqlite" or "postgres"
	sqlitePath  string
	postgresDSN string

	tables []tableSpec

	defaultMinWordSimilarity float64
	defaultMinSimilarity     float64
	defaultLimit             int

	cacheBackend  string // "", "memory" or "redis"
	cacheSize     int
	cacheTTL      time.Duration
	redisAddr     string
	redisPassword string

	logger *zap.Logger
}

// tableSpec is a deferred table registration. Validation happens in New;
// a tag-derived spec carries its parse failure in err.
type tableSpec struct {
	name    string
	key     string
	columns []string
	err     error
}

// WithSQLite configures an embedded SQLite store. An empty path (or the
// literal ":memory:") opens a private in-memory database.
func WithSQLite(path string) Option {
	return func(c *clientConfig) {
		c.driver = "sqlite"
		c.sqlitePath = path
	}
}

// WithPostgres configures a PostgreSQL store. The target database needs
// the pg_trgm extension installed.
func WithPostgres(dsn string) Option {
	return func(c *clientConfig) {
		c.driver = "postgres"
		c.postgresDSN = dsn
	}
}

// WithTable registers a searchable table: its name, key column and the
// text columns searches may target. Only registered identifiers ever
// reach rendered SQL.
func WithTable(name, key string, columns ...string) Option {
	return func(c *clientConfig) {
		c.tables = append(c.tables, tableSpec{name: name, key: key, columns: columns})
	}
}

// WithTableFor registers a searchable table whose key and columns come
// from T's fuzzdex struct tags, for use with NewIndex.
func WithTableFor[T any](name string) Option {
	return func(c *clientConfig) {
		meta, err := parseSchema[T]()
		if err != nil {
			c.tables = append(c.tables, tableSpec{name: name, err: err})
			return
		}
		c.tables = append(c.tables, tableSpec{
			name:    name,
			key:     meta.keyName,
			columns: meta.columnNames(),
		})
	}
}

// WithDefaults sets client-wide fallbacks for the similarity thresholds
// and the result limit. Zero values defer to the built-in defaults
// (0.3, 0.2, 20); a per-search override on the builder always wins.
func WithDefaults(minWordSimilarity, minSimilarity float64, limit int) Option {
	return func(c *clientConfig) {
		c.defaultMinWordSimilarity = minWordSimilarity
		c.defaultMinSimilarity = minSimilarity
		c.defaultLimit = limit
	}
}

// WithMemoryCache caches result sets in-process: up to size entries for
// ttl each. A size of 0 means no entry limit.
func WithMemoryCache(size int, ttl time.Duration) Option {
	return func(c *clientConfig) {
		c.cacheBackend = "memory"
		c.cacheSize = size
		c.cacheTTL = ttl
	}
}

// WithRedisCache caches result sets in a shared Redis instance so
// several processes reuse each other's results.
func WithRedisCache(addr, password string, ttl time.Duration) Option {
	return func(c *clientConfig) {
		c.cacheBackend = "redis"
		c.redisAddr = addr
		c.redisPassword = password
		c.cacheTTL = ttl
	}
}

// WithLogger enables structured logging for cache degradation warnings.
// Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *clientConfig) {
		c.logger = l
	}
}
