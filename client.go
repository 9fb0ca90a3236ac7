package fuzzdex

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/fuzzdex/internal/cache"
	"github.com/kailas-cloud/fuzzdex/internal/db"
	"github.com/kailas-cloud/fuzzdex/internal/db/postgres"
	"github.com/kailas-cloud/fuzzdex/internal/db/sqlite"
	"github.com/kailas-cloud/fuzzdex/internal/domain"
	"github.com/kailas-cloud/fuzzdex/internal/domain/schema"
	"github.com/kailas-cloud/fuzzdex/internal/repository/resultcache"
	searchrepo "github.com/kailas-cloud/fuzzdex/internal/repository/search"
	searchuc "github.com/kailas-cloud/fuzzdex/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Client is the fuzzdex SDK entry point.
type Client struct {
	store    db.Store
	cache    cache.Cache
	catalog  schema.Catalog
	searcher domain.Searcher
	dialect  db.Dialect
	defaults searchDefaults
	logger   *zap.Logger
}

// searchDefaults are client-wide fallbacks applied when a builder leaves
// a parameter unset. Zero values defer to the request package defaults.
type searchDefaults struct {
	minWordSimilarity float64
	minSimilarity     float64
	limit             int
}

// New creates a fuzzdex Client and connects to the search store.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o(cfg)
	}

	if cfg.driver == "" {
		return nil, errors.New("fuzzdex: search store required (use WithSQLite or WithPostgres)")
	}
	if len(cfg.tables) == 0 {
		return nil, errors.New("fuzzdex: at least one searchable table required (use WithTable)")
	}
	if cfg.defaultMinWordSimilarity < 0 || cfg.defaultMinWordSimilarity > 1 {
		return nil, errors.New("fuzzdex: default min_word_similarity must be between 0 and 1")
	}
	if cfg.defaultMinSimilarity < 0 || cfg.defaultMinSimilarity > 1 {
		return nil, errors.New("fuzzdex: default min_similarity must be between 0 and 1")
	}

	catalog, err := buildCatalog(cfg.tables)
	if err != nil {
		return nil, err
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("fuzzdex: search store not ready: %w", err)
	}

	return wireClient(store, catalog, cfg)
}

func buildCatalog(specs []tableSpec) (schema.Catalog, error) {
	tables := make([]schema.Table, 0, len(specs))
	for _, ts := range specs {
		if ts.err != nil {
			return schema.Catalog{}, fmt.Errorf("fuzzdex: table %q: %w", ts.name, ts.err)
		}
		t, err := schema.New(ts.name, ts.key, ts.columns)
		if err != nil {
			return schema.Catalog{}, fmt.Errorf("fuzzdex: table %q: %w", ts.name, err)
		}
		tables = append(tables, t)
	}
	catalog, err := schema.NewCatalog(tables...)
	if err != nil {
		return schema.Catalog{}, fmt.Errorf("fuzzdex: %w", err)
	}
	return catalog, nil
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case "sqlite":
		s, err := sqlite.NewStore(sqlite.Config{Path: cfg.sqlitePath})
		if err != nil {
			return nil, fmt.Errorf("fuzzdex: create sqlite store: %w", err)
		}
		return s, nil
	case "postgres":
		s, err := postgres.NewStore(postgres.Config{DSN: cfg.postgresDSN})
		if err != nil {
			return nil, fmt.Errorf("fuzzdex: create postgres store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("fuzzdex: unknown driver %q", cfg.driver)
	}
}

func wireClient(store db.Store, catalog schema.Catalog, cfg *clientConfig) (*Client, error) {
	logger := cfg.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	repo := searchrepo.New(store)
	svc := searchuc.New(repo, catalog)

	var searcher domain.Searcher = svc
	var cch cache.Cache
	switch cfg.cacheBackend {
	case "memory":
		cch = cache.NewMemory(cfg.cacheSize, cfg.cacheTTL)
	case "redis":
		r, err := cache.NewRedis(cache.RedisConfig{
			Addrs:    []string{cfg.redisAddr},
			Password: cfg.redisPassword,
			TTL:      cfg.cacheTTL,
		})
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("fuzzdex: create redis cache: %w", err)
		}
		cch = r
	}
	if cch != nil {
		// No metrics counter here: metric registration belongs to the
		// server binary, not an embedded library.
		searcher = resultcache.New(svc, cch, nil, logger)
	}

	return &Client{
		store:    store,
		cache:    cch,
		catalog:  catalog,
		searcher: searcher,
		dialect:  db.Dialect(cfg.driver),
		defaults: searchDefaults{
			minWordSimilarity: cfg.defaultMinWordSimilarity,
			minSimilarity:     cfg.defaultMinSimilarity,
			limit:             cfg.defaultLimit,
		},
		logger: logger,
	}, nil
}

// Close releases the store and cache connections.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
	if c.cache != nil {
		c.cache.Close()
	}
}

// Ping checks search store connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Search returns a fluent search builder for the given table.
func (c *Client) Search(table string) *SearchBuilder {
	return &SearchBuilder{client: c, table: table}
}

// Tables returns the searchable tables in registration order.
func (c *Client) Tables() []schema.Table {
	return c.catalog.Tables()
}
