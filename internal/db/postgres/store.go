package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the pgx database/sql driver

	"github.com/kailas-cloud/fuzzdex/internal/db"
	"github.com/kailas-cloud/fuzzdex/internal/metrics"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

const backend = string(db.DialectPostgres)

// Config holds connection parameters for a Postgres store.
type Config struct {
	// DSN is a libpq connection string or postgres:// URL.
	DSN string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Store implements db.Store on PostgreSQL via pgx. The rendered queries
// call similarity and word_similarity directly, so the target database
// needs the pg_trgm extension; WaitForReady verifies it is installed.
type Store struct {
	sqldb *sql.DB
}

// NewStore opens a Postgres store. The connection is established lazily;
// call WaitForReady or Ping to verify it.
func NewStore(cfg Config) (*Store, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("dsn is required")
	}

	sqldb, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		return nil, &db.Error{Op: db.OpOpen, Err: err}
	}

	if cfg.MaxOpenConns > 0 {
		sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqldb.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqldb.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	return &Store{sqldb: sqldb}, nil
}

// Search executes the rendered select and scans the hit rows.
func (s *Store) Search(ctx context.Context, q *db.SearchQuery) (*db.SearchResult, error) {
	stmt, args, err := db.BuildSelect(db.DialectPostgres, q)
	if err != nil {
		return nil, err
	}

	start := time.Now()

	rows, err := s.sqldb.QueryContext(ctx, stmt, args...)
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(q.Table, backend, "error").Inc()
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	defer rows.Close()

	entries, err := db.ScanEntries(rows, q.Columns)
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(q.Table, backend, "error").Inc()
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}

	metrics.SearchRequestsTotal.WithLabelValues(q.Table, backend, "success").Inc()
	metrics.SearchRequestDuration.WithLabelValues(q.Table, backend).Observe(time.Since(start).Seconds())

	return &db.SearchResult{Entries: entries}, nil
}

// Count executes the rendered count for the same predicate as Search.
func (s *Store) Count(ctx context.Context, q *db.SearchQuery) (int, error) {
	stmt, args, err := db.BuildCount(db.DialectPostgres, q)
	if err != nil {
		return 0, err
	}

	var n int
	if err := s.sqldb.QueryRowContext(ctx, stmt, args...).Scan(&n); err != nil {
		return 0, &db.Error{Op: db.OpCount, Err: err}
	}
	return n, nil
}

// Exec runs a statement outside the search path, for schema setup and
// seeding.
func (s *Store) Exec(ctx context.Context, stmt string, args ...any) error {
	if _, err := s.sqldb.ExecContext(ctx, stmt, args...); err != nil {
		return &db.Error{Op: db.OpExec, Err: err}
	}
	return nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.sqldb.PingContext(ctx); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close shuts down the connection pool.
func (s *Store) Close() {
	_ = s.sqldb.Close()
}

// WaitForReady polls Ping until the server responds or timeout expires,
// then verifies the trigram functions are callable.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := s.Ping(ctx); err == nil {
		return s.checkTrgm(ctx)
	}

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for database: %w", ctx.Err())
		case <-ticker.C:
			if err := s.Ping(ctx); err == nil {
				return s.checkTrgm(ctx)
			}
		}
	}
}

// checkTrgm fails fast when pg_trgm is missing, instead of surfacing an
// undefined-function error on the first search.
func (s *Store) checkTrgm(ctx context.Context) error {
	var v float64
	err := s.sqldb.QueryRowContext(ctx, `SELECT similarity('trigram', 'trigram')`).Scan(&v)
	if err != nil {
		return fmt.Errorf("pg_trgm extension is not available (run CREATE EXTENSION pg_trgm): %w", err)
	}
	return nil
}
