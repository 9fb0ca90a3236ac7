package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/kailas-cloud/fuzzdex/internal/db"
	"github.com/kailas-cloud/fuzzdex/internal/metrics"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

const memoryPath = ":memory:"

const backend = string(db.DialectSQLite)

// Config holds connection parameters for a SQLite store.
type Config struct {
	// Path is the database file. The literal ":memory:" (or an empty
	// path) opens a private in-memory database.
	Path string
}

// Store implements db.Store on an embedded SQLite database via the
// modernc driver. The trigram primitives are registered on the driver at
// construction, so rendered queries call similarity and word_similarity
// exactly as they would on Postgres.
type Store struct {
	sqldb *sql.DB
}

// NewStore opens a SQLite store and registers the search functions.
func NewStore(cfg Config) (*Store, error) {
	registerFunctions()

	path := cfg.Path
	if path == "" {
		path = memoryPath
	}

	dsn := path
	if path != memoryPath {
		dsn = "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
	}

	sqldb, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, &db.Error{Op: db.OpOpen, Err: err}
	}

	if path == memoryPath {
		// Every pool connection would otherwise receive its own private
		// in-memory database.
		sqldb.SetMaxOpenConns(1)
	}

	return &Store{sqldb: sqldb}, nil
}

// Search executes the rendered select and scans the hit rows.
func (s *Store) Search(ctx context.Context, q *db.SearchQuery) (*db.SearchResult, error) {
	stmt, args, err := db.BuildSelect(db.DialectSQLite, q)
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
	stmt, args, err := db.BuildCount(db.DialectSQLite, q)
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

// WaitForReady polls Ping until the store responds or timeout expires.
// An embedded database answers immediately; the method exists to keep
// the db.Store contract uniform across backends.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := s.Ping(ctx); err == nil {
		return nil
	}

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for database: %w", ctx.Err())
		case <-ticker.C:
			if err := s.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}
