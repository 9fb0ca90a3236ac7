package db

import (
	"context"
	"time"
)

// Store is the main database facade combining all sub-interfaces.
// Consumers depend on the narrow sub-interfaces, not on Store itself.
type Store interface {
	Pinger
	Searcher
	Execer
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Searcher executes rendered fuzzy-search descriptions.
type Searcher interface {
	Search(ctx context.Context, q *SearchQuery) (*SearchResult, error)
	Count(ctx context.Context, q *SearchQuery) (int, error)
}

// Execer runs write statements. Used by seeding and maintenance tooling,
// never by the query path.
type Execer interface {
	Exec(ctx context.Context, stmt string, args ...any) error
}
