package search

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/fuzzdex/internal/db"
	"github.com/kailas-cloud/fuzzdex/internal/domain/schema"
	"github.com/kailas-cloud/fuzzdex/internal/domain/search/predicate"
	"github.com/kailas-cloud/fuzzdex/internal/domain/search/rank"
	"github.com/kailas-cloud/fuzzdex/internal/domain/search/request"
	"github.com/kailas-cloud/fuzzdex/internal/domain/search/result"
)

// store is the consumer interface for search operations (ISP).
type store interface {
	Search(ctx context.Context, q *db.SearchQuery) (*db.SearchResult, error)
	Count(ctx context.Context, q *db.SearchQuery) (int, error)
}

// Repo implements usecase/search.Repository.
type Repo struct {
	store store
}

// New creates a search repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Search runs the candidate query for req against table and returns the
// scored page in store order: descending relevance, key ascending on ties.
func (r *Repo) Search(ctx context.Context, table schema.Table, req request.Request, exactOnly bool) ([]result.Match, error) {
	sr, err := r.store.Search(ctx, BuildQuery(table, req, exactOnly))
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", table.Name(), err)
	}
	return parseEntries(sr), nil
}

// Count returns how many rows the predicate admits, ignoring the limit.
func (r *Repo) Count(ctx context.Context, table schema.Table, req request.Request, exactOnly bool) (int, error) {
	n, err := r.store.Count(ctx, BuildQuery(table, req, exactOnly))
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", table.Name(), err)
	}
	return n, nil
}

// BuildQuery assembles the backend-agnostic query description for one
// request: the predicate and ordering trees over the request's fields
// plus the values that bind at render time. Exported so callers that
// only want the rendered text (query inspection) share the exact shape
// the repository executes.
func BuildQuery(table schema.Table, req request.Request, exactOnly bool) *db.SearchQuery {
	return &db.SearchQuery{
		Table:             table.Name(),
		Key:               table.Key(),
		Columns:           table.Columns(),
		Predicate:         predicate.Compose(req.Fields()),
		Order:             rank.Compose(req.Fields()),
		Term:              req.Term(),
		MinWordSimilarity: req.MinWordSimilarity(),
		MinSimilarity:     req.MinSimilarity(),
		Limit:             req.Limit(),
		ExactOnly:         exactOnly,
	}
}

// parseEntries converts db.SearchResult into []result.Match.
func parseEntries(sr *db.SearchResult) []result.Match {
	if sr == nil || len(sr.Entries) == 0 {
		return nil
	}
	matches := make([]result.Match, 0, len(sr.Entries))
	for _, e := range sr.Entries {
		matches = append(matches, result.New(e.Key, e.Fields, e.Relevance))
	}
	return matches
}
