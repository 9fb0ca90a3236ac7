package search

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/fuzzdex/internal/domain"
	"github.com/kailas-cloud/fuzzdex/internal/domain/schema"
	"github.com/kailas-cloud/fuzzdex/internal/domain/search/rank"
	"github.com/kailas-cloud/fuzzdex/internal/domain/search/request"
	"github.com/kailas-cloud/fuzzdex/internal/domain/search/result"
)

// Service executes fuzzy searches against the configured table catalog.
type Service struct {
	repo    Repository
	catalog schema.Catalog
}

// New creates a search service.
func New(repo Repository, catalog schema.Catalog) *Service {
	return &Service{repo: repo, catalog: catalog}
}

// Search resolves the table, checks the requested fields against its
// column allow-list, and runs the query. With ExactFirst the service
// tries case-folded equality first and falls back to the fuzzy predicate
// only when the exact pass returns nothing.
func (s *Service) Search(ctx context.Context, table string, req request.Request) (result.Set, error) {
	tbl, ok := s.catalog.Get(table)
	if !ok {
		return result.Set{}, fmt.Errorf("%w: %s", domain.ErrTableNotFound, table)
	}

	for _, f := range req.Fields() {
		if !tbl.HasColumn(f) {
			return result.Set{}, domain.NewUnknownField(f, table)
		}
	}

	if req.ExactFirst() {
		set, err := s.run(ctx, tbl, req, true)
		if err != nil {
			return result.Set{}, err
		}
		if !set.IsEmpty() {
			return set, nil
		}
	}

	return s.run(ctx, tbl, req, false)
}

// run executes the page select and the total count in parallel and
// assembles the result set.
func (s *Service) run(ctx context.Context, tbl schema.Table, req request.Request, exactOnly bool) (result.Set, error) {
	var (
		matches []result.Match
		total   int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		matches, err = s.repo.Search(gctx, tbl, req, exactOnly)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.repo.Count(gctx, tbl, req, exactOnly)
		return err
	})
	if err := g.Wait(); err != nil {
		return result.Set{}, fmt.Errorf("execute search: %w", err)
	}

	// Stores return pages already ordered; re-ordering is a stable no-op
	// there and keeps the descending-relevance contract independent of the
	// backend.
	rank.Order(matches)

	return result.NewSet(total, matches), nil
}
