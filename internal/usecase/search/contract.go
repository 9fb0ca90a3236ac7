package search

import (
	"context"

	"github.com/kailas-cloud/fuzzdex/internal/domain/schema"
	"github.com/kailas-cloud/fuzzdex/internal/domain/search/request"
	"github.com/kailas-cloud/fuzzdex/internal/domain/search/result"
)

// Repository defines the storage contract for search operations. The
// exactOnly flag selects case-folded equality instead of the fuzzy
// predicate; everything else about the query is identical.
type Repository interface {
	Search(ctx context.Context, table schema.Table, req request.Request, exactOnly bool) ([]result.Match, error)
	Count(ctx context.Context, table schema.Table, req request.Request, exactOnly bool) (int, error)
}
