package domain

import (
	"context"

	"github.com/kailas-cloud/fuzzdex/internal/domain/search/request"
	"github.com/kailas-cloud/fuzzdex/internal/domain/search/result"
)

// Searcher is the shared search contract between layers. The search
// service implements it, the result cache decorates it, and the transport
// and SDK consume it.
type Searcher interface {
	Search(ctx context.Context, table string, req request.Request) (result.Set, error)
}
