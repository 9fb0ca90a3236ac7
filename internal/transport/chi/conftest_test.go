package chi

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/fuzzdex/internal/domain/schema"
	"github.com/kailas-cloud/fuzzdex/internal/domain/search/request"
	"github.com/kailas-cloud/fuzzdex/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/fuzzdex/internal/usecase/health"
)

type mockSearcher struct {
	fn       func(ctx context.Context, table string, req request.Request) (result.Set, error)
	gotTable string
	gotReq   request.Request
}

func (m *mockSearcher) Search(ctx context.Context, table string, req request.Request) (result.Set, error) {
	m.gotTable = table
	m.gotReq = req
	if m.fn != nil {
		return m.fn(ctx, table, req)
	}
	return result.Set{}, nil
}

type stubPinger struct {
	err error
}

func (p *stubPinger) Ping(_ context.Context) error { return p.err }

func testCatalog(t *testing.T) schema.Catalog {
	t.Helper()
	people, err := schema.New("people", "id", []string{"name", "city"})
	if err != nil {
		t.Fatalf("build table: %v", err)
	}
	items, err := schema.New("items", "sku", []string{"title"})
	if err != nil {
		t.Fatalf("build table: %v", err)
	}
	cat, err := schema.NewCatalog(people, items)
	if err != nil {
		t.Fatalf("build catalog: %v", err)
	}
	return cat
}

func newTestServer(t *testing.T, searcher *mockSearcher, defaults Defaults) *Server {
	t.Helper()
	health := healthuc.New(&stubPinger{}, nil)
	return NewServer(searcher, testCatalog(t), health, defaults, zap.NewNop())
}

func newHealthWithDB(t *testing.T, dbErr error) *healthuc.Service {
	t.Helper()
	return healthuc.New(&stubPinger{err: dbErr}, nil)
}
