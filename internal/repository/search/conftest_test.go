package search

import (
	"context"
	"testing"

	"github.com/kailas-cloud/fuzzdex/internal/db"
	"github.com/kailas-cloud/fuzzdex/internal/domain/schema"
	"github.com/kailas-cloud/fuzzdex/internal/domain/search/request"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	searchFn func(ctx context.Context, q *db.SearchQuery) (*db.SearchResult, error)
	countFn  func(ctx context.Context, q *db.SearchQuery) (int, error)
}

func (m *mockStore) Search(ctx context.Context, q *db.SearchQuery) (*db.SearchResult, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) Count(ctx context.Context, q *db.SearchQuery) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx, q)
	}
	return 0, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms), ms
}

func mustTable(t *testing.T) schema.Table {
	t.Helper()
	tbl, err := schema.New("people", "id", []string{"name", "city"})
	if err != nil {
		t.Fatalf("schema.New: %v", err)
	}
	return tbl
}

func mustRequest(t *testing.T, raw string, fields []string, opts ...request.Option) request.Request {
	t.Helper()
	req, err := request.New(raw, fields, opts...)
	if err != nil {
		t.Fatalf("request.New: %v", err)
	}
	return req
}
