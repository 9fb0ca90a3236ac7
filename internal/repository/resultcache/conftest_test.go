package resultcache

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/fuzzdex/internal/cache"
	"github.com/kailas-cloud/fuzzdex/internal/domain/search/request"
	"github.com/kailas-cloud/fuzzdex/internal/domain/search/result"
)

type mockSearcher struct {
	set   result.Set
	err   error
	calls int
}

func (m *mockSearcher) Search(_ context.Context, _ string, _ request.Request) (result.Set, error) {
	m.calls++
	return m.set, m.err
}

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte) error
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, cache.ErrNotFound
}

func (m *mockKVStore) Set(ctx context.Context, key string, value []byte) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value)
	}
	return nil
}

func newTestCachedSearcher(t *testing.T, inner *mockSearcher) (*CachedSearcher, *mockKVStore) {
	t.Helper()
	ms := &mockKVStore{}
	cs := New(inner, ms, nil, zap.NewNop())
	return cs, ms
}

func mustRequest(t *testing.T, raw string, fields []string, opts ...request.Option) request.Request {
	t.Helper()
	req, err := request.New(raw, fields, opts...)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	return req
}
