package resultcache

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/fuzzdex/internal/cache"
	"github.com/kailas-cloud/fuzzdex/internal/domain/search/request"
	"github.com/kailas-cloud/fuzzdex/internal/domain/search/result"
)

func sampleSet() result.Set {
	return result.NewSet(2, []result.Match{
		result.New("p1", map[string]string{"name": "João da Silva"}, 0.9),
		result.New("p4", map[string]string{"name": "Silvana Ramos"}, 0.4),
	})
}

func TestSearch_CacheMiss(t *testing.T) {
	inner := &mockSearcher{set: sampleSet()}
	cs, ms := newTestCachedSearcher(t, inner)
	ctx := context.Background()

	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return nil, cache.ErrNotFound
	}

	var setCalled bool
	ms.setFn = func(_ context.Context, _ string, value []byte) error {
		setCalled = true
		if len(value) == 0 {
			t.Error("expected encoded result set, got empty value")
		}
		return nil
	}

	set, err := cs.Search(ctx, "people", mustRequest(t, "silva", []string{"name"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.Total() != 2 || len(set.Matches()) != 2 {
		t.Fatalf("unexpected set: total=%d matches=%d", set.Total(), len(set.Matches()))
	}
	if set.Matches()[0].Key() != "p1" {
		t.Fatalf("unexpected first match: %q", set.Matches()[0].Key())
	}
	if !setCalled {
		t.Fatal("expected SET to be called for cache put")
	}
	if inner.calls != 1 {
		t.Fatalf("expected 1 inner call, got %d", inner.calls)
	}
}

func TestSearch_CacheHit(t *testing.T) {
	inner := &mockSearcher{set: sampleSet()}
	cs, ms := newTestCachedSearcher(t, inner)
	ctx := context.Background()

	cached, err := setToCacheBytes(result.NewSet(1, []result.Match{
		result.New("p9", map[string]string{"name": "Maria Souza"}, 0.7),
	}))
	if err != nil {
		t.Fatalf("encode fixture: %v", err)
	}

	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return cached, nil
	}

	set, err := cs.Search(ctx, "people", mustRequest(t, "maria", []string{"name"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.Total() != 1 || len(set.Matches()) != 1 {
		t.Fatalf("expected cached set, got total=%d matches=%d", set.Total(), len(set.Matches()))
	}
	m := set.Matches()[0]
	if m.Key() != "p9" || m.Relevance() != 0.7 || m.Field("name") != "Maria Souza" {
		t.Fatalf("cached match not restored: key=%q relevance=%v fields=%v", m.Key(), m.Relevance(), m.Fields())
	}
	if inner.calls != 0 {
		t.Fatalf("expected 0 inner calls on hit, got %d", inner.calls)
	}
}

func TestSearch_InnerError(t *testing.T) {
	innerErr := errors.New("backend down")
	inner := &mockSearcher{err: innerErr}
	cs, ms := newTestCachedSearcher(t, inner)
	ctx := context.Background()

	var setCalled bool
	ms.setFn = func(_ context.Context, _ string, _ []byte) error {
		setCalled = true
		return nil
	}

	_, err := cs.Search(ctx, "people", mustRequest(t, "silva", []string{"name"}))
	if !errors.Is(err, innerErr) {
		t.Fatalf("expected inner error, got %v", err)
	}
	if setCalled {
		t.Fatal("failed searches must not be cached")
	}
}

func TestSearch_CorruptEntryTreatedAsMiss(t *testing.T) {
	inner := &mockSearcher{set: sampleSet()}
	cs, ms := newTestCachedSearcher(t, inner)
	ctx := context.Background()

	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return []byte("{not json"), nil
	}

	set, err := cs.Search(ctx, "people", mustRequest(t, "silva", []string{"name"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls != 1 {
		t.Fatalf("expected fallthrough to inner, got %d calls", inner.calls)
	}
	if set.Total() != 2 {
		t.Fatalf("expected inner set, got total=%d", set.Total())
	}
}

func TestSearch_GetErrorDegradesToMiss(t *testing.T) {
	inner := &mockSearcher{set: sampleSet()}
	cs, ms := newTestCachedSearcher(t, inner)
	ctx := context.Background()

	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return nil, errors.New("redis timeout")
	}

	set, err := cs.Search(ctx, "people", mustRequest(t, "silva", []string{"name"}))
	if err != nil {
		t.Fatalf("cache failure must not fail the search: %v", err)
	}
	if inner.calls != 1 {
		t.Fatalf("expected 1 inner call, got %d", inner.calls)
	}
	if len(set.Matches()) != 2 {
		t.Fatalf("expected inner set, got %d matches", len(set.Matches()))
	}
}

func TestSearch_SetErrorNotFatal(t *testing.T) {
	inner := &mockSearcher{set: sampleSet()}
	cs, ms := newTestCachedSearcher(t, inner)
	ctx := context.Background()

	ms.setFn = func(_ context.Context, _ string, _ []byte) error {
		return errors.New("redis timeout")
	}

	set, err := cs.Search(ctx, "people", mustRequest(t, "silva", []string{"name"}))
	if err != nil {
		t.Fatalf("cache put failure must not fail the search: %v", err)
	}
	if set.Total() != 2 {
		t.Fatalf("expected inner set, got total=%d", set.Total())
	}
}

func TestCacheKey_SharedForEquivalentRawTerms(t *testing.T) {
	a := cacheKey("people", mustRequest(t, "João   da  Silva", []string{"name"}))
	b := cacheKey("people", mustRequest(t, "  joão da silva ", []string{"name"}))
	if a != b {
		t.Fatalf("raw terms normalizing to the same phrase must share a key:\n%s\n%s", a, b)
	}
}

func TestCacheKey_VariesWithParameters(t *testing.T) {
	base := cacheKey("people", mustRequest(t, "silva", []string{"name"}))

	variants := map[string]string{
		"table":      cacheKey("cities", mustRequest(t, "silva", []string{"name"})),
		"term":       cacheKey("people", mustRequest(t, "souza", []string{"name"})),
		"fields":     cacheKey("people", mustRequest(t, "silva", []string{"name", "city"})),
		"word sim":   cacheKey("people", mustRequest(t, "silva", []string{"name"}, request.WithMinWordSimilarity(0.5))),
		"full sim":   cacheKey("people", mustRequest(t, "silva", []string{"name"}, request.WithMinSimilarity(0.5))),
		"limit":      cacheKey("people", mustRequest(t, "silva", []string{"name"}, request.WithLimit(5))),
		"exact mode": cacheKey("people", mustRequest(t, "silva", []string{"name"}, request.WithExactFirst())),
	}
	for name, key := range variants {
		if key == base {
			t.Errorf("changing %s must change the cache key", name)
		}
	}
}
