// Package resultcache decorates a searcher with a TTL result cache.
package resultcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/fuzzdex/internal/cache"
	"github.com/kailas-cloud/fuzzdex/internal/domain"
	"github.com/kailas-cloud/fuzzdex/internal/domain/search/request"
	"github.com/kailas-cloud/fuzzdex/internal/domain/search/result"
)

var cacheKeyPrefix = domain.KeyPrefix + "search_cache:"

// store is the consumer interface for the result cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// CachedSearcher caches result sets in a key-value store. The key covers
// every request parameter that can change the answer, computed over the
// normalized term, so raw inputs that normalize to the same phrase share
// one entry. Entry lifetime is the store's TTL; there is no invalidation.
type CachedSearcher struct {
	inner      domain.Searcher
	store      store
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner domain.Searcher,
	s store,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedSearcher {
	return &CachedSearcher{
		inner:      inner,
		store:      s,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Search returns a cached result set or calls the inner searcher. Cache
// failures degrade to a miss and never fail the search.
func (c *CachedSearcher) Search(ctx context.Context, table string, req request.Request) (result.Set, error) {
	key := cacheKey(table, req)

	if set, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return set, nil
	}

	c.incCache("miss")

	set, err := c.inner.Search(ctx, table, req)
	if err != nil {
		return result.Set{}, fmt.Errorf("search %s: %w", table, err)
	}

	c.putToCache(ctx, key, set)
	return set, nil
}

func (c *CachedSearcher) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func cacheKey(table string, req request.Request) string {
	var b strings.Builder
	b.WriteString(table)
	b.WriteByte('\n')
	b.WriteString(req.Term().String())
	b.WriteByte('\n')
	b.WriteString(strings.Join(req.Fields(), ","))
	b.WriteByte('\n')
	b.WriteString(strconv.FormatFloat(req.MinWordSimilarity(), 'g', -1, 64))
	b.WriteByte('\n')
	b.WriteString(strconv.FormatFloat(req.MinSimilarity(), 'g', -1, 64))
	b.WriteByte('\n')
	b.WriteString(strconv.Itoa(req.Limit()))
	b.WriteByte('\n')
	b.WriteString(strconv.FormatBool(req.ExactFirst()))

	h := sha256.Sum256([]byte(b.String()))
	return cacheKeyPrefix + hex.EncodeToString(h[:])
}

func (c *CachedSearcher) getFromCache(ctx context.Context, key string) (result.Set, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrNotFound) {
			c.logger.Warn("Failed to get cached result set", zap.String("key", key), zap.Error(err))
		}
		return result.Set{}, false
	}
	if len(data) == 0 {
		return result.Set{}, false
	}

	set, err := bytesToSet(data)
	if err != nil {
		c.logger.Warn("Failed to parse cached result set", zap.String("key", key), zap.Error(err))
		return result.Set{}, false
	}

	return set, true
}

func (c *CachedSearcher) putToCache(ctx context.Context, key string, set result.Set) {
	data, err := setToCacheBytes(set)
	if err != nil {
		c.logger.Warn("Failed to encode result set", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.Set(ctx, key, data); err != nil {
		c.logger.Warn("Failed to cache result set", zap.String("key", key), zap.Error(err))
	}
}

type setPayload struct {
	Total   int            `json:"total"`
	Matches []matchPayload `json:"matches"`
}

type matchPayload struct {
	Key       string            `json:"key"`
	Fields    map[string]string `json:"fields,omitempty"`
	Relevance float64           `json:"relevance"`
}

func setToCacheBytes(set result.Set) ([]byte, error) {
	payload := setPayload{
		Total:   set.Total(),
		Matches: make([]matchPayload, 0, len(set.Matches())),
	}
	for _, m := range set.Matches() {
		payload.Matches = append(payload.Matches, matchPayload{
			Key:       m.Key(),
			Fields:    m.Fields(),
			Relevance: m.Relevance(),
		})
	}
	return json.Marshal(payload)
}

func bytesToSet(data []byte) (result.Set, error) {
	var payload setPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return result.Set{}, fmt.Errorf("invalid result cache data: %w", err)
	}
	matches := make([]result.Match, 0, len(payload.Matches))
	for _, m := range payload.Matches {
		matches = append(matches, result.New(m.Key, m.Fields, m.Relevance))
	}
	return result.NewSet(payload.Total, matches), nil
}
