package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Compile-time check: Memory implements Cache.
var _ Cache = (*Memory)(nil)

// Memory is an in-process cache on an expirable LRU. A size of 0 means
// no entry limit; eviction then happens on TTL alone.
type Memory struct {
	lru *expirable.LRU[string, []byte]
}

// NewMemory creates an in-process cache holding up to size entries for
// ttl each.
func NewMemory(size int, ttl time.Duration) *Memory {
	return &Memory{lru: expirable.NewLRU[string, []byte](size, nil, ttl)}
}

// Get returns the cached value or ErrNotFound.
func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m.lru.Get(key)
	if !ok {
		return nil, ErrNotFound
	}
	return v, nil
}

// Set stores the value under key.
func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.lru.Add(key, value)
	return nil
}

// Close is a no-op; the LRU's reaper goroutine stops when the cache is
// garbage collected.
func (m *Memory) Close() {}
