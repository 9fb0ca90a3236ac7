// Package cache provides the byte-cache backends behind the search
// result cache: an in-process expirable LRU and a shared Redis cache.
package cache

import (
	"context"
	"errors"
)

// ErrNotFound is returned on a cache miss.
var ErrNotFound = errors.New("cache: key not found")

// Cache is a TTL'd byte store. Entry lifetime is fixed per backend at
// construction; an expired entry behaves as absent.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close()
}
