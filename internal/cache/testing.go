package cache

import (
	"time"

	"github.com/redis/rueidis"
)

// NewRedisForTest creates a Redis cache with the provided rueidis client (test-only).
func NewRedisForTest(c rueidis.Client, ttl time.Duration) *Redis {
	return &Redis{client: c, ttl: ttl}
}
