// Package cache implements a Redis-backed cache for tour listings,
// mirroring the original system's cached catalog queries.  A missing or
// unreachable Redis server degrades to uncached reads; caching must
// never turn into request failure.
package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tourio/travel-reservation-api/internal/model"
)

// TourCache stores whole tour listings as JSON under a common prefix so
// a single SCAN+DEL invalidates everything at once.  All operations are
// nil-safe: a TourCache built over a nil client is a no-op.
type TourCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewTourCache builds a cache over client, which may be nil to disable
// caching.  Keys live under prefix; entries expire after ttl.
func NewTourCache(client *redis.Client, prefix string, ttl time.Duration) *TourCache {
	if prefix == "" {
		prefix = "tours"
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &TourCache{client: client, prefix: prefix, ttl: ttl}
}

func (c *TourCache) key(name string) string { return c.prefix + ":" + name }

// Get returns the cached listing under key, reporting a miss on any
// error so callers fall through to storage.
func (c *TourCache) Get(ctx context.Context, key string) ([]model.Tour, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		return nil, false
	}
	var tours []model.Tour
	if err := json.Unmarshal(raw, &tours); err != nil {
		return nil, false
	}
	return tours, true
}

// Set stores the listing under key with the configured TTL.  Failures
// only log; the caller already has the data.
func (c *TourCache) Set(ctx context.Context, key string, tours []model.Tour) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(tours)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, c.key(key), raw, c.ttl).Err(); err != nil {
		log.Printf("cache: set %s failed: %v", c.key(key), err)
	}
}

// Invalidate drops every cached listing.  Called after any tour or
// capacity mutation so stale availability is never served.
func (c *TourCache) Invalidate(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	iter := c.client.Scan(ctx, 0, c.prefix+":*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			log.Printf("cache: del %s failed: %v", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		log.Printf("cache: invalidate scan failed: %v", err)
	}
}
