package utils

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

const defaultCacheTTL = 5 * time.Minute

// Cache is a JSON cache over Redis. A Cache with a nil client misses on every read and
// ignores writes, so it can be used unconditionally.
type Cache struct {
	rc  *redis.Client
	ttl time.Duration
}

// NewCache wraps rc; ttl defaults to five minutes.
func NewCache(rc *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Cache{rc: rc, ttl: ttl}
}

// GetBytes returns the cached bytes for key.
func (c *Cache) GetBytes(ctx context.Context, key string) ([]byte, bool) {
	if c == nil || c.rc == nil {
		return nil, false
	}
	b, err := c.rc.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			Sugar.Debugf("cache get key=%s err=%v", key, err)
		}
		return nil, false
	}
	return b, true
}

// SetJSON marshals v and stores it under key.
func (c *Cache) SetJSON(ctx context.Context, key string, v interface{}) {
	if c == nil || c.rc == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		Sugar.Warnf("cache marshal key=%s err=%v", key, err)
		return
	}
	if err := c.rc.Set(ctx, key, b, c.ttl).Err(); err != nil {
		Sugar.Warnf("cache set failed key=%s err=%v", key, err)
	}
}

// Delete removes keys.
func (c *Cache) Delete(ctx context.Context, keys ...string) {
	if c == nil || c.rc == nil || len(keys) == 0 {
		return
	}
	if err := c.rc.Del(ctx, keys...).Err(); err != nil {
		Sugar.Warnf("cache delete failed keys=%v err=%v", keys, err)
	}
}
