package utils

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const blacklistPrefix = "jwt:blacklist:"

// TokenBlacklist revokes tokens until their natural expiry. Redis is used when available,
// otherwise revocations live in process memory.
type TokenBlacklist struct {
	rc  *redis.Client
	now func() time.Time

	mu     sync.RWMutex
	memory map[string]time.Time
}

// NewTokenBlacklist creates a blacklist; rc may be nil.
func NewTokenBlacklist(rc *redis.Client) *TokenBlacklist {
	return &TokenBlacklist{rc: rc, now: time.Now, memory: map[string]time.Time{}}
}

// Revoke blacklists token until expiresAt.
func (b *TokenBlacklist) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(b.now())
	if ttl <= 0 {
		return nil
	}
	if b.rc != nil {
		return b.rc.Set(ctx, blacklistPrefix+token, "1", ttl).Err()
	}
	b.mu.Lock()
	b.memory[token] = expiresAt
	b.mu.Unlock()
	return nil
}

// Revoked reports whether token was revoked. Redis errors fail open.
func (b *TokenBlacklist) Revoked(ctx context.Context, token string) bool {
	if b.rc != nil {
		n, err := b.rc.Exists(ctx, blacklistPrefix+token).Result()
		if err != nil {
			Sugar.Warnf("token blacklist lookup failed: %v", err)
			return false
		}
		return n > 0
	}

	b.mu.RLock()
	expiresAt, ok := b.memory[token]
	b.mu.RUnlock()
	if !ok {
		return false
	}
	if b.now().After(expiresAt) {
		b.mu.Lock()
		delete(b.memory, token)
		b.mu.Unlock()
		return false
	}
	return true
}
