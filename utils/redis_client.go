package utils

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cppla/folio/config"
)

// NewRedis builds a client from config and pings it. A nil client is returned when
// Redis is not configured or unreachable; callers fall back to their uncached paths.
func NewRedis(ctx context.Context, cfg config.AppConfig) *redis.Client {
	if cfg.RedisHost == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:         net.JoinHostPort(cfg.RedisHost, strconv.Itoa(cfg.RedisPort)),
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		Sugar.Warnf("redis unavailable at %s, continuing without cache: %v", client.Options().Addr, err)
		_ = client.Close()
		return nil
	}
	return client
}
