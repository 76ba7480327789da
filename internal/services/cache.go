package services

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is the subset of the traced Redis client the services rely on.
// *redisclient.Client satisfies it.
type Cache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}
