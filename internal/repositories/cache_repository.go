package repositories

import (
	"context"
	"time"
)

// CacheRepositoryInterface is the key/value store behind reset tokens, login
// lockout counters and the product search cache. A missing key is reported
// as ErrCacheMiss.
type CacheRepositoryInterface interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, key ...string) error
	Incr(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, expiration time.Duration) (bool, error)
}
