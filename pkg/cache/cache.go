package cache

import (
	"context"
	"errors"
	"time"
)

var ErrCacheMiss = errors.New("cache: key not found")

// Service is the cache contract shared by memory, Redis and layered implementations.
// Values are JSON encoded; Get decodes into dest.
type Service interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
	// DeleteByPattern removes keys matching a glob such as "query:*".
	DeleteByPattern(ctx context.Context, pattern string) error
	Close() error
}

// GetOrLoad returns the cached value for key or calls load and caches its result.
// Cache errors other than a miss are ignored so a broken cache degrades to direct loads.
func GetOrLoad[T any](ctx context.Context, c Service, key string, ttl time.Duration, load func() (T, error)) (T, error) {
	var v T
	if err := c.Get(ctx, key, &v); err == nil {
		return v, nil
	}
	v, err := load()
	if err != nil {
		return v, err
	}
	_ = c.Set(ctx, key, v, ttl)
	return v, nil
}
