package cache

import (
	"context"
	"time"
)

// LayeredCache reads through a local memory L1 to a shared L2 (normally Redis).
type LayeredCache struct {
	l1 *MemoryCache
	l2 Service
	// l1TTL bounds how long a value read from L2 is trusted locally.
	l1TTL time.Duration
}

// NewLayeredCache builds the L1 from opts.
func NewLayeredCache(l2 Service, l1TTL time.Duration, opts ...MemoryOption) *LayeredCache {
	return &LayeredCache{
		l1:    NewMemoryCache(opts...),
		l2:    l2,
		l1TTL: l1TTL,
	}
}

// Set writes through: L2 first, then L1.
func (lc *LayeredCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if err := lc.l2.Set(ctx, key, value, expiration); err != nil {
		return err
	}
	return lc.l1.Set(ctx, key, value, lc.localTTL(expiration))
}

func (lc *LayeredCache) Get(ctx context.Context, key string, dest interface{}) error {
	if err := lc.l1.Get(ctx, key, dest); err == nil {
		return nil
	}
	if err := lc.l2.Get(ctx, key, dest); err != nil {
		return err
	}
	_ = lc.l1.Set(ctx, key, dest, lc.l1TTL)
	return nil
}

func (lc *LayeredCache) Delete(ctx context.Context, keys ...string) error {
	_ = lc.l1.Delete(ctx, keys...)
	return lc.l2.Delete(ctx, keys...)
}

func (lc *LayeredCache) DeleteByPattern(ctx context.Context, pattern string) error {
	_ = lc.l1.DeleteByPattern(ctx, pattern)
	return lc.l2.DeleteByPattern(ctx, pattern)
}

func (lc *LayeredCache) Close() error {
	_ = lc.l1.Close()
	return lc.l2.Close()
}

func (lc *LayeredCache) localTTL(expiration time.Duration) time.Duration {
	if lc.l1TTL > 0 && (expiration <= 0 || lc.l1TTL < expiration) {
		return lc.l1TTL
	}
	return expiration
}
