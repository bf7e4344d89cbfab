package repository

import (
	"context"

	"FinDash/internal/domain/models"
	"FinDash/pkg/cache"
)

// CacheInvalidationSink drops cached query results once a new cycle is delivered.
type CacheInvalidationSink struct {
	cache   cache.Service
	pattern string
}

func NewCacheInvalidationSink(c cache.Service, pattern string) *CacheInvalidationSink {
	return &CacheInvalidationSink{cache: c, pattern: pattern}
}

func (s *CacheInvalidationSink) Name() string { return "cache" }

func (s *CacheInvalidationSink) OnSettled(ctx context.Context, _ models.Snapshot, _ models.CycleReport) error {
	return s.cache.DeleteByPattern(ctx, s.pattern)
}
