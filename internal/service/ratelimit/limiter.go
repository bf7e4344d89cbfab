// Package ratelimit provides per-key token buckets.
package ratelimit

import (
	"sync"
	"time"
)

type bucket struct {
	tokens     float64
	capacity   float64
	refillRate float64 // tokens per second
	last       time.Time
}

// Limiter keeps one bucket per key. Buckets idle long enough to be full again are
// dropped by Sweep.
type Limiter struct {
	mu  sync.Mutex
	m   map[string]*bucket
	now func() time.Time
}

func New() *Limiter { return &Limiter{m: make(map[string]*bucket), now: time.Now} }

// NewWithClock is New with an injected clock.
func NewWithClock(now func() time.Time) *Limiter {
	return &Limiter{m: make(map[string]*bucket), now: now}
}

// Allow returns true if one token can be consumed for key.
func (l *Limiter) Allow(key string, capacity, refillPerSec float64) bool {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.m[key]
	if !ok {
		b = &bucket{tokens: capacity, capacity: capacity, refillRate: refillPerSec, last: now}
		l.m[key] = b
	}
	// refill
	elapsed := now.Sub(b.last).Seconds()
	if elapsed > 0 {
		b.tokens += elapsed * b.refillRate
		if b.tokens > b.capacity {
			b.tokens = b.capacity
		}
		b.last = now
	}
	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// RetryAfter estimates how long until key has a token again. Zero means now.
func (l *Limiter) RetryAfter(key string) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.m[key]
	if !ok || b.tokens >= 1 || b.refillRate <= 0 {
		return 0
	}
	missing := 1 - b.tokens
	wait := time.Duration(missing / b.refillRate * float64(time.Second))
	if wait -= l.now().Sub(b.last); wait < 0 {
		return 0
	}
	return wait
}

// Sweep removes buckets that would be full by now.
func (l *Limiter) Sweep() int {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for k, b := range l.m {
		if b.refillRate <= 0 {
			continue
		}
		if b.tokens+now.Sub(b.last).Seconds()*b.refillRate >= b.capacity {
			delete(l.m, k)
			removed++
		}
	}
	return removed
}
