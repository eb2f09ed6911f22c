// Package ratelimit paces requests sent to the analytics backend.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// RateLimiter implements a token bucket rate limiter. A nil *RateLimiter
// never blocks.
type RateLimiter struct {
	rate       float64
	bucketSize float64
	tokens     float64
	lastRefill time.Time
	mu         sync.Mutex
}

// NewRateLimiter creates a new rate limiter with the specified rate (tokens
// per second) and bucket size. A non-positive rate disables limiting.
func NewRateLimiter(rate float64, bucketSize float64) *RateLimiter {
	if rate <= 0 {
		return nil
	}
	if bucketSize < 1 {
		bucketSize = 1
	}
	return &RateLimiter{
		rate:       rate,
		bucketSize: bucketSize,
		tokens:     bucketSize,
		lastRefill: time.Now(),
	}
}

// Wait blocks until a token is available or the context is cancelled.
// Concurrent callers each reserve their own token, so waiting is spread out
// instead of serialized behind the lock.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	if rl == nil {
		return nil
	}

	waitTime := rl.reserve()
	if waitTime <= 0 {
		return nil
	}

	timer := time.NewTimer(waitTime)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		rl.release()
		return ctx.Err()
	}
}

// reserve takes a token, possibly driving the bucket negative, and returns
// how long the caller must wait before using it.
func (rl *RateLimiter) reserve() time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	// Refill tokens based on time elapsed
	now := time.Now()
	elapsed := now.Sub(rl.lastRefill).Seconds()
	rl.tokens = min(rl.bucketSize, rl.tokens+elapsed*rl.rate)
	rl.lastRefill = now

	rl.tokens--
	if rl.tokens >= 0 {
		return 0
	}
	return time.Duration(-rl.tokens / rl.rate * float64(time.Second))
}

// release gives back a reserved token that was never used.
func (rl *RateLimiter) release() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.tokens = min(rl.bucketSize, rl.tokens+1)
}
