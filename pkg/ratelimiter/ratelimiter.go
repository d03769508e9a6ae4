// Package ratelimiter implements a token bucket limiter for outbound API calls.
package ratelimiter

import (
	"sync"
	"time"
)

// RateLimiter limits the rate of operations.
type RateLimiter interface {
	TakeToken() bool
	Wait()
}

// TokenBucket is a thread-safe token bucket limiter. Tokens refill at
// refillRate per second up to capacity.
type TokenBucket struct {
	capacity   int64
	tokens     int64
	refillRate int64
	lastRefill time.Time
	mu         sync.Mutex
}

// NewTokenBucket creates a bucket with the given capacity and refill rate.
// Non-positive values are clamped to 1.
func NewTokenBucket(capacity, refillRate int64) *TokenBucket {
	if capacity <= 0 {
		capacity = 1
	}
	if refillRate <= 0 {
		refillRate = 1
	}

	return &TokenBucket{
		capacity:   capacity,
		tokens:     capacity,
		refillRate: refillRate,
		lastRefill: time.Now(),
	}
}

// TakeToken consumes a token if one is available.
func (tb *TokenBucket) TakeToken() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(tb.lastRefill)

	tokensToAdd := int64(elapsed.Seconds()) * tb.refillRate
	tb.tokens = min(tb.capacity, tb.tokens+tokensToAdd)
	tb.lastRefill = now

	if tb.tokens > 0 {
		tb.tokens--
		return true
	}
	return false
}

// Wait blocks until a token can be taken.
func (tb *TokenBucket) Wait() {
	waitTime := time.Second / time.Duration(tb.refillRate)
	if waitTime < 100*time.Millisecond {
		waitTime = 100 * time.Millisecond
	}

	for !tb.TakeToken() {
		time.Sleep(waitTime)
	}
}
