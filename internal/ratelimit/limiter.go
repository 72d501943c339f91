package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter is a sliding-window counter keyed by client address. Checking and
// recording are separate steps: a request consumes quota only once it passes
// validation, while the over-limit check happens before the body is read.
type Limiter struct {
	limit  int
	window time.Duration

	mu       sync.Mutex
	attempts map[string][]time.Time
	lastSeen map[string]time.Time
}

func New(limit int, window time.Duration) *Limiter {
	if limit < 1 {
		limit = 1
	}
	if window <= 0 {
		window = time.Minute
	}

	return &Limiter{
		limit:    limit,
		window:   window,
		attempts: make(map[string][]time.Time),
		lastSeen: make(map[string]time.Time),
	}
}

// OverLimit prunes timestamps outside the trailing window and reports
// whether the key already holds the full quota.
func (limiter *Limiter) OverLimit(key string) bool {
	now := time.Now()

	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	pruned := limiter.prune(key, now)
	return len(pruned) >= limiter.limit
}

// Record prunes and appends the current timestamp for the key.
func (limiter *Limiter) Record(key string) {
	now := time.Now()

	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	pruned := limiter.prune(key, now)
	limiter.attempts[key] = append(pruned, now)
}

func (limiter *Limiter) prune(key string, now time.Time) []time.Time {
	cutoff := now.Add(-limiter.window)

	recent := limiter.attempts[key]
	pruned := recent[:0]
	for _, timestamp := range recent {
		if timestamp.After(cutoff) {
			pruned = append(pruned, timestamp)
		}
	}

	limiter.attempts[key] = pruned
	limiter.lastSeen[key] = now
	return pruned
}

// Sweep drops keys not seen within the idle TTL so inactive addresses do
// not accumulate forever.
func (limiter *Limiter) Sweep(idleTTL time.Duration) {
	cutoff := time.Now().Add(-idleTTL)

	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	for key, seen := range limiter.lastSeen {
		if seen.Before(cutoff) {
			delete(limiter.attempts, key)
			delete(limiter.lastSeen, key)
		}
	}
}

// StartJanitor sweeps idle keys periodically until the context is done.
func (limiter *Limiter) StartJanitor(ctx context.Context, idleTTL, every time.Duration) {
	if idleTTL <= 0 || every <= 0 {
		return
	}

	ticker := time.NewTicker(every)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				limiter.Sweep(idleTTL)
			}
		}
	}()
}

// Keys reports how many addresses are currently tracked.
func (limiter *Limiter) Keys() int {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	return len(limiter.attempts)
}
