package ratelimit

import (
	"context"
	"sync"
)

// MemoryLimiter keeps counters in process. Reset clears every window and is
// driven by the scheduler.
type MemoryLimiter struct {
	mu     sync.Mutex
	limit  int
	counts map[string]int
}

// NewMemoryLimiter creates a limiter admitting limit events per key between resets
func NewMemoryLimiter(limit int) *MemoryLimiter {
	return &MemoryLimiter{limit: limit, counts: make(map[string]int)}
}

// Allow records an event for key and reports whether it is within the limit.
// A non-positive limit admits everything.
func (l *MemoryLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if l.limit <= 0 {
		return true, nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.counts[key] >= l.limit {
		return false, nil
	}
	l.counts[key]++
	return true, nil
}

// Reset starts a new window for every key
func (l *MemoryLimiter) Reset() {
	l.mu.Lock()
	l.counts = make(map[string]int)
	l.mu.Unlock()
}

// Len returns the number of tracked keys
func (l *MemoryLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.counts)
}
