// Package ratelimit counts per-key events in fixed hourly windows.
package ratelimit

import "context"

// Limiter admits up to a fixed number of events per key per window
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}
