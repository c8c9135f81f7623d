// Package ratelimit holds the fixed-window counters behind the rate limiting middleware.
package ratelimit

import (
	"context"
	"time"
)

// Record is the state of one client's window after a hit.
type Record struct {
	Count   int64
	ResetAt time.Time
}

// Store counts hits per key in fixed windows. A window starts on the first hit
// for a key and the count returns to zero once now passes ResetAt.
type Store interface {
	Hit(ctx context.Context, key string, window time.Duration, now time.Time) (Record, error)
}
