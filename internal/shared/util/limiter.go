package util

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter is a token bucket throttle for rescan bursts.
type Limiter struct {
	inner *rate.Limiter
}

// NewLimiter builds a limiter refilling r tokens per second with burst b.
func NewLimiter(r float64, b int) *Limiter {
	return &Limiter{inner: rate.NewLimiter(rate.Limit(r), b)}
}

// Allow reports whether n events may happen now without waiting.
func (l *Limiter) Allow(n int) bool {
	return l.inner.AllowN(time.Now(), n)
}

// Wait blocks until n tokens are available or ctx is done.
func (l *Limiter) Wait(ctx context.Context, n int) error {
	return l.inner.WaitN(ctx, n)
}
