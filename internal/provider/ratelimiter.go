package provider

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter paces outbound calls to a data source with a token bucket.
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter allows bursts of maxTokens calls and refills one token per
// refillInterval. A limiter with no tokens rejects every call.
func NewRateLimiter(maxTokens int, refillInterval time.Duration) *RateLimiter {
	if refillInterval <= 0 {
		refillInterval = time.Millisecond
	}
	limit := rate.Every(refillInterval)
	if maxTokens <= 0 {
		limit = 0
	}
	return &RateLimiter{limiter: rate.NewLimiter(limit, maxTokens)}
}

// Wait blocks until a token is available or ctx is cancelled.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.limiter.Wait(ctx)
}
