package mailer

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimiter paces requests to the delivery API with a token bucket.
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter allows burst requests immediately, then requestsPerSecond.
func NewRateLimiter(requestsPerSecond float64, burst int) *RateLimiter {
	return &RateLimiter{limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst)}
}

// Allow blocks until a token is available or ctx is done.
func (r *RateLimiter) Allow(ctx context.Context) error {
	return r.limiter.Wait(ctx)
}
