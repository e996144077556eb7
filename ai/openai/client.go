package openai

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// tokenOrNone returns the API key, or "none" for local OpenAI-compatible
// services that don't require authentication.
func tokenOrNone(key string) string {
	if key == "" {
		return "none"
	}
	return key
}

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// newLimiter returns nil when rps is zero, meaning unlimited.
func newLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(rps), 1)
}

func wait(ctx context.Context, limiter *rate.Limiter) error {
	if limiter == nil {
		return nil
	}
	return limiter.Wait(ctx)
}
