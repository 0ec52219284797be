package llm

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

type throttled struct {
	Client
	limiter *rate.Limiter
}

// Throttle limits c to perSecond queries with the given burst. Waiting for a
// slot honours ctx cancellation.
func Throttle(c Client, perSecond float64, burst int) Client {
	if burst < 1 {
		burst = 1
	}
	return &throttled{Client: c, limiter: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

func (t *throttled) Query(ctx context.Context, prompt string, temperature float64, timeout time.Duration) (string, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("waiting for rate limit: %w", err)
	}
	return t.Client.Query(ctx, prompt, temperature, timeout)
}
