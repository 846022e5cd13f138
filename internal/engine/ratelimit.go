package engine

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// actionLimiter throttles how fast inbound actions are accepted onto
// the queue, guarding against a misbehaving collaborator flooding the
// Engine Loop between ticks (the queue itself is unbounded per
// spec.md §5, but acceptance is paced).
type actionLimiter struct {
	limiter *rate.Limiter
}

func newActionLimiter(perSecond float64, burst int) *actionLimiter {
	if perSecond <= 0 {
		perSecond = 16
	}
	if burst <= 0 {
		burst = 32
	}
	return &actionLimiter{limiter: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

// Wait blocks until the limiter admits one action or ctx is canceled.
func (a *actionLimiter) Wait(ctx context.Context) error {
	if err := a.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("action queue: %w", err)
	}
	return nil
}
