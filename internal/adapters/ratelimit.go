package adapters

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/tradecraft-io/spreadscan/internal/options"
)

// RateLimitedChainProvider throttles chain fetches so a multi-underlying
// scan stays inside a provider's request budget.
type RateLimitedChainProvider struct {
	inner   ChainProvider
	limiter *rate.Limiter
}

// NewRateLimitedChainProvider allows requestsPerSecond with a burst of one.
func NewRateLimitedChainProvider(inner ChainProvider, requestsPerSecond float64) *RateLimitedChainProvider {
	return &RateLimitedChainProvider{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
	}
}

// FetchChain blocks for a limiter token, then delegates.
func (r *RateLimitedChainProvider) FetchChain(ctx context.Context, underlying string, targetDTE int, now time.Time) (options.Chain, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return options.Chain{}, err
	}
	return r.inner.FetchChain(ctx, underlying, targetDTE, now)
}
