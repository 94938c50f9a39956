package adapters

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/tradecraft-io/spreadscan/internal/observ"
	"github.com/tradecraft-io/spreadscan/internal/options"
)

// RetryingChainProvider wraps a ChainProvider with exponential backoff.
// Retry policy belongs to the data-fetching collaborator, never to the
// scan core.
type RetryingChainProvider struct {
	inner      ChainProvider
	maxElapsed time.Duration
}

// NewRetryingChainProvider wraps inner with a retry budget.
func NewRetryingChainProvider(inner ChainProvider, maxElapsed time.Duration) *RetryingChainProvider {
	return &RetryingChainProvider{inner: inner, maxElapsed: maxElapsed}
}

// FetchChain retries the inner fetch until it succeeds or the elapsed
// budget (or context) runs out.
func (r *RetryingChainProvider) FetchChain(ctx context.Context, underlying string, targetDTE int, now time.Time) (options.Chain, error) {
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = r.maxElapsed

	var chain options.Chain
	err := backoff.Retry(func() error {
		var err error
		chain, err = r.inner.FetchChain(ctx, underlying, targetDTE, now)
		if err != nil {
			observ.IncCounter("chain_fetch_retries_total", map[string]string{"underlying": underlying})
		}
		return err
	}, backoff.WithContext(bo, ctx))
	return chain, err
}
