package adapters

import (
	"context"
	"sync"
	"time"

	"github.com/tradecraft-io/spreadscan/internal/observ"
	"github.com/tradecraft-io/spreadscan/internal/options"
)

// CachingChainProvider memoizes chain fetches for a TTL so scanning the
// same underlying twice in a run hits the provider only once.
type CachingChainProvider struct {
	inner ChainProvider
	ttl   time.Duration

	mu      sync.RWMutex
	entries map[string]cachedChain
}

type cachedChain struct {
	chain    options.Chain
	cachedAt time.Time
}

// NewCachingChainProvider wraps inner with a per-underlying TTL cache.
func NewCachingChainProvider(inner ChainProvider, ttl time.Duration) *CachingChainProvider {
	return &CachingChainProvider{
		inner:   inner,
		ttl:     ttl,
		entries: make(map[string]cachedChain),
	}
}

// FetchChain serves a fresh cached chain when available, otherwise
// delegates and stores the result. Errors are never cached.
func (c *CachingChainProvider) FetchChain(ctx context.Context, underlying string, targetDTE int, now time.Time) (options.Chain, error) {
	c.mu.RLock()
	entry, ok := c.entries[underlying]
	c.mu.RUnlock()
	if ok && now.Sub(entry.cachedAt) < c.ttl {
		observ.IncCounter("chain_cache_hit_total", map[string]string{"underlying": underlying})
		return entry.chain, nil
	}
	observ.IncCounter("chain_cache_miss_total", map[string]string{"underlying": underlying})

	chain, err := c.inner.FetchChain(ctx, underlying, targetDTE, now)
	if err != nil {
		return options.Chain{}, err
	}

	c.mu.Lock()
	c.entries[underlying] = cachedChain{chain: chain, cachedAt: now}
	c.mu.Unlock()
	return chain, nil
}
