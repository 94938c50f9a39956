// Package adapters holds the out-of-scope data collaborators behind
// interfaces: the scan core consumes already-fetched chains and quotes
// and never performs IO itself. Fixture-backed implementations stand in
// for live market-data providers; decorators own the retry and
// rate-limit policy the core deliberately does not have.
package adapters

import (
	"context"
	"time"

	"github.com/tradecraft-io/spreadscan/internal/options"
)

// ChainProvider fetches the options chain whose expiration best matches
// the target days-to-expiration.
type ChainProvider interface {
	FetchChain(ctx context.Context, underlying string, targetDTE int, now time.Time) (options.Chain, error)
}

// QuoteProvider fetches the underlying-level quote snapshot.
type QuoteProvider interface {
	FetchQuote(ctx context.Context, underlying string) (options.QuoteSnapshot, error)
}

// HistoryProvider fetches daily closes, oldest first, for indicator
// computation.
type HistoryProvider interface {
	FetchDailyCloses(ctx context.Context, underlying string, days int) ([]float64, error)
}

// MarketStateProvider supplies the market-wide gate inputs: volatility
// index, event-calendar distances and the open-position count.
type MarketStateProvider interface {
	FetchMarketState(ctx context.Context, now time.Time) (MarketState, error)
}

// MarketState is the market-wide slice of the gate snapshot. Negative
// day or position counts mean the value is unknown.
type MarketState struct {
	VolatilityIndex         float64 `json:"volatility_index"`
	HasVolatilityIndex      bool    `json:"has_volatility_index"`
	DaysToMacroEvent        int     `json:"days_to_macro_event"`
	DaysToExpirationCluster int     `json:"days_to_expiration_cluster"`
	OpenPositions           int     `json:"open_positions"`
}
