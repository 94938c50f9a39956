package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradecraft-io/spreadscan/internal/criteria"
	"github.com/tradecraft-io/spreadscan/internal/options"
)

func debitPair(longBid, longAsk, shortBid, shortAsk float64) Pair {
	return Pair{
		Long:  options.OptionQuote{Strike: 90, Side: options.Call, Bid: longBid, Ask: longAsk},
		Short: options.OptionQuote{Strike: 95, Side: options.Call, Bid: shortBid, Ask: shortAsk},
		Width: 5,
	}
}

func TestResolvePrice_InBandMarketPriceReturnedExactly(t *testing.T) {
	crit := criteria.StrictDefaults()
	// Market debit 11.50 - 8.00 = 3.50, ratio 0.70 inside [0.55, 0.80].
	p := debitPair(10.0, 11.5, 8.0, 9.0)

	got, rej := ResolvePrice(p, options.DebitCallSpread, crit)
	require.Nil(t, rej)
	assert.Equal(t, PriceSourceMarket, got.Source)
	assert.Equal(t, 3.5, got.Net, "no silent substitution when the quote is usable")
	assert.InDelta(t, 0.70, got.Ratio, 1e-9)
}

func TestResolvePrice_AboveBandFallsBackToMid(t *testing.T) {
	crit := criteria.StrictDefaults()
	// Market debit 11.50 - 6.00 = 5.50, ratio 1.10 above the band.
	// Mids: long (9.00+11.50)/2 = 10.25, short (6.00+7.00)/2 = 6.50;
	// mid debit 3.75, ratio 0.75 inside the band.
	p := debitPair(9.0, 11.5, 6.0, 7.0)

	got, rej := ResolvePrice(p, options.DebitCallSpread, crit)
	require.Nil(t, rej)
	assert.Equal(t, PriceSourceMid, got.Source)
	assert.InDelta(t, 3.75, got.Net, 1e-9)
	assert.InDelta(t, 0.75, got.Ratio, 1e-9)
}

func TestResolvePrice_AboveBandMidAlsoTooRich(t *testing.T) {
	crit := criteria.StrictDefaults()
	// Market ratio and mid ratio both above the band.
	p := debitPair(11.0, 11.5, 6.0, 6.2)

	_, rej := ResolvePrice(p, options.DebitCallSpread, crit)
	require.NotNil(t, rej)
	assert.Equal(t, ReasonInvalidPrice, rej.Reason)
	assert.InDelta(t, 1.10, rej.Observed, 1e-9)
	assert.Equal(t, crit.MaxPriceRatio, rej.Threshold)
}

func TestResolvePrice_BelowBandLiftsMid(t *testing.T) {
	crit := criteria.StrictDefaults()
	// Market debit 8.20 - 5.50 = 2.70, ratio 0.54 below the band.
	// Mids: long 8.00, short 5.50; mid 2.50; lifted 2.75, ratio 0.55.
	p := debitPair(7.8, 8.2, 5.5, 5.5)

	got, rej := ResolvePrice(p, options.DebitCallSpread, crit)
	require.Nil(t, rej)
	assert.Equal(t, PriceSourceAdjustedMid, got.Source)
	assert.InDelta(t, 2.75, got.Net, 1e-9)
	assert.InDelta(t, 0.55, got.Ratio, 1e-9)
}

func TestResolvePrice_CreditUsesShortBidAgainstLongAsk(t *testing.T) {
	crit := criteria.StrictDefaults()
	p := Pair{
		Long:  options.OptionQuote{Strike: 90, Side: options.Put, Bid: 2.0, Ask: 2.5},
		Short: options.OptionQuote{Strike: 95, Side: options.Put, Bid: 5.5, Ask: 6.0},
		Width: 5,
	}
	// Market credit 5.50 - 2.50 = 3.00, ratio 0.60 inside the band.
	got, rej := ResolvePrice(p, options.CreditPutSpread, crit)
	require.Nil(t, rej)
	assert.Equal(t, PriceSourceMarket, got.Source)
	assert.Equal(t, 3.0, got.Net)
}

func TestResolvePrice_NoQuotesRejectsWithNoPriceData(t *testing.T) {
	p := debitPair(0, 0, 0, 0)
	_, rej := ResolvePrice(p, options.DebitCallSpread, criteria.StrictDefaults())
	require.NotNil(t, rej)
	assert.Equal(t, ReasonNoPriceData, rej.Reason)
}
