package scan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradecraft-io/spreadscan/internal/criteria"
	"github.com/tradecraft-io/spreadscan/internal/options"
)

var scanNow = time.Date(2026, 8, 3, 14, 0, 0, 0, time.UTC)

// passingChain produces exactly one candidate that clears every strict
// check: long 90 call at ask 8.90 against short 95 at bid 6.00 gives a
// market debit of 2.90 (ratio 0.58), breakeven 92.90, cushion 7.1%.
func passingChain() options.Chain {
	return options.Chain{
		Underlying: "ACME",
		Expiration: scanNow.AddDate(0, 0, 30),
		Quotes: []options.OptionQuote{
			{Strike: 90, Side: options.Call, Bid: 8.5, Ask: 8.9, OpenInterest: 100, ImpliedVolatility: 0.30},
			{Strike: 95, Side: options.Call, Bid: 6.0, Ask: 6.4, OpenInterest: 60, ImpliedVolatility: 0.30},
		},
	}
}

func strictWithWidth5() criteria.Criteria {
	c := criteria.StrictDefaults()
	c.Widths = []float64{5}
	return c
}

func TestRun_FindsPassingCandidate(t *testing.T) {
	res := Run(passingChain(), options.DebitCallSpread, options.QuoteSnapshot{Price: 100}, strictWithWidth5(), scanNow)

	require.NotNil(t, res.BestCandidate)
	c := res.BestCandidate
	assert.Equal(t, 90.0, c.LongStrike)
	assert.Equal(t, 95.0, c.ShortStrike)
	assert.InDelta(t, 2.9, c.NetPrice, 1e-9)
	assert.InDelta(t, 7.1, c.CushionPct, 1e-9)
	assert.Equal(t, 30, c.DaysToExpiration)
	assert.GreaterOrEqual(t, c.ProbabilityOfProfit, 65.0)
	assert.Empty(t, res.RejectionReason)
}

func TestRun_DeterministicForFixedInputs(t *testing.T) {
	chain := passingChain()
	crit := strictWithWidth5()
	quote := options.QuoteSnapshot{Price: 100}

	first := Run(chain, options.DebitCallSpread, quote, crit, scanNow)
	second := Run(chain, options.DebitCallSpread, quote, crit, scanNow)
	assert.Equal(t, first, second)
}

func TestRun_LooseningThresholdNeverRemovesAPass(t *testing.T) {
	chain := passingChain()
	quote := options.QuoteSnapshot{Price: 100}
	crit := strictWithWidth5()

	base := Run(chain, options.DebitCallSpread, quote, crit, scanNow)
	require.NotNil(t, base.BestCandidate)

	loosen := []func(*criteria.Criteria){
		func(c *criteria.Criteria) { c.MinCushionPct -= 2 },
		func(c *criteria.Criteria) { c.MinProbabilityOfProfit -= 10 },
		func(c *criteria.Criteria) { c.MinReturnOnRisk -= 0.05 },
		func(c *criteria.Criteria) { c.MinOpenInterest -= 25 },
		func(c *criteria.Criteria) { c.MinPriceRatio -= 0.05 },
	}
	for _, f := range loosen {
		looser := crit
		f(&looser)
		res := Run(chain, options.DebitCallSpread, quote, looser, scanNow)
		require.NotNil(t, res.BestCandidate, "loosening a threshold must not remove a passing candidate")
	}
}

func TestRun_HigherCushionWins(t *testing.T) {
	// Two viable candidates: long 90 (breakeven 92.90, cushion 7.1) and
	// long 88.5 (debit 3.30, breakeven 91.80, cushion 8.2).
	chain := passingChain()
	chain.Quotes = append(chain.Quotes,
		options.OptionQuote{Strike: 88.5, Side: options.Call, Bid: 9.0, Ask: 9.3, OpenInterest: 100, ImpliedVolatility: 0.30},
		options.OptionQuote{Strike: 93.5, Side: options.Call, Bid: 6.0, Ask: 6.4, OpenInterest: 60, ImpliedVolatility: 0.30},
	)

	crit := strictWithWidth5()
	crit.MinCushionPct = 5

	res := Run(chain, options.DebitCallSpread, options.QuoteSnapshot{Price: 100}, crit, scanNow)
	require.NotNil(t, res.BestCandidate)
	assert.Equal(t, 88.5, res.BestCandidate.LongStrike)
	assert.InDelta(t, 8.2, res.BestCandidate.CushionPct, 1e-9)
}

func TestRun_EmptyChainReportsNoCalls(t *testing.T) {
	chain := options.Chain{Underlying: "ACME", Expiration: scanNow.AddDate(0, 0, 30)}
	res := Run(chain, options.DebitCallSpread, options.QuoteSnapshot{Price: 100}, strictWithWidth5(), scanNow)

	assert.Nil(t, res.BestCandidate)
	assert.Equal(t, ReasonNoCalls, res.RejectionReason)
}

func TestRun_MissingPriceReportsNoPriceData(t *testing.T) {
	res := Run(passingChain(), options.DebitCallSpread, options.QuoteSnapshot{}, strictWithWidth5(), scanNow)
	assert.Nil(t, res.BestCandidate)
	assert.Equal(t, ReasonNoPriceData, res.RejectionReason)
}

func TestRun_NoStrikesInsideWindow(t *testing.T) {
	// Spot far above the chain: every long strike is too deep ITM.
	res := Run(passingChain(), options.DebitCallSpread, options.QuoteSnapshot{Price: 500}, strictWithWidth5(), scanNow)

	assert.Nil(t, res.BestCandidate)
	assert.Equal(t, ReasonNoITMStrikes, res.RejectionReason)
	assert.Nil(t, res.NearMiss)
}

func TestRun_NearMissReportedWhenNothingPasses(t *testing.T) {
	chain := passingChain()
	crit := strictWithWidth5()
	// Raise the cushion floor just above the candidate's 7.1 so it fails
	// one check inside the tolerance band.
	crit.MinCushionPct = 8

	res := Run(chain, options.DebitCallSpread, options.QuoteSnapshot{Price: 100}, crit, scanNow)

	assert.Nil(t, res.BestCandidate)
	assert.Equal(t, ReasonLowCushion, res.RejectionReason)
	require.NotNil(t, res.NearMiss)
	require.NotNil(t, res.NearMissCheck)
	assert.Equal(t, ReasonLowCushion, res.NearMissCheck.Reason)
	assert.InDelta(t, 7.1, res.NearMissCheck.Observed, 1e-9)
	assert.Equal(t, 1, res.RejectionStats[ReasonLowCushion])
}

func TestRun_ConstraintFailureHeadlinesOverStructuralMiss(t *testing.T) {
	// Strike 95 has no 100 short, so generation tallies a structural
	// no_matching_short_strike alongside the 90/95 candidate's cushion
	// failure. The evaluated candidate's failure is the headline.
	chain := passingChain()
	crit := strictWithWidth5()
	crit.MinCushionPct = 8

	res := Run(chain, options.DebitCallSpread, options.QuoteSnapshot{Price: 100}, crit, scanNow)

	assert.Nil(t, res.BestCandidate)
	assert.Equal(t, 1, res.RejectionStats[ReasonNoMatchingShortStrike])
	assert.Equal(t, 1, res.RejectionStats[ReasonLowCushion])
	assert.Equal(t, ReasonLowCushion, res.RejectionReason)
	require.NotNil(t, res.NearMissCheck)
	assert.Equal(t, res.RejectionReason, res.NearMissCheck.Reason,
		"headline reason and near-miss diagnostic must agree")
}

func TestRun_CreditPutSpreadPasses(t *testing.T) {
	chain := options.Chain{
		Underlying: "ACME",
		Expiration: scanNow.AddDate(0, 0, 30),
		Quotes: []options.OptionQuote{
			// Long 90 put against short 95 put: market credit
			// 3.30 - 0.40 = 2.90, ratio 0.58, breakeven 92.10.
			{Strike: 90, Side: options.Put, Bid: 0.3, Ask: 0.4, OpenInterest: 100, ImpliedVolatility: 0.30},
			{Strike: 95, Side: options.Put, Bid: 3.3, Ask: 3.5, OpenInterest: 60, ImpliedVolatility: 0.30},
		},
	}

	crit := strictWithWidth5()
	res := Run(chain, options.CreditPutSpread, options.QuoteSnapshot{Price: 100}, crit, scanNow)

	require.NotNil(t, res.BestCandidate)
	c := res.BestCandidate
	assert.InDelta(t, 2.9, c.NetPrice, 1e-9)
	assert.InDelta(t, 92.1, c.Breakeven, 1e-9)
	assert.InDelta(t, 7.9, c.CushionPct, 1e-9)
}

func TestRun_PerUnderlyingIsolation(t *testing.T) {
	// A broken chain produces a rejection result, never a panic or error
	// that could abort sibling underlyings.
	broken := options.Chain{Underlying: "BROKE", Expiration: scanNow, Quotes: []options.OptionQuote{
		{Strike: 0, Side: options.Call},
	}}
	res := Run(broken, options.DebitCallSpread, options.QuoteSnapshot{Price: 100}, strictWithWidth5(), scanNow)
	assert.Nil(t, res.BestCandidate)
	assert.NotEmpty(t, res.RejectionReason)
}
