package scan

import (
	"github.com/tradecraft-io/spreadscan/internal/criteria"
	"github.com/tradecraft-io/spreadscan/internal/options"
)

// Evaluate applies the constraint checks to a fully built candidate in
// fixed order: liquidity, cushion, return on risk, probability of profit.
// The first failing check becomes the rejection; soleFailure reports
// whether that was the only check the candidate failed, which the
// near-miss tracker uses to decide eligibility.
func Evaluate(cand options.SpreadCandidate, p Pair, crit criteria.Criteria) (rej *Rejection, soleFailure bool) {
	checks := []struct {
		reason    RejectionReason
		observed  float64
		threshold float64
		pass      bool
	}{
		{
			reason:    ReasonLowOpenInterest,
			observed:  float64(minInt(p.Long.OpenInterest, p.Short.OpenInterest)),
			threshold: float64(crit.MinShortOpenInterest),
			pass:      p.Long.OpenInterest >= crit.MinOpenInterest && p.Short.OpenInterest >= crit.MinShortOpenInterest,
		},
		{
			reason:    ReasonLowCushion,
			observed:  cand.CushionPct,
			threshold: crit.MinCushionPct,
			pass:      cand.CushionPct >= crit.MinCushionPct,
		},
		{
			reason:    ReasonLowReturn,
			observed:  cand.ReturnOnRisk,
			threshold: crit.MinReturnOnRisk,
			pass:      cand.ReturnOnRisk >= crit.MinReturnOnRisk,
		},
		{
			reason:    ReasonLowProbability,
			observed:  cand.ProbabilityOfProfit,
			threshold: crit.MinProbabilityOfProfit,
			pass:      cand.ProbabilityOfProfit >= crit.MinProbabilityOfProfit,
		},
	}

	failures := 0
	for _, c := range checks {
		if c.pass {
			continue
		}
		failures++
		if rej == nil {
			rej = &Rejection{Reason: c.reason, Observed: c.observed, Threshold: c.threshold}
		}
	}
	return rej, failures == 1
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
