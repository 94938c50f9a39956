package scan

import (
	"time"

	"github.com/tradecraft-io/spreadscan/internal/criteria"
	"github.com/tradecraft-io/spreadscan/internal/observ"
	"github.com/tradecraft-io/spreadscan/internal/options"
	"github.com/tradecraft-io/spreadscan/internal/prob"
)

// Result is the per-underlying outcome of one scan. It is created fresh
// per run, handed to the caller, and never retained by the scanner.
type Result struct {
	Underlying      string                   `json:"underlying"`
	SpreadType      options.SpreadType       `json:"spread_type"`
	Mode            criteria.Mode            `json:"mode"`
	Expiration      time.Time                `json:"expiration"`
	BestCandidate   *options.SpreadCandidate `json:"best_candidate,omitempty"`
	RejectionReason RejectionReason          `json:"rejection_reason,omitempty"`
	RejectionStats  Stats                    `json:"rejection_stats"`
	NearMiss        *options.SpreadCandidate `json:"near_miss,omitempty"`
	NearMissCheck   *Rejection               `json:"near_miss_check,omitempty"`
	Evaluated       int                      `json:"evaluated"`
}

// Run screens one options chain for the best vertical spread. It is a
// pure function of its arguments: the caller passes now explicitly and
// repeated runs over the same inputs yield identical results. A bad
// chain never produces an error, only a Result carrying the rejection.
func Run(chain options.Chain, typ options.SpreadType, quote options.QuoteSnapshot, crit criteria.Criteria, now time.Time) Result {
	res := Result{
		Underlying:     chain.Underlying,
		SpreadType:     typ,
		Mode:           crit.Mode,
		Expiration:     chain.Expiration,
		RejectionStats: Stats{},
	}

	if quote.Price <= 0 {
		res.RejectionReason = ReasonNoPriceData
		res.RejectionStats.Add(ReasonNoPriceData)
		return res
	}

	legs := chain.Calls()
	emptyReason := ReasonNoCalls
	if typ == options.CreditPutSpread {
		legs = chain.Puts()
		emptyReason = ReasonNoPuts
	}
	if len(legs) == 0 {
		res.RejectionReason = emptyReason
		res.RejectionStats.Add(emptyReason)
		return res
	}

	dte := chain.DaysToExpiration(now)
	pairs := Generate(chain, typ, quote.Price, crit, res.RejectionStats)
	if len(pairs) == 0 {
		res.RejectionReason = structuralReason(res.RejectionStats)
		observ.IncCounter("scan_empty_total", map[string]string{"underlying": chain.Underlying, "reason": string(res.RejectionReason)})
		return res
	}

	var best *options.SpreadCandidate
	var nearMiss NearMissTracker

	for _, p := range pairs {
		price, prej := ResolvePrice(p, typ, crit)
		if prej != nil {
			res.RejectionStats.Add(prej.Reason)
			continue
		}

		cand := options.BuildCandidate(typ, chain.Underlying, p.Long, p.Short, price.Net, quote.Price, dte)
		cand.ProbabilityOfProfit = prob.Estimate(quote.Price, cand.Breakeven, legIV(p.Long, chain, quote), dte)
		res.Evaluated++

		rej, sole := Evaluate(cand, p, crit)
		if rej != nil {
			res.RejectionStats.Add(rej.Reason)
			nearMiss.Consider(cand, *rej, sole, crit)
			continue
		}

		// Highest cushion wins; an equal cushion keeps the earlier find.
		if best == nil || cand.CushionPct > best.CushionPct {
			c := cand
			best = &c
		}
	}

	if best != nil {
		res.BestCandidate = best
		observ.IncCounter("scan_pass_total", map[string]string{"underlying": chain.Underlying})
		return res
	}

	res.RejectionReason = headlineReason(res.RejectionStats, res.Evaluated)
	res.NearMiss, res.NearMissCheck = nearMiss.Result()
	observ.IncCounter("scan_empty_total", map[string]string{"underlying": chain.Underlying, "reason": string(res.RejectionReason)})
	return res
}

// structuralReason names the scan outcome when generation produced no
// pairs at all. Window misses dominate: a chain whose strikes all sit
// outside the moneyness window reports no_itm_strikes.
func structuralReason(stats Stats) RejectionReason {
	if stats[ReasonNotInMoneynessWindow] > 0 && stats[ReasonLowOpenInterest] == 0 && stats[ReasonNoMatchingShortStrike] == 0 {
		return ReasonNoITMStrikes
	}
	return dominantReason(stats)
}

// reasonPriority fixes the tie-break order for the headline rejection
// reason so results stay deterministic.
var reasonPriority = []RejectionReason{
	ReasonNotInMoneynessWindow,
	ReasonLowOpenInterest,
	ReasonNoMatchingShortStrike,
	ReasonInvalidPrice,
	ReasonLowCushion,
	ReasonLowReturn,
	ReasonLowProbability,
	ReasonNoPriceData,
}

// constraintReasons are the evaluation-stage failures, in check order.
var constraintReasons = []RejectionReason{
	ReasonLowCushion,
	ReasonLowReturn,
	ReasonLowProbability,
}

// headlineReason picks the reported rejection for a scan that found no
// winner. Once a candidate has been priced and evaluated, its constraint
// failure headlines; structural misses from sibling strikes never
// outrank it, so the headline agrees with the near-miss diagnostic.
func headlineReason(stats Stats, evaluated int) RejectionReason {
	if evaluated > 0 {
		constrained := Stats{}
		for _, r := range constraintReasons {
			if c := stats[r]; c > 0 {
				constrained[r] = c
			}
		}
		if len(constrained) > 0 {
			return dominantReason(constrained)
		}
	}
	return dominantReason(stats)
}

func dominantReason(stats Stats) RejectionReason {
	if len(stats) == 0 {
		return ReasonNoITMStrikes
	}
	var top RejectionReason
	topCount := -1
	for _, r := range reasonPriority {
		if c := stats[r]; c > topCount {
			top, topCount = r, c
		}
	}
	return top
}

// legIV picks the volatility input for the probability model: the long
// leg's own IV when quoted, then the chain average, then the caller's
// underlying-level proxy.
func legIV(long options.OptionQuote, chain options.Chain, quote options.QuoteSnapshot) float64 {
	if long.ImpliedVolatility > 0 {
		return long.ImpliedVolatility
	}
	if iv := chain.AverageIV(); iv > 0 {
		return iv
	}
	return quote.IVProxy
}
