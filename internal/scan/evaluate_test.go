package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradecraft-io/spreadscan/internal/criteria"
	"github.com/tradecraft-io/spreadscan/internal/options"
)

func liquidPair(crit criteria.Criteria) Pair {
	return Pair{
		Long:  options.OptionQuote{Strike: 90, Side: options.Call, OpenInterest: crit.MinOpenInterest},
		Short: options.OptionQuote{Strike: 95, Side: options.Call, OpenInterest: crit.MinShortOpenInterest},
		Width: 5,
	}
}

func passingCandidate(crit criteria.Criteria) options.SpreadCandidate {
	return options.SpreadCandidate{
		CushionPct:          crit.MinCushionPct + 1,
		ReturnOnRisk:        crit.MinReturnOnRisk + 0.1,
		ProbabilityOfProfit: crit.MinProbabilityOfProfit + 5,
	}
}

func TestEvaluate_PassingCandidateHasNoRejection(t *testing.T) {
	crit := criteria.StrictDefaults()
	rej, _ := Evaluate(passingCandidate(crit), liquidPair(crit), crit)
	assert.Nil(t, rej)
}

func TestEvaluate_FirstFailingCheckWins(t *testing.T) {
	crit := criteria.StrictDefaults()
	cand := passingCandidate(crit)
	cand.CushionPct = crit.MinCushionPct - 1
	cand.ProbabilityOfProfit = crit.MinProbabilityOfProfit - 1

	rej, sole := Evaluate(cand, liquidPair(crit), crit)
	require.NotNil(t, rej)
	assert.Equal(t, ReasonLowCushion, rej.Reason, "cushion is checked before probability")
	assert.False(t, sole, "two checks failed")
	assert.Equal(t, cand.CushionPct, rej.Observed)
	assert.Equal(t, crit.MinCushionPct, rej.Threshold)
}

func TestEvaluate_ChecksRunInFixedOrder(t *testing.T) {
	crit := criteria.StrictDefaults()

	t.Run("liquidity_first", func(t *testing.T) {
		p := liquidPair(crit)
		p.Short.OpenInterest = 0
		cand := passingCandidate(crit)
		cand.CushionPct = 0 // would also fail cushion
		rej, _ := Evaluate(cand, p, crit)
		require.NotNil(t, rej)
		assert.Equal(t, ReasonLowOpenInterest, rej.Reason)
	})

	t.Run("return_before_probability", func(t *testing.T) {
		cand := passingCandidate(crit)
		cand.ReturnOnRisk = 0
		cand.ProbabilityOfProfit = 50
		rej, _ := Evaluate(cand, liquidPair(crit), crit)
		require.NotNil(t, rej)
		assert.Equal(t, ReasonLowReturn, rej.Reason)
	})
}

func TestNearMissTracker_OnlySoleFailuresInsideToleranceQualify(t *testing.T) {
	crit := criteria.StrictDefaults()
	var tracker NearMissTracker

	// Sole cushion failure one point under threshold: qualifies.
	cand := passingCandidate(crit)
	cand.CushionPct = crit.MinCushionPct - 1
	tracker.Consider(cand, Rejection{Reason: ReasonLowCushion, Observed: cand.CushionPct, Threshold: crit.MinCushionPct}, true, crit)

	best, check := tracker.Result()
	require.NotNil(t, best)
	assert.Equal(t, ReasonLowCushion, check.Reason)

	t.Run("multi_check_failures_never_qualify", func(t *testing.T) {
		var tr NearMissTracker
		tr.Consider(cand, Rejection{Reason: ReasonLowCushion, Observed: cand.CushionPct, Threshold: crit.MinCushionPct}, false, crit)
		b, _ := tr.Result()
		assert.Nil(t, b)
	})

	t.Run("outside_tolerance_never_qualifies", func(t *testing.T) {
		var tr NearMissTracker
		far := passingCandidate(crit)
		far.CushionPct = crit.MinCushionPct - crit.CushionTolerance - 1
		tr.Consider(far, Rejection{Reason: ReasonLowCushion, Observed: far.CushionPct, Threshold: crit.MinCushionPct}, true, crit)
		b, _ := tr.Result()
		assert.Nil(t, b)
	})

	t.Run("return_misses_carry_no_tolerance", func(t *testing.T) {
		var tr NearMissTracker
		ror := passingCandidate(crit)
		ror.ReturnOnRisk = crit.MinReturnOnRisk - 0.001
		tr.Consider(ror, Rejection{Reason: ReasonLowReturn, Observed: ror.ReturnOnRisk, Threshold: crit.MinReturnOnRisk}, true, crit)
		b, _ := tr.Result()
		assert.Nil(t, b)
	})
}

func TestNearMissTracker_KeepsClosestAcrossMetrics(t *testing.T) {
	crit := criteria.StrictDefaults()
	var tracker NearMissTracker

	// A probability miss 8 points under (80% of its band) then a cushion
	// miss 0.6 points under (20% of its band): the cushion miss is closer.
	popMiss := passingCandidate(crit)
	popMiss.ProbabilityOfProfit = crit.MinProbabilityOfProfit - 8
	tracker.Consider(popMiss, Rejection{Reason: ReasonLowProbability, Observed: popMiss.ProbabilityOfProfit, Threshold: crit.MinProbabilityOfProfit}, true, crit)

	cushionMiss := passingCandidate(crit)
	cushionMiss.CushionPct = crit.MinCushionPct - 0.6
	tracker.Consider(cushionMiss, Rejection{Reason: ReasonLowCushion, Observed: cushionMiss.CushionPct, Threshold: crit.MinCushionPct}, true, crit)

	best, check := tracker.Result()
	require.NotNil(t, best)
	assert.Equal(t, ReasonLowCushion, check.Reason)
	assert.Equal(t, cushionMiss.CushionPct, best.CushionPct)
}
