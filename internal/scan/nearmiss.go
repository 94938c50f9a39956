package scan

import (
	"github.com/tradecraft-io/spreadscan/internal/criteria"
	"github.com/tradecraft-io/spreadscan/internal/options"
)

// NearMissTracker retains the rejected candidate that came closest to
// passing, for operator feedback when a scan finds nothing. A candidate
// qualifies only when it failed a single check and the miss is inside
// that check's tolerance band. The tracker is advisory: its output never
// feeds back into selection.
type NearMissTracker struct {
	best      *options.SpreadCandidate
	rejection Rejection
	score     float64
}

// Consider offers a rejected candidate to the tracker.
func (t *NearMissTracker) Consider(cand options.SpreadCandidate, rej Rejection, soleFailure bool, crit criteria.Criteria) {
	if !soleFailure {
		return
	}

	var tolerance float64
	switch rej.Reason {
	case ReasonLowCushion:
		tolerance = crit.CushionTolerance
	case ReasonLowProbability:
		tolerance = crit.PopTolerance
	default:
		// Only cushion and probability misses carry a tolerance band.
		return
	}
	if tolerance <= 0 {
		return
	}

	gap := rej.Threshold - rej.Observed
	if gap < 0 || gap > tolerance {
		return
	}

	// Normalize by the band width so cushion and probability misses
	// compete on equal footing.
	score := gap / tolerance
	if t.best == nil || score < t.score {
		c := cand
		t.best = &c
		t.rejection = rej
		t.score = score
	}
}

// Result returns the closest near miss and its failing check, or nil
// when nothing qualified.
func (t *NearMissTracker) Result() (*options.SpreadCandidate, *Rejection) {
	if t.best == nil {
		return nil, nil
	}
	r := t.rejection
	return t.best, &r
}
