// Package indicators derives the trend and volatility references the
// entry gate reads from raw daily closes. It sits outside the core scan
// path: a data collaborator feeds it history, it feeds the gate a
// snapshot.
package indicators

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"

	"github.com/tradecraft-io/spreadscan/internal/gate"
)

const tradingDaysPerYear = 252

// SMA returns the simple moving average of the last period closes.
func SMA(closes []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("indicators: period %d must be positive", period)
	}
	if len(closes) < period {
		return 0, fmt.Errorf("indicators: need %d closes for SMA, have %d", period, len(closes))
	}
	return stats.Mean(closes[len(closes)-period:])
}

// HistoricalVolatility computes an annualized close-to-close volatility
// from daily closes, used as the gate's implied-volatility proxy when no
// options-derived figure is available.
func HistoricalVolatility(closes []float64) (float64, error) {
	if len(closes) < 2 {
		return 0, fmt.Errorf("indicators: need at least 2 closes, have %d", len(closes))
	}
	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] <= 0 || closes[i] <= 0 {
			return 0, fmt.Errorf("indicators: non-positive close in history")
		}
		returns = append(returns, math.Log(closes[i]/closes[i-1]))
	}
	sd, err := stats.StandardDeviationSample(returns)
	if err != nil {
		return 0, err
	}
	return sd * math.Sqrt(tradingDaysPerYear), nil
}

// GateInputs bundles everything needed to assemble a gate snapshot.
// Negative day counts and position counts mean "unknown" and leave the
// corresponding snapshot field absent, which the gate fails explicitly.
type GateInputs struct {
	Price                   float64
	DailyCloses             []float64
	VolatilityIndex         float64
	HasVolatilityIndex      bool
	DaysToMacroEvent        int
	DaysToExpirationCluster int
	OpenPositions           int
}

// BuildGateSnapshot computes trend references and the volatility proxy
// from price history and passes the calendar/portfolio fields through.
// References that cannot be computed from the supplied history are left
// nil rather than defaulted.
func BuildGateSnapshot(in GateInputs) gate.Snapshot {
	snap := gate.Snapshot{Price: in.Price}

	if sma50, err := SMA(in.DailyCloses, 50); err == nil {
		snap.SMA50 = &sma50
	}
	if sma200, err := SMA(in.DailyCloses, 200); err == nil {
		snap.SMA200 = &sma200
	}
	if hv, err := HistoricalVolatility(in.DailyCloses); err == nil {
		snap.IVProxy = &hv
	}
	if in.HasVolatilityIndex {
		v := in.VolatilityIndex
		snap.VolatilityIndex = &v
	}
	if in.DaysToMacroEvent >= 0 {
		d := in.DaysToMacroEvent
		snap.DaysToMacroEvent = &d
	}
	if in.DaysToExpirationCluster >= 0 {
		d := in.DaysToExpirationCluster
		snap.DaysToExpirationCluster = &d
	}
	if in.OpenPositions >= 0 {
		n := in.OpenPositions
		snap.OpenPositions = &n
	}
	return snap
}
