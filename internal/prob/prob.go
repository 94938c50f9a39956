// Package prob estimates the probability that an underlying finishes
// beyond a breakeven price at expiration. It is a closed-form lognormal
// estimate, not an options-pricing model: the log price ratio is treated
// as normal with standard deviation iv*sqrt(dte/365).
package prob

import "math"

// Estimates are clamped into this band to avoid reporting overconfident
// extremes from a model this simple.
const (
	FloorPct = 5.0
	CeilPct  = 95.0
)

// Fallback values used when volatility or time input is unusable. These
// are deliberate conservative placeholders, not estimates; callers that
// need a real probability must supply a positive IV and DTE.
const (
	fallbackAbove = 75.0
	fallbackBelow = 25.0
)

// Estimate returns the probability, in percent, that price finishes above
// breakeven at expiration. The result is always within [FloorPct, CeilPct].
func Estimate(price, breakeven, impliedVol float64, daysToExpiration int) float64 {
	if price <= 0 || breakeven <= 0 {
		return fallbackBelow
	}
	if impliedVol <= 0 || daysToExpiration <= 0 {
		if price > breakeven {
			return fallbackAbove
		}
		return fallbackBelow
	}

	sigma := impliedVol * math.Sqrt(float64(daysToExpiration)/365.0)
	z := math.Log(price/breakeven) / sigma

	return clamp(normCDF(z) * 100)
}

// normCDF computes the standard normal CDF via the Abramowitz & Stegun
// 7.1.26 erf approximation (max absolute error ~1.5e-7).
func normCDF(z float64) float64 {
	return 0.5 * (1 + erf(z/math.Sqrt2))
}

func erf(x float64) float64 {
	sign := 1.0
	if x < 0 {
		sign = -1.0
		x = -x
	}

	const (
		a1 = 0.254829592
		a2 = -0.284496736
		a3 = 1.421413741
		a4 = -1.453152027
		a5 = 1.061405429
		p  = 0.3275911
	)

	t := 1.0 / (1.0 + p*x)
	y := 1.0 - (((((a5*t+a4)*t)+a3)*t+a2)*t+a1)*t*math.Exp(-x*x)

	return sign * y
}

func clamp(pct float64) float64 {
	if pct < FloorPct {
		return FloorPct
	}
	if pct > CeilPct {
		return CeilPct
	}
	return pct
}
