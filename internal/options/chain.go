package options

import (
	"math"
	"sort"
	"time"
)

// Side distinguishes calls from puts.
type Side string

const (
	Call Side = "call"
	Put  Side = "put"
)

// OptionQuote is an immutable point-in-time quote for a single strike.
// Owned by the chain it was fetched into; never mutated after construction.
type OptionQuote struct {
	Strike            float64 `json:"strike"`
	Side              Side    `json:"side"`
	Bid               float64 `json:"bid"`
	Ask               float64 `json:"ask"`
	OpenInterest      int     `json:"open_interest"`
	ImpliedVolatility float64 `json:"implied_volatility"`
}

// Mid returns the bid/ask midpoint, falling back to whichever side is quoted.
func (q OptionQuote) Mid() float64 {
	if q.Bid > 0 && q.Ask > 0 {
		return (q.Bid + q.Ask) / 2
	}
	if q.Ask > 0 {
		return q.Ask
	}
	return q.Bid
}

// Chain holds all quotes for one underlying at one expiration.
type Chain struct {
	Underlying string        `json:"underlying"`
	Expiration time.Time     `json:"expiration"`
	Quotes     []OptionQuote `json:"quotes"`
}

// Calls returns the call quotes sorted ascending by strike.
func (c Chain) Calls() []OptionQuote {
	return c.side(Call)
}

// Puts returns the put quotes sorted ascending by strike.
func (c Chain) Puts() []OptionQuote {
	return c.side(Put)
}

func (c Chain) side(s Side) []OptionQuote {
	out := make([]OptionQuote, 0, len(c.Quotes))
	for _, q := range c.Quotes {
		if q.Side == s {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Strike < out[j].Strike })
	return out
}

// Usable reports whether the chain can be scanned at all: at least one
// side populated.
func (c Chain) Usable() bool {
	return len(c.Quotes) > 0
}

// DaysToExpiration computes whole days from now until expiration, floored
// at zero. The caller passes now explicitly so evaluation stays deterministic.
func (c Chain) DaysToExpiration(now time.Time) int {
	d := int(math.Round(c.Expiration.Sub(now).Hours() / 24))
	if d < 0 {
		return 0
	}
	return d
}

// AverageIV returns the mean implied volatility across quotes with a
// positive IV, used as the chain-level volatility input when a per-leg
// figure is missing.
func (c Chain) AverageIV() float64 {
	sum, n := 0.0, 0
	for _, q := range c.Quotes {
		if q.ImpliedVolatility > 0 {
			sum += q.ImpliedVolatility
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
