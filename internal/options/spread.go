package options

import "math"

// SpreadType identifies the two vertical structures the screener trades:
// bull call spreads entered for a debit and bull put spreads entered for
// a credit. Both buy the lower strike and sell the higher strike.
type SpreadType string

const (
	DebitCallSpread SpreadType = "debit_call"
	CreditPutSpread SpreadType = "credit_put"
)

// IsDebit reports whether entering the spread costs money up front.
func (t SpreadType) IsDebit() bool {
	return t == DebitCallSpread
}

// LegSide returns the option side both legs of this spread use.
func (t SpreadType) LegSide() Side {
	if t == DebitCallSpread {
		return Call
	}
	return Put
}

// SpreadCandidate is an ephemeral, fully derived description of one
// long/short strike pair. It has no identity beyond its field values and
// is rebuilt from scratch on every evaluation.
type SpreadCandidate struct {
	Underlying          string     `json:"underlying"`
	Type                SpreadType `json:"type"`
	LongStrike          float64    `json:"long_strike"`
	ShortStrike         float64    `json:"short_strike"`
	Width               float64    `json:"width"`
	NetPrice            float64    `json:"net_price"`
	Breakeven           float64    `json:"breakeven"`
	MaxProfit           float64    `json:"max_profit"`
	MaxLoss             float64    `json:"max_loss"`
	CushionPct          float64    `json:"cushion_pct"`
	ReturnOnRisk        float64    `json:"return_on_risk"`
	ProbabilityOfProfit float64    `json:"probability_of_profit"`
	DaysToExpiration    int        `json:"days_to_expiration"`
}

// BuildCandidate derives the full economics of a spread from its legs and
// a resolved net price. ProbabilityOfProfit is left zero; the evaluator
// fills it once the cheaper checks have passed.
//
// Debit call spread: breakeven = longStrike + debit, risk = debit,
// reward = width - debit. Credit put spread: breakeven = shortStrike -
// credit, risk = width - credit, reward = credit.
func BuildCandidate(typ SpreadType, underlying string, long, short OptionQuote, netPrice, spot float64, dte int) SpreadCandidate {
	width := math.Abs(short.Strike - long.Strike)

	var breakeven, maxProfit, maxLoss float64
	if typ.IsDebit() {
		breakeven = long.Strike + netPrice
		maxProfit = width - netPrice
		maxLoss = netPrice
	} else {
		breakeven = short.Strike - netPrice
		maxProfit = netPrice
		maxLoss = width - netPrice
	}

	ror := 0.0
	if maxLoss > 0 {
		ror = maxProfit / maxLoss
	}

	cushion := 0.0
	if spot > 0 {
		cushion = (spot - breakeven) / spot * 100
	}

	return SpreadCandidate{
		Underlying:       underlying,
		Type:             typ,
		LongStrike:       long.Strike,
		ShortStrike:      short.Strike,
		Width:            width,
		NetPrice:         netPrice,
		Breakeven:        breakeven,
		MaxProfit:        maxProfit,
		MaxLoss:          maxLoss,
		CushionPct:       cushion,
		ReturnOnRisk:     ror,
		DaysToExpiration: dte,
	}
}
