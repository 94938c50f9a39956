package scan

import (
	"math"

	"github.com/tradecraft-io/spreadscan/internal/criteria"
	"github.com/tradecraft-io/spreadscan/internal/options"
)

// Pair is a structurally valid long/short leg combination. Generation is
// purely structural: no pricing or profitability filtering happens here.
type Pair struct {
	Long  options.OptionQuote
	Short options.OptionQuote
	Width float64
}

// strikeEps absorbs float noise when matching a computed short strike
// against quoted strike levels.
const strikeEps = 0.005

// Generate enumerates every candidate leg pair for one chain. The long
// strike must sit inside the price-tier moneyness window and meet the
// long-leg open-interest floor; the short strike is long+width on the
// same side and meets its own, lower floor. Structural rejections are
// tallied into stats. Runs in O(strikes x widths).
func Generate(chain options.Chain, typ options.SpreadType, spot float64, crit criteria.Criteria, stats Stats) []Pair {
	legs := chain.Calls()
	if typ == options.CreditPutSpread {
		legs = chain.Puts()
	}

	byStrike := make(map[int64]options.OptionQuote, len(legs))
	for _, q := range legs {
		byStrike[strikeKey(q.Strike)] = q
	}

	window := crit.WindowForPrice(spot)
	widths := crit.WidthsForPrice(spot)

	var pairs []Pair
	for _, long := range legs {
		// Distance below spot as a percentage of spot. For calls this is
		// how far in-the-money the long leg sits; for puts it is the
		// protective distance of the lower (long) strike.
		distPct := (spot - long.Strike) / spot * 100
		if !window.Contains(distPct) {
			stats.Add(ReasonNotInMoneynessWindow)
			continue
		}
		if long.OpenInterest < crit.MinOpenInterest {
			stats.Add(ReasonLowOpenInterest)
			continue
		}

		for _, width := range widths {
			short, ok := byStrike[strikeKey(long.Strike+width)]
			if !ok {
				stats.Add(ReasonNoMatchingShortStrike)
				continue
			}
			if short.OpenInterest < crit.MinShortOpenInterest {
				stats.Add(ReasonLowOpenInterest)
				continue
			}
			pairs = append(pairs, Pair{Long: long, Short: short, Width: width})
		}
	}
	return pairs
}

func strikeKey(strike float64) int64 {
	return int64(math.Round(strike / strikeEps))
}
