package scan

import (
	"github.com/tradecraft-io/spreadscan/internal/criteria"
	"github.com/tradecraft-io/spreadscan/internal/options"
)

// PriceSource records which rung of the resolution ladder produced the
// usable net price.
type PriceSource string

const (
	PriceSourceMarket      PriceSource = "market"
	PriceSourceMid         PriceSource = "mid"
	PriceSourceAdjustedMid PriceSource = "adjusted_mid"
)

// ResolvedPrice is the outcome of the pricing ladder for one pair.
type ResolvedPrice struct {
	Net    float64
	Ratio  float64
	Source PriceSource
}

// ResolvePrice determines a usable net debit/credit for a leg pair.
//
// The quoted market price (long ask vs short bid) is taken at face value
// when its ratio to width lands inside the acceptable band. Deep
// in-the-money legs often quote an unexecutable market price, so when the
// ratio is above the band the bid/ask midpoint of both legs is used
// instead; when it is below the band, a slightly lifted mid (mid x the
// configured adjustment factor) is tried against the band's ceiling.
// When no rung produces a usable price the pair is rejected with
// invalid_price.
func ResolvePrice(p Pair, typ options.SpreadType, crit criteria.Criteria) (ResolvedPrice, *Rejection) {
	if p.Width <= 0 {
		return ResolvedPrice{}, &Rejection{Reason: ReasonInvalidPrice}
	}

	var market, mid float64
	if typ.IsDebit() {
		market = p.Long.Ask - p.Short.Bid
		mid = p.Long.Mid() - p.Short.Mid()
	} else {
		market = p.Short.Bid - p.Long.Ask
		mid = p.Short.Mid() - p.Long.Mid()
	}

	if market <= 0 && mid <= 0 {
		return ResolvedPrice{}, &Rejection{Reason: ReasonNoPriceData}
	}

	marketRatio := market / p.Width

	// In-band market prices are returned exactly, never substituted.
	if marketRatio >= crit.MinPriceRatio && marketRatio <= crit.MaxPriceRatio {
		return ResolvedPrice{Net: market, Ratio: marketRatio, Source: PriceSourceMarket}, nil
	}

	if marketRatio > crit.MaxPriceRatio {
		midRatio := mid / p.Width
		if midRatio >= crit.MinPriceRatio && midRatio <= crit.MaxPriceRatio {
			return ResolvedPrice{Net: mid, Ratio: midRatio, Source: PriceSourceMid}, nil
		}
		return ResolvedPrice{}, &Rejection{
			Reason:    ReasonInvalidPrice,
			Observed:  marketRatio,
			Threshold: crit.MaxPriceRatio,
		}
	}

	// Market ratio below the band: the quote is suspiciously cheap, so
	// assume a fill slightly worse than mid and re-check the ceiling.
	adjusted := mid * crit.MidAdjustFactor
	adjRatio := adjusted / p.Width
	if adjusted > 0 && adjRatio <= crit.MaxPriceRatio {
		return ResolvedPrice{Net: adjusted, Ratio: adjRatio, Source: PriceSourceAdjustedMid}, nil
	}

	return ResolvedPrice{}, &Rejection{
		Reason:    ReasonInvalidPrice,
		Observed:  marketRatio,
		Threshold: crit.MinPriceRatio,
	}
}
