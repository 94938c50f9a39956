package criteria

// Price tiers adapt the structural search to the underlying's price
// level: cheaper underlyings get narrower candidate widths and a wider
// relative moneyness window, since a fixed dollar move is a larger
// percentage move for them.

// MoneynessWindow bounds how far in-the-money the long strike may sit,
// as a percentage of the underlying price.
type MoneynessWindow struct {
	MinPct float64
	MaxPct float64
}

// Contains reports whether the given ITM percentage falls in the window.
func (w MoneynessWindow) Contains(itmPct float64) bool {
	return itmPct >= w.MinPct && itmPct <= w.MaxPct
}

const (
	lowPriceCeiling = 25.0
	midPriceCeiling = 100.0
)

// WidthsForPrice returns the candidate spread widths for an underlying
// price tier. An explicit Criteria.Widths list takes precedence over
// this preset.
func (c Criteria) WidthsForPrice(price float64) []float64 {
	if len(c.Widths) > 0 {
		return c.Widths
	}
	switch {
	case price < lowPriceCeiling:
		return []float64{1, 2.5}
	case price < midPriceCeiling:
		return []float64{2.5, 5}
	default:
		return []float64{5, 10}
	}
}

// WindowForPrice returns the long-strike moneyness window for an
// underlying price tier.
func (c Criteria) WindowForPrice(price float64) MoneynessWindow {
	switch {
	case price < lowPriceCeiling:
		return MoneynessWindow{MinPct: 4, MaxPct: 18}
	case price < midPriceCeiling:
		return MoneynessWindow{MinPct: 3, MaxPct: 15}
	default:
		return MoneynessWindow{MinPct: 2, MaxPct: 12}
	}
}
