package scan

// RejectionReason is a closed enumeration of everything that can
// disqualify a chain or a candidate. Callers branch on the kind; they
// never parse message text.
type RejectionReason string

const (
	// Chain-shape rejections: the input was missing something the scan
	// needs. These are expected market conditions, not errors.
	ReasonNoCalls      RejectionReason = "no_calls"
	ReasonNoPuts       RejectionReason = "no_puts"
	ReasonNoPriceData  RejectionReason = "no_price_data"
	ReasonNoITMStrikes RejectionReason = "no_itm_strikes"

	// Structural rejections from candidate generation.
	ReasonNotInMoneynessWindow  RejectionReason = "not_in_moneyness_window"
	ReasonLowOpenInterest       RejectionReason = "low_open_interest"
	ReasonNoMatchingShortStrike RejectionReason = "no_matching_short_strike"

	// Pricing rejection: no rung of the price-resolution ladder produced
	// a usable net price.
	ReasonInvalidPrice RejectionReason = "invalid_price"

	// Constraint rejections, in evaluation order.
	ReasonLowCushion     RejectionReason = "low_cushion"
	ReasonLowReturn      RejectionReason = "low_return"
	ReasonLowProbability RejectionReason = "low_probability"
)

// Rejection records why a candidate failed, with the observed value and
// the threshold it missed so diagnostics can say how close it came.
type Rejection struct {
	Reason    RejectionReason `json:"reason"`
	Observed  float64         `json:"observed"`
	Threshold float64         `json:"threshold"`
}

// Stats aggregates rejection counts per reason across one scan.
type Stats map[RejectionReason]int

// Add increments the count for a reason.
func (s Stats) Add(r RejectionReason) {
	s[r]++
}

// Total returns the number of rejections recorded.
func (s Stats) Total() int {
	n := 0
	for _, c := range s {
		n += c
	}
	return n
}
