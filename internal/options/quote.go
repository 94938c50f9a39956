package options

// QuoteSnapshot is the underlying-level input the scanner needs: the
// current price and an implied-volatility proxy used when the chain
// itself carries no per-strike IV. Produced by an out-of-scope data
// collaborator.
type QuoteSnapshot struct {
	Price   float64 `json:"price"`
	IVProxy float64 `json:"iv_proxy"`
}
