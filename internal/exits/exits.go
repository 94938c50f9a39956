// Package exits decides when an open vertical spread must be closed.
// Evaluation is a pure function over a position snapshot with a fixed
// priority order; the first matching rule wins.
package exits

import (
	"github.com/tradecraft-io/spreadscan/internal/observ"
	"github.com/tradecraft-io/spreadscan/internal/options"
)

// Reason names the rule that fired.
type Reason string

const (
	ReasonProfitTarget    Reason = "profit_target"
	ReasonTimeExit        Reason = "time_exit"
	ReasonStopLoss        Reason = "stop_loss"
	ReasonDeltaDefense    Reason = "delta_defense"
	ReasonVolatilityPanic Reason = "volatility_panic"
	ReasonNone            Reason = "none"
)

// Urgency tells the caller how fast to act on a close decision.
type Urgency string

const (
	UrgencyImmediate Urgency = "immediate"
	UrgencySoon      Urgency = "soon"
	UrgencyNone      Urgency = "none"
)

// Decision is the evaluator's output. Computed on demand, never stored.
type Decision struct {
	ShouldClose bool    `json:"should_close"`
	Reason      Reason  `json:"reason"`
	Urgency     Urgency `json:"urgency"`
}

// PositionSnapshot is the point-in-time state of one open spread.
type PositionSnapshot struct {
	Underlying      string             `json:"underlying"`
	Type            options.SpreadType `json:"type"`
	EntryPrice      float64            `json:"entry_price"`
	CurrentPrice    float64            `json:"current_price"`
	DaysRemaining   int                `json:"days_remaining"`
	ShortLegDelta   float64            `json:"short_leg_delta"`
	VolatilityIndex float64            `json:"volatility_index"`
}

// ProfitPct returns the open profit as a fraction of the entry price.
// Debit spreads profit when the spread appreciates; credit spreads
// profit when it can be bought back cheaper.
func (p PositionSnapshot) ProfitPct() float64 {
	if p.EntryPrice <= 0 {
		return 0
	}
	if p.Type.IsDebit() {
		return (p.CurrentPrice - p.EntryPrice) / p.EntryPrice
	}
	return (p.EntryPrice - p.CurrentPrice) / p.EntryPrice
}

// LossMultiple returns the open loss as a multiple of the entry price,
// zero when the position is at or above water.
func (p PositionSnapshot) LossMultiple() float64 {
	if pct := p.ProfitPct(); pct < 0 {
		return -pct
	}
	return 0
}

// Config holds the exit thresholds.
type Config struct {
	ProfitTargetPct      float64 `yaml:"profit_target_pct"`
	CloseOutDTE          int     `yaml:"close_out_dte"`
	StopLossMultiple     float64 `yaml:"stop_loss_multiple"`
	DeltaDefense         float64 `yaml:"delta_defense"`
	PanicVolatilityIndex float64 `yaml:"panic_volatility_index"`
}

// DefaultConfig returns the stock exit thresholds.
func DefaultConfig() Config {
	return Config{
		ProfitTargetPct:      0.50,
		CloseOutDTE:          7,
		StopLossMultiple:     1.0,
		DeltaDefense:         0.70,
		PanicVolatilityIndex: 35,
	}
}

// Evaluate runs the exit rules in priority order. The profit target is
// checked before any risk-based stop: a position that satisfies both
// simultaneously is reported as a win, not a loss.
func Evaluate(pos PositionSnapshot, cfg Config) Decision {
	d := decide(pos, cfg)
	if d.ShouldClose {
		observ.IncCounter("exit_signals_total", map[string]string{
			"underlying": pos.Underlying,
			"reason":     string(d.Reason),
		})
	}
	return d
}

func decide(pos PositionSnapshot, cfg Config) Decision {
	if pos.ProfitPct() >= cfg.ProfitTargetPct {
		return Decision{ShouldClose: true, Reason: ReasonProfitTarget, Urgency: UrgencyImmediate}
	}
	if pos.DaysRemaining <= cfg.CloseOutDTE {
		return Decision{ShouldClose: true, Reason: ReasonTimeExit, Urgency: UrgencySoon}
	}
	if pos.LossMultiple() >= cfg.StopLossMultiple {
		return Decision{ShouldClose: true, Reason: ReasonStopLoss, Urgency: UrgencyImmediate}
	}
	if pos.ShortLegDelta >= cfg.DeltaDefense {
		return Decision{ShouldClose: true, Reason: ReasonDeltaDefense, Urgency: UrgencyImmediate}
	}
	if pos.VolatilityIndex >= cfg.PanicVolatilityIndex {
		return Decision{ShouldClose: true, Reason: ReasonVolatilityPanic, Urgency: UrgencyImmediate}
	}
	return Decision{Reason: ReasonNone, Urgency: UrgencyNone}
}
