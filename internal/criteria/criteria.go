// Package criteria holds the screening threshold bundles. A Criteria
// value is immutable configuration: it is built and validated once per
// run and passed by value into every evaluation, so no state leaks
// between runs.
package criteria

import (
	"fmt"

	"github.com/tradecraft-io/spreadscan/internal/prob"
)

// Mode names the two threshold bundles that exist at any time.
type Mode string

const (
	Strict  Mode = "strict"
	Relaxed Mode = "relaxed"
)

// Criteria is a fully specified bundle of entry thresholds. Zero values
// are not meaningful; construct through Build or the presets.
type Criteria struct {
	Mode Mode

	// Net price divided by width must land in [MinPriceRatio, MaxPriceRatio]
	// for a candidate to be executable at a sane level.
	MinPriceRatio float64
	MaxPriceRatio float64

	MinCushionPct          float64
	MinProbabilityOfProfit float64
	MinReturnOnRisk        float64

	// Liquidity floors. The short leg tolerates thinner open interest
	// than the long leg.
	MinOpenInterest      int
	MinShortOpenInterest int

	TargetDTE int

	// Widths, when non-empty, overrides the price-tier width preset.
	Widths []float64

	// MidAdjustFactor lifts the mid price when the quoted market price
	// sits below the acceptable band. Empirically chosen constant,
	// preserved as configuration rather than re-derived.
	MidAdjustFactor float64

	// Near-miss tolerance bands, in points of the respective metric.
	CushionTolerance float64
	PopTolerance     float64
}

// Fixed offsets applied to the strict bundle to produce the relaxed one.
// These are documented constants, not re-derived per run.
const (
	relaxCushionOffset  = 2.0
	relaxPopOffset      = 10.0
	relaxRorOffset      = 0.05
	relaxLongOIOffset   = 25
	relaxShortOIOffset  = 15
	relaxRatioLowOffset = 0.05
)

// StrictDefaults returns the strict preset.
func StrictDefaults() Criteria {
	return Criteria{
		Mode:                   Strict,
		MinPriceRatio:          0.55,
		MaxPriceRatio:          0.80,
		MinCushionPct:          7.0,
		MinProbabilityOfProfit: 65.0,
		MinReturnOnRisk:        0.18,
		MinOpenInterest:        50,
		MinShortOpenInterest:   25,
		TargetDTE:              30,
		MidAdjustFactor:        1.1,
		CushionTolerance:       3.0,
		PopTolerance:           10.0,
	}
}

// RelaxedDefaults returns the strict preset loosened by the fixed offsets.
func RelaxedDefaults() Criteria {
	c := StrictDefaults()
	c.Mode = Relaxed
	c.MinPriceRatio -= relaxRatioLowOffset
	c.MaxPriceRatio += relaxRatioLowOffset
	c.MinCushionPct -= relaxCushionOffset
	c.MinProbabilityOfProfit -= relaxPopOffset
	c.MinReturnOnRisk -= relaxRorOffset
	c.MinOpenInterest -= relaxLongOIOffset
	c.MinShortOpenInterest -= relaxShortOIOffset
	return c
}

// ForMode returns the preset bundle for the given mode.
func ForMode(m Mode) (Criteria, error) {
	switch m {
	case Strict:
		return StrictDefaults(), nil
	case Relaxed:
		return RelaxedDefaults(), nil
	default:
		return Criteria{}, fmt.Errorf("criteria: unknown mode %q", m)
	}
}

// Validate checks internal consistency. A failure here is a caller bug
// and must abort the run before any candidate is evaluated.
func (c Criteria) Validate() error {
	if c.Mode != Strict && c.Mode != Relaxed {
		return fmt.Errorf("criteria: unknown mode %q", c.Mode)
	}
	if c.MinPriceRatio <= 0 || c.MaxPriceRatio <= 0 {
		return fmt.Errorf("criteria: price ratio band must be positive, got [%.2f, %.2f]", c.MinPriceRatio, c.MaxPriceRatio)
	}
	if c.MinPriceRatio >= c.MaxPriceRatio {
		return fmt.Errorf("criteria: min price ratio %.2f must be below max %.2f", c.MinPriceRatio, c.MaxPriceRatio)
	}
	if c.MaxPriceRatio >= 1.0 {
		return fmt.Errorf("criteria: max price ratio %.2f leaves no room for profit inside the width", c.MaxPriceRatio)
	}
	if c.MinCushionPct < 0 || c.MinCushionPct >= 100 {
		return fmt.Errorf("criteria: min cushion %.1f%% out of range", c.MinCushionPct)
	}
	if c.MinProbabilityOfProfit < prob.FloorPct || c.MinProbabilityOfProfit > prob.CeilPct {
		return fmt.Errorf("criteria: min probability %.1f outside the model's [%.0f, %.0f] band",
			c.MinProbabilityOfProfit, prob.FloorPct, prob.CeilPct)
	}
	if c.MinReturnOnRisk < 0 {
		return fmt.Errorf("criteria: min return on risk %.2f must be non-negative", c.MinReturnOnRisk)
	}
	if c.MinOpenInterest < 0 || c.MinShortOpenInterest < 0 {
		return fmt.Errorf("criteria: open interest floors must be non-negative")
	}
	if c.MinShortOpenInterest > c.MinOpenInterest {
		return fmt.Errorf("criteria: short leg OI floor %d exceeds long leg floor %d", c.MinShortOpenInterest, c.MinOpenInterest)
	}
	if c.TargetDTE <= 0 {
		return fmt.Errorf("criteria: target DTE %d must be positive", c.TargetDTE)
	}
	if c.MidAdjustFactor < 1.0 {
		return fmt.Errorf("criteria: mid adjust factor %.2f must be >= 1", c.MidAdjustFactor)
	}
	if c.CushionTolerance < 0 || c.PopTolerance < 0 {
		return fmt.Errorf("criteria: near-miss tolerances must be non-negative")
	}
	for _, w := range c.Widths {
		if w <= 0 {
			return fmt.Errorf("criteria: candidate width %.2f must be positive", w)
		}
	}
	return nil
}

// Overrides carries the optional per-run caller adjustments. Nil pointer
// fields mean "keep the preset value"; there is no partial-object merging
// at evaluation time.
type Overrides struct {
	TargetDTE              *int
	MinProbabilityOfProfit *float64
	Widths                 []float64
}

// Build resolves a mode preset, applies overrides, and validates the
// result. This is the single entry point through which every run obtains
// its Criteria; an error here is fatal to the run.
func Build(mode Mode, ov Overrides) (Criteria, error) {
	c, err := ForMode(mode)
	if err != nil {
		return Criteria{}, err
	}
	if ov.TargetDTE != nil {
		c.TargetDTE = *ov.TargetDTE
	}
	if ov.MinProbabilityOfProfit != nil {
		c.MinProbabilityOfProfit = *ov.MinProbabilityOfProfit
	}
	if len(ov.Widths) > 0 {
		c.Widths = append([]float64(nil), ov.Widths...)
	}
	if err := c.Validate(); err != nil {
		return Criteria{}, err
	}
	return c, nil
}
