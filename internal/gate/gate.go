// Package gate implements the pre-scan checklist: a pure rule engine
// that classifies current market state into GO, CAUTION or NO_GO before
// any candidate search is attempted. Every call rebuilds the result from
// a point-in-time snapshot; no state persists between evaluations.
package gate

import (
	"fmt"

	"github.com/tradecraft-io/spreadscan/internal/observ"
)

// Importance partitions checklist conditions. Any failed critical
// condition forces NO_GO; failed important conditions downgrade GO to
// CAUTION.
type Importance string

const (
	Critical  Importance = "critical"
	Important Importance = "important"
	Optional  Importance = "optional"
)

// Recommendation is the gate's terminal output.
type Recommendation string

const (
	Go      Recommendation = "GO"
	Caution Recommendation = "CAUTION"
	NoGo    Recommendation = "NO_GO"
)

// Condition is one independently testable checklist entry.
type Condition struct {
	ID         string     `json:"id"`
	Passed     bool       `json:"passed"`
	Importance Importance `json:"importance"`
	Observed   string     `json:"observed"`
	Threshold  string     `json:"threshold"`
}

// Result is the checklist outcome for one evaluation.
type Result struct {
	Conditions     []Condition    `json:"conditions"`
	Recommendation Recommendation `json:"recommendation"`
	Summary        string         `json:"summary"`
}

// Snapshot is the point-in-time indicator state the gate reads. Pointer
// fields distinguish "absent" from zero: a missing input fails its
// condition rather than being silently swallowed.
type Snapshot struct {
	Price                   float64
	SMA50                   *float64
	SMA200                  *float64
	IVProxy                 *float64
	VolatilityIndex         *float64
	DaysToMacroEvent        *int
	DaysToExpirationCluster *int
	OpenPositions           *int
}

// Config holds the gate thresholds.
type Config struct {
	MinIVProxy                  float64 `yaml:"min_iv_proxy"`
	PanicVolatilityIndex        float64 `yaml:"panic_volatility_index"`
	MacroEventBufferDays        int     `yaml:"macro_event_buffer_days"`
	ExpirationClusterBufferDays int     `yaml:"expiration_cluster_buffer_days"`
	MaxOpenPositions            int     `yaml:"max_open_positions"`
}

// DefaultConfig returns the stock gate thresholds.
func DefaultConfig() Config {
	return Config{
		MinIVProxy:                  0.15,
		PanicVolatilityIndex:        35,
		MacroEventBufferDays:        7,
		ExpirationClusterBufferDays: 3,
		MaxOpenPositions:            5,
	}
}

// Evaluate runs every condition and derives the recommendation:
// all pass -> GO; all critical pass with an important failure -> CAUTION;
// any critical failure -> NO_GO.
func Evaluate(snap Snapshot, cfg Config) Result {
	conditions := []Condition{
		trendCondition(snap),
		macroEventCondition(snap, cfg),
		panicVolatilityCondition(snap, cfg),
		ivFloorCondition(snap, cfg),
		expirationClusterCondition(snap, cfg),
		allocationCondition(snap, cfg),
	}

	criticalFailed, importantFailed, passed := 0, 0, 0
	for _, c := range conditions {
		if c.Passed {
			passed++
			continue
		}
		switch c.Importance {
		case Critical:
			criticalFailed++
		case Important:
			importantFailed++
		}
	}

	rec := Go
	switch {
	case criticalFailed > 0:
		rec = NoGo
	case importantFailed > 0:
		rec = Caution
	}

	observ.IncCounter("gate_evaluations_total", map[string]string{"recommendation": string(rec)})

	return Result{
		Conditions:     conditions,
		Recommendation: rec,
		Summary:        summarize(conditions, passed, rec),
	}
}

func trendCondition(snap Snapshot) Condition {
	c := Condition{ID: "price_above_trend_references", Importance: Critical, Threshold: "price > SMA50 and SMA200"}
	if snap.SMA50 == nil || snap.SMA200 == nil || snap.Price <= 0 {
		c.Observed = "missing"
		return c
	}
	c.Observed = fmt.Sprintf("price %.2f, sma50 %.2f, sma200 %.2f", snap.Price, *snap.SMA50, *snap.SMA200)
	c.Passed = snap.Price > *snap.SMA50 && snap.Price > *snap.SMA200
	return c
}

func macroEventCondition(snap Snapshot, cfg Config) Condition {
	c := Condition{
		ID:         "no_macro_event_nearby",
		Importance: Critical,
		Threshold:  fmt.Sprintf(">= %d days to next high-impact event", cfg.MacroEventBufferDays),
	}
	if snap.DaysToMacroEvent == nil {
		c.Observed = "missing"
		return c
	}
	c.Observed = fmt.Sprintf("%d days", *snap.DaysToMacroEvent)
	c.Passed = *snap.DaysToMacroEvent >= cfg.MacroEventBufferDays
	return c
}

func panicVolatilityCondition(snap Snapshot, cfg Config) Condition {
	c := Condition{
		ID:         "volatility_index_below_panic",
		Importance: Critical,
		Threshold:  fmt.Sprintf("< %.1f", cfg.PanicVolatilityIndex),
	}
	if snap.VolatilityIndex == nil {
		c.Observed = "missing"
		return c
	}
	c.Observed = fmt.Sprintf("%.1f", *snap.VolatilityIndex)
	c.Passed = *snap.VolatilityIndex < cfg.PanicVolatilityIndex
	return c
}

func ivFloorCondition(snap Snapshot, cfg Config) Condition {
	c := Condition{
		ID:         "iv_proxy_above_floor",
		Importance: Important,
		Threshold:  fmt.Sprintf(">= %.2f", cfg.MinIVProxy),
	}
	if snap.IVProxy == nil {
		c.Observed = "missing"
		return c
	}
	c.Observed = fmt.Sprintf("%.2f", *snap.IVProxy)
	c.Passed = *snap.IVProxy >= cfg.MinIVProxy
	return c
}

func expirationClusterCondition(snap Snapshot, cfg Config) Condition {
	c := Condition{
		ID:         "clear_of_expiration_cluster",
		Importance: Important,
		Threshold:  fmt.Sprintf(">= %d days from cluster date", cfg.ExpirationClusterBufferDays),
	}
	if snap.DaysToExpirationCluster == nil {
		c.Observed = "missing"
		return c
	}
	c.Observed = fmt.Sprintf("%d days", *snap.DaysToExpirationCluster)
	c.Passed = *snap.DaysToExpirationCluster >= cfg.ExpirationClusterBufferDays
	return c
}

func allocationCondition(snap Snapshot, cfg Config) Condition {
	c := Condition{
		ID:         "open_positions_below_ceiling",
		Importance: Important,
		Threshold:  fmt.Sprintf("< %d", cfg.MaxOpenPositions),
	}
	if snap.OpenPositions == nil {
		c.Observed = "missing"
		return c
	}
	c.Observed = fmt.Sprintf("%d", *snap.OpenPositions)
	c.Passed = *snap.OpenPositions < cfg.MaxOpenPositions
	return c
}

func summarize(conditions []Condition, passed int, rec Recommendation) string {
	if passed == len(conditions) {
		return fmt.Sprintf("%s: all %d conditions passed", rec, len(conditions))
	}
	var firstFail string
	for _, c := range conditions {
		if !c.Passed {
			firstFail = c.ID
			break
		}
	}
	return fmt.Sprintf("%s: %d/%d conditions passed, first failure %s", rec, passed, len(conditions), firstFail)
}
