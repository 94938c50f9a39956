package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tradecraft-io/spreadscan/internal/criteria"
	"github.com/tradecraft-io/spreadscan/internal/exits"
	"github.com/tradecraft-io/spreadscan/internal/gate"
	"github.com/tradecraft-io/spreadscan/internal/options"
)

// Overrides are the optional caller adjustments layered onto the
// selected criteria preset at build time.
type Overrides struct {
	TargetDTE int       `yaml:"target_dte"`
	MinPoP    float64   `yaml:"min_pop"`
	Widths    []float64 `yaml:"widths"`
}

// Fetch tunes the provider decorators that wrap the data collaborator.
type Fetch struct {
	RetryBudgetSeconds int     `yaml:"retry_budget_seconds"`
	RequestsPerSecond  float64 `yaml:"requests_per_second"`
	HistoryDays        int     `yaml:"history_days"`
}

type Root struct {
	Mode        string       `yaml:"mode"`        // strict | relaxed
	SpreadType  string       `yaml:"spread_type"` // debit_call | credit_put
	Underlyings []string     `yaml:"underlyings"`
	FixtureDir  string       `yaml:"fixture_dir"`
	OutboxPath  string       `yaml:"outbox_path"`
	LogLevel    string       `yaml:"log_level"`
	Overrides   Overrides    `yaml:"overrides"`
	Gate        gate.Config  `yaml:"gate"`
	Exit        exits.Config `yaml:"exit"`
	Fetch       Fetch        `yaml:"fetch"`
}

func Load(path string) (Root, error) {
	var c Root
	b, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return c, err
	}

	if c.Mode == "" {
		c.Mode = string(criteria.Strict)
	}
	if c.SpreadType == "" {
		c.SpreadType = string(options.DebitCallSpread)
	}
	if c.FixtureDir == "" {
		c.FixtureDir = "data/fixtures"
	}
	if c.OutboxPath == "" {
		c.OutboxPath = "data/outbox.jsonl"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	// Each threshold defaults independently so a partial block only
	// overrides what it names.
	gateDef := gate.DefaultConfig()
	if c.Gate.MinIVProxy == 0 {
		c.Gate.MinIVProxy = gateDef.MinIVProxy
	}
	if c.Gate.PanicVolatilityIndex == 0 {
		c.Gate.PanicVolatilityIndex = gateDef.PanicVolatilityIndex
	}
	if c.Gate.MacroEventBufferDays == 0 {
		c.Gate.MacroEventBufferDays = gateDef.MacroEventBufferDays
	}
	if c.Gate.ExpirationClusterBufferDays == 0 {
		c.Gate.ExpirationClusterBufferDays = gateDef.ExpirationClusterBufferDays
	}
	if c.Gate.MaxOpenPositions == 0 {
		c.Gate.MaxOpenPositions = gateDef.MaxOpenPositions
	}
	exitDef := exits.DefaultConfig()
	if c.Exit.ProfitTargetPct == 0 {
		c.Exit.ProfitTargetPct = exitDef.ProfitTargetPct
	}
	if c.Exit.CloseOutDTE == 0 {
		c.Exit.CloseOutDTE = exitDef.CloseOutDTE
	}
	if c.Exit.StopLossMultiple == 0 {
		c.Exit.StopLossMultiple = exitDef.StopLossMultiple
	}
	if c.Exit.DeltaDefense == 0 {
		c.Exit.DeltaDefense = exitDef.DeltaDefense
	}
	if c.Exit.PanicVolatilityIndex == 0 {
		c.Exit.PanicVolatilityIndex = exitDef.PanicVolatilityIndex
	}
	if c.Fetch.RetryBudgetSeconds == 0 {
		c.Fetch.RetryBudgetSeconds = 30
	}
	if c.Fetch.RequestsPerSecond == 0 {
		c.Fetch.RequestsPerSecond = 2
	}
	if c.Fetch.HistoryDays == 0 {
		c.Fetch.HistoryDays = 250
	}

	return c, nil
}

// Criteria builds and validates the threshold bundle this config selects.
// An error here is a configuration bug and must abort the run before any
// evaluation starts.
func (c Root) Criteria() (criteria.Criteria, error) {
	ov := criteria.Overrides{Widths: c.Overrides.Widths}
	if c.Overrides.TargetDTE > 0 {
		dte := c.Overrides.TargetDTE
		ov.TargetDTE = &dte
	}
	if c.Overrides.MinPoP > 0 {
		pop := c.Overrides.MinPoP
		ov.MinProbabilityOfProfit = &pop
	}
	return criteria.Build(criteria.Mode(c.Mode), ov)
}

// Spread parses the configured spread type.
func (c Root) Spread() (options.SpreadType, error) {
	switch options.SpreadType(c.SpreadType) {
	case options.DebitCallSpread:
		return options.DebitCallSpread, nil
	case options.CreditPutSpread:
		return options.CreditPutSpread, nil
	default:
		return "", fmt.Errorf("config: unknown spread type %q", c.SpreadType)
	}
}
