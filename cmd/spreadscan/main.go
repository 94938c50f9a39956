package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/tradecraft-io/spreadscan/internal/adapters"
	"github.com/tradecraft-io/spreadscan/internal/config"
	"github.com/tradecraft-io/spreadscan/internal/criteria"
	"github.com/tradecraft-io/spreadscan/internal/exits"
	"github.com/tradecraft-io/spreadscan/internal/gate"
	"github.com/tradecraft-io/spreadscan/internal/indicators"
	"github.com/tradecraft-io/spreadscan/internal/observ"
	"github.com/tradecraft-io/spreadscan/internal/options"
	"github.com/tradecraft-io/spreadscan/internal/outbox"
	"github.com/tradecraft-io/spreadscan/internal/report"
	"github.com/tradecraft-io/spreadscan/internal/scan"
)

var (
	configPath    string
	positionsPath string
)

func main() {
	// Optional .env for local overrides; absence is fine.
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:   "spreadscan",
		Short: "Vertical spread screener with an entry checklist and exit monitor",
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to config file")

	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "Run the entry gate, then screen every configured underlying",
		RunE:  runScan,
	}

	checklistCmd := &cobra.Command{
		Use:   "checklist",
		Short: "Evaluate the entry checklist only",
		RunE:  runChecklist,
	}

	monitorCmd := &cobra.Command{
		Use:   "monitor",
		Short: "Evaluate exit rules over open positions",
		RunE:  runMonitor,
	}
	monitorCmd.Flags().StringVarP(&positionsPath, "positions", "p", "data/positions.json", "path to open positions file")

	root.AddCommand(scanCmd, checklistCmd, monitorCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setup() (config.Root, *outbox.Outbox, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Root{}, nil, fmt.Errorf("loading config: %w", err)
	}
	observ.SetLevel(cfg.LogLevel)

	sink, err := outbox.New(cfg.OutboxPath)
	if err != nil {
		return config.Root{}, nil, fmt.Errorf("opening outbox: %w", err)
	}
	return cfg, sink, nil
}

// evaluateGate assembles the indicator snapshot from the benchmark
// underlying's history plus market-wide state, and runs the checklist.
func evaluateGate(ctx context.Context, cfg config.Root, provider *adapters.FixtureProvider, now time.Time) (gate.Result, error) {
	if len(cfg.Underlyings) == 0 {
		return gate.Result{}, fmt.Errorf("no underlyings configured")
	}
	benchmark := cfg.Underlyings[0]

	quote, err := provider.FetchQuote(ctx, benchmark)
	if err != nil {
		return gate.Result{}, fmt.Errorf("fetching benchmark quote: %w", err)
	}
	closes, err := provider.FetchDailyCloses(ctx, benchmark, cfg.Fetch.HistoryDays)
	if err != nil {
		return gate.Result{}, fmt.Errorf("fetching benchmark history: %w", err)
	}

	in := indicators.GateInputs{
		Price:                   quote.Price,
		DailyCloses:             closes,
		DaysToMacroEvent:        -1,
		DaysToExpirationCluster: -1,
		OpenPositions:           -1,
	}
	// Market state is best-effort: a missing market.json leaves those
	// inputs absent and lets the gate fail the affected conditions.
	if st, err := provider.FetchMarketState(ctx, now); err == nil {
		in.VolatilityIndex = st.VolatilityIndex
		in.HasVolatilityIndex = st.HasVolatilityIndex
		in.DaysToMacroEvent = st.DaysToMacroEvent
		in.DaysToExpirationCluster = st.DaysToExpirationCluster
		in.OpenPositions = st.OpenPositions
	} else {
		observ.Warn("market_state_unavailable", map[string]any{"error": err.Error()})
	}

	return gate.Evaluate(indicators.BuildGateSnapshot(in), cfg.Gate), nil
}

func runChecklist(cmd *cobra.Command, args []string) error {
	cfg, sink, err := setup()
	if err != nil {
		return err
	}
	provider := adapters.NewFixtureProvider(cfg.FixtureDir)

	res, err := evaluateGate(cmd.Context(), cfg, provider, time.Now().UTC())
	if err != nil {
		return err
	}

	report.WriteChecklist(os.Stdout, res)
	return sink.WriteChecklist(res)
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, sink, err := setup()
	if err != nil {
		return err
	}

	// Criteria construction is the one fatal error class: a bad bundle
	// is a caller bug, not a market condition.
	crit, err := cfg.Criteria()
	if err != nil {
		return err
	}
	spreadType, err := cfg.Spread()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	now := time.Now().UTC()
	fixture := adapters.NewFixtureProvider(cfg.FixtureDir)

	gateRes, err := evaluateGate(ctx, cfg, fixture, now)
	if err != nil {
		return err
	}
	report.WriteChecklist(os.Stdout, gateRes)
	if err := sink.WriteChecklist(gateRes); err != nil {
		return err
	}
	if gateRes.Recommendation == gate.NoGo {
		observ.Log("scan_skipped", map[string]any{"run_id": sink.RunID(), "reason": gateRes.Summary})
		return nil
	}

	var chains adapters.ChainProvider = fixture
	chains = adapters.NewRetryingChainProvider(chains, time.Duration(cfg.Fetch.RetryBudgetSeconds)*time.Second)
	chains = adapters.NewRateLimitedChainProvider(chains, cfg.Fetch.RequestsPerSecond)
	chains = adapters.NewCachingChainProvider(chains, 5*time.Minute)

	// One worker per underlying: every evaluation is pure and per-call,
	// so results are simply collected in input order afterwards.
	results := make([]scan.Result, len(cfg.Underlyings))
	var wg sync.WaitGroup
	for i, underlying := range cfg.Underlyings {
		wg.Add(1)
		go func(i int, underlying string) {
			defer wg.Done()
			results[i] = scanOne(ctx, chains, fixture, underlying, spreadType, crit, now)
		}(i, underlying)
	}
	wg.Wait()

	report.WriteScanResults(os.Stdout, results)
	for _, res := range results {
		if err := sink.WriteScan(res); err != nil {
			return err
		}
	}
	observ.Log("scan_complete", map[string]any{"run_id": sink.RunID(), "underlyings": len(results)})
	return nil
}

// scanOne fetches one underlying's data and runs the pipeline. Fetch
// failures stay local to the underlying: they become a no_price_data
// result instead of aborting the run.
func scanOne(ctx context.Context, chains adapters.ChainProvider, quotes adapters.QuoteProvider, underlying string, spreadType options.SpreadType, crit criteria.Criteria, now time.Time) scan.Result {
	quote, err := quotes.FetchQuote(ctx, underlying)
	if err != nil {
		observ.Error("quote_fetch_failed", err, map[string]any{"underlying": underlying})
		return scan.Result{Underlying: underlying, SpreadType: spreadType, Mode: crit.Mode,
			RejectionReason: scan.ReasonNoPriceData, RejectionStats: scan.Stats{scan.ReasonNoPriceData: 1}}
	}

	chain, err := chains.FetchChain(ctx, underlying, crit.TargetDTE, now)
	if err != nil {
		observ.Error("chain_fetch_failed", err, map[string]any{"underlying": underlying})
		return scan.Result{Underlying: underlying, SpreadType: spreadType, Mode: crit.Mode,
			RejectionReason: scan.ReasonNoPriceData, RejectionStats: scan.Stats{scan.ReasonNoPriceData: 1}}
	}

	start := time.Now()
	res := scan.Run(chain, spreadType, quote, crit, now)
	observ.RecordDuration("scan_duration", time.Since(start), map[string]string{"underlying": underlying})
	return res
}

func runMonitor(cmd *cobra.Command, args []string) error {
	cfg, sink, err := setup()
	if err != nil {
		return err
	}

	b, err := os.ReadFile(positionsPath)
	if err != nil {
		return fmt.Errorf("reading positions: %w", err)
	}
	var positions []exits.PositionSnapshot
	if err := json.Unmarshal(b, &positions); err != nil {
		return fmt.Errorf("parsing positions: %w", err)
	}

	decisions := make([]exits.Decision, len(positions))
	for i, pos := range positions {
		decisions[i] = exits.Evaluate(pos, cfg.Exit)
		if err := sink.WriteExit(pos, decisions[i]); err != nil {
			return err
		}
	}

	report.WriteExitDecisions(os.Stdout, positions, decisions)
	return nil
}
