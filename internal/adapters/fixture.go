package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tradecraft-io/spreadscan/internal/options"
)

// FixtureProvider serves chains, quotes and market state from JSON
// fixture files, one file per underlying plus a market.json. It is the
// reference data collaborator used by the CLI and tests; a live broker
// client would implement the same interfaces.
type FixtureProvider struct {
	dir string
}

// NewFixtureProvider roots a provider at a fixture directory.
func NewFixtureProvider(dir string) *FixtureProvider {
	return &FixtureProvider{dir: dir}
}

type fixtureFile struct {
	Quote       options.QuoteSnapshot `json:"quote"`
	DailyCloses []float64             `json:"daily_closes"`
	Chains      []options.Chain       `json:"chains"`
}

// FetchChain returns the fixture chain whose expiration lies closest to
// now + targetDTE.
func (p *FixtureProvider) FetchChain(ctx context.Context, underlying string, targetDTE int, now time.Time) (options.Chain, error) {
	f, err := p.load(ctx, underlying)
	if err != nil {
		return options.Chain{}, err
	}
	if len(f.Chains) == 0 {
		return options.Chain{}, fmt.Errorf("adapters: no chains in fixture for %s", underlying)
	}

	target := now.AddDate(0, 0, targetDTE)
	best := f.Chains[0]
	bestDiff := math.Abs(best.Expiration.Sub(target).Hours())
	for _, c := range f.Chains[1:] {
		if diff := math.Abs(c.Expiration.Sub(target).Hours()); diff < bestDiff {
			best, bestDiff = c, diff
		}
	}
	return best, nil
}

// FetchQuote returns the fixture quote snapshot.
func (p *FixtureProvider) FetchQuote(ctx context.Context, underlying string) (options.QuoteSnapshot, error) {
	f, err := p.load(ctx, underlying)
	if err != nil {
		return options.QuoteSnapshot{}, err
	}
	return f.Quote, nil
}

// FetchDailyCloses returns up to days of fixture closes, oldest first.
func (p *FixtureProvider) FetchDailyCloses(ctx context.Context, underlying string, days int) ([]float64, error) {
	f, err := p.load(ctx, underlying)
	if err != nil {
		return nil, err
	}
	closes := f.DailyCloses
	if days > 0 && len(closes) > days {
		closes = closes[len(closes)-days:]
	}
	return append([]float64(nil), closes...), nil
}

// FetchMarketState reads market.json from the fixture directory.
func (p *FixtureProvider) FetchMarketState(ctx context.Context, now time.Time) (MarketState, error) {
	if err := ctx.Err(); err != nil {
		return MarketState{}, err
	}
	b, err := os.ReadFile(filepath.Join(p.dir, "market.json"))
	if err != nil {
		return MarketState{}, fmt.Errorf("adapters: reading market state: %w", err)
	}
	var st MarketState
	if err := json.Unmarshal(b, &st); err != nil {
		return MarketState{}, fmt.Errorf("adapters: parsing market state: %w", err)
	}
	return st, nil
}

func (p *FixtureProvider) load(ctx context.Context, underlying string) (fixtureFile, error) {
	if err := ctx.Err(); err != nil {
		return fixtureFile{}, err
	}
	path := filepath.Join(p.dir, strings.ToUpper(underlying)+".json")
	b, err := os.ReadFile(path)
	if err != nil {
		return fixtureFile{}, fmt.Errorf("adapters: reading fixture %s: %w", path, err)
	}
	var f fixtureFile
	if err := json.Unmarshal(b, &f); err != nil {
		return fixtureFile{}, fmt.Errorf("adapters: parsing fixture %s: %w", path, err)
	}
	return f, nil
}
