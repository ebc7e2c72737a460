package strategy

import (
	"fmt"
	"time"

	"mako/internal/analysis/indicator"
	"mako/internal/gateway/exchange"
	"mako/internal/market"
)

// CrossoverConfig parameterizes the moving-average crossover strategy.
type CrossoverConfig struct {
	Indicators  indicator.Settings `mapstructure:",squash"`
	ConfirmVWAP bool               `mapstructure:"confirm_vwap"`
}

// Crossover signals on a fast/slow SMA cross, optionally confirmed by the
// close sitting on the right side of VWAP.
type Crossover struct {
	cfg CrossoverConfig
}

func NewCrossover(cfg CrossoverConfig) *Crossover {
	cfg.Indicators = cfg.Indicators.WithDefaults()
	if cfg.Indicators.FastPeriod > cfg.Indicators.SlowPeriod {
		// A reversed pair would invert every signal.
		cfg.Indicators.FastPeriod, cfg.Indicators.SlowPeriod =
			cfg.Indicators.SlowPeriod, cfg.Indicators.FastPeriod
	}
	return &Crossover{cfg: cfg}
}

func (c *Crossover) Name() string { return "crossover" }

func (c *Crossover) MinCandles() int { return c.cfg.Indicators.MinCandles() }

func (c *Crossover) Evaluate(symbol string, candles []market.Candle) (*Signal, error) {
	if len(candles) < c.MinCandles() {
		return nil, nil
	}
	snap, err := indicator.Compute(candles, c.cfg.Indicators)
	if err != nil {
		return nil, fmt.Errorf("crossover %s: %w", symbol, err)
	}

	crossedUp := snap.PrevFastMA <= snap.PrevSlowMA && snap.FastMA > snap.SlowMA
	crossedDown := snap.PrevFastMA >= snap.PrevSlowMA && snap.FastMA < snap.SlowMA

	var side exchange.Side
	switch {
	case crossedUp && (!c.cfg.ConfirmVWAP || snap.Close > snap.VWAP):
		side = exchange.SideBuy
	case crossedDown && (!c.cfg.ConfirmVWAP || snap.Close < snap.VWAP):
		side = exchange.SideSell
	default:
		return nil, nil
	}
	return &Signal{
		Symbol:         symbol,
		Side:           side,
		ReferencePrice: snap.Close,
		GeneratedAt:    time.Now(),
	}, nil
}
