package strategy

import (
	"fmt"
	"time"

	"mako/internal/analysis/indicator"
	"mako/internal/gateway/exchange"
	"mako/internal/market"
)

// MomentumConfig parameterizes the RSI mean-reversion strategy.
type MomentumConfig struct {
	Indicators indicator.Settings `mapstructure:",squash"`
	Oversold   float64            `mapstructure:"oversold"`
	Overbought float64            `mapstructure:"overbought"`
	// MinATRRatio suppresses entries in dead markets: ATR/close must be at
	// least this ratio. Zero disables the floor.
	MinATRRatio float64 `mapstructure:"min_atr_ratio"`
}

func (c MomentumConfig) withDefaults() MomentumConfig {
	c.Indicators = c.Indicators.WithDefaults()
	if c.Oversold <= 0 {
		c.Oversold = 30
	}
	if c.Overbought <= 0 {
		c.Overbought = 70
	}
	if c.Oversold >= c.Overbought {
		c.Oversold, c.Overbought = 30, 70
	}
	return c
}

// Momentum buys oversold and sells overbought RSI readings, gated by a
// minimum volatility floor.
type Momentum struct {
	cfg MomentumConfig
}

func NewMomentum(cfg MomentumConfig) *Momentum {
	return &Momentum{cfg: cfg.withDefaults()}
}

func (m *Momentum) Name() string { return "momentum" }

func (m *Momentum) MinCandles() int { return m.cfg.Indicators.MinCandles() }

func (m *Momentum) Evaluate(symbol string, candles []market.Candle) (*Signal, error) {
	if len(candles) < m.MinCandles() {
		return nil, nil
	}
	snap, err := indicator.Compute(candles, m.cfg.Indicators)
	if err != nil {
		return nil, fmt.Errorf("momentum %s: %w", symbol, err)
	}
	if m.cfg.MinATRRatio > 0 && snap.Close > 0 && snap.ATR/snap.Close < m.cfg.MinATRRatio {
		return nil, nil
	}

	var side exchange.Side
	switch {
	case snap.RSI <= m.cfg.Oversold:
		side = exchange.SideBuy
	case snap.RSI >= m.cfg.Overbought:
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
