// Package strategy turns candle windows into directional trade signals.
// The original system's near-duplicate script variants collapse here into
// named, parameterized strategies behind one interface.
package strategy

import (
	"time"

	"mako/internal/gateway/exchange"
	"mako/internal/market"
)

// Signal is a fresh directional intent, produced at most once per
// evaluation cycle and consumed at most once by the orchestrator.
type Signal struct {
	Symbol         string
	Side           exchange.Side
	ReferencePrice float64
	GeneratedAt    time.Time
}

// Strategy evaluates a candle window for one symbol.
//
// Evaluate returns (nil, nil) when the window is shorter than MinCandles
// or when no setup is present; callers skip the cycle rather than error.
// A returned signal is never both buy and sell: each strategy resolves to
// a single side by construction.
type Strategy interface {
	Name() string
	MinCandles() int
	Evaluate(symbol string, candles []market.Candle) (*Signal, error)
}
