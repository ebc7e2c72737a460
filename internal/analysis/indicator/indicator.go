// Package indicator computes the derived series the strategies read.
// Series are computed over the full candle window; strategies only ever
// look at the last one or two values.
package indicator

import (
	"errors"
	"math"

	"github.com/markcheno/go-talib"

	"mako/internal/market"
)

// ErrInsufficientData is returned when the candle window is shorter than
// the longest configured lookback.
var ErrInsufficientData = errors.New("not enough candles for indicator lookback")

// Settings holds the lookbacks. Zero values take the defaults below.
type Settings struct {
	FastPeriod int `mapstructure:"fast_period"`
	SlowPeriod int `mapstructure:"slow_period"`
	RSIPeriod  int `mapstructure:"rsi_period"`
	ATRPeriod  int `mapstructure:"atr_period"`
	VWAPWindow int `mapstructure:"vwap_window"`
}

func (s Settings) WithDefaults() Settings {
	if s.FastPeriod <= 0 {
		s.FastPeriod = 9
	}
	if s.SlowPeriod <= 0 {
		s.SlowPeriod = 21
	}
	if s.RSIPeriod <= 0 {
		s.RSIPeriod = 14
	}
	if s.ATRPeriod <= 0 {
		s.ATRPeriod = 14
	}
	if s.VWAPWindow <= 0 {
		s.VWAPWindow = 20
	}
	return s
}

// MinCandles is the longest lookback plus one closed candle for the
// previous-value reads the crossover check needs.
func (s Settings) MinCandles() int {
	s = s.WithDefaults()
	longest := s.FastPeriod
	for _, p := range []int{s.SlowPeriod, s.RSIPeriod, s.ATRPeriod + 1, s.VWAPWindow} {
		if p > longest {
			longest = p
		}
	}
	return longest + 1
}

// Snapshot carries the latest (and previous, where crossovers need them)
// values of each derived series.
type Snapshot struct {
	Close      float64
	FastMA     float64
	SlowMA     float64
	PrevFastMA float64
	PrevSlowMA float64
	VWAP       float64
	RSI        float64
	ATR        float64
	Count      int
}

// Compute evaluates all series over candles. Fails with
// ErrInsufficientData when the window is too short.
func Compute(candles []market.Candle, cfg Settings) (*Snapshot, error) {
	cfg = cfg.WithDefaults()
	if len(candles) < cfg.MinCandles() {
		return nil, ErrInsufficientData
	}

	closes := make([]float64, len(candles))
	highs := make([]float64, len(candles))
	lows := make([]float64, len(candles))
	volumes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
		highs[i] = c.High
		lows[i] = c.Low
		volumes[i] = c.Volume
	}

	fast := talib.Sma(closes, cfg.FastPeriod)
	slow := talib.Sma(closes, cfg.SlowPeriod)
	rsi := talib.Rsi(closes, cfg.RSIPeriod)
	atr := talib.Atr(highs, lows, closes, cfg.ATRPeriod)

	snap := &Snapshot{
		Close:      closes[len(closes)-1],
		FastMA:     last(fast),
		SlowMA:     last(slow),
		PrevFastMA: prev(fast),
		PrevSlowMA: prev(slow),
		VWAP:       rollingVWAP(candles, cfg.VWAPWindow),
		RSI:        last(rsi),
		ATR:        last(atr),
		Count:      len(candles),
	}
	return snap, nil
}

// rollingVWAP is sum(typicalPrice*volume)/sum(volume) over the trailing
// window. talib has no VWAP, so this one is computed by hand.
func rollingVWAP(candles []market.Candle, window int) float64 {
	if window > len(candles) {
		window = len(candles)
	}
	var pv, vol float64
	for _, c := range candles[len(candles)-window:] {
		typical := (c.High + c.Low + c.Close) / 3
		pv += typical * c.Volume
		vol += c.Volume
	}
	if vol == 0 {
		return candles[len(candles)-1].Close
	}
	return pv / vol
}

func last(series []float64) float64 {
	for i := len(series) - 1; i >= 0; i-- {
		if !math.IsNaN(series[i]) {
			return series[i]
		}
	}
	return 0
}

func prev(series []float64) float64 {
	seen := false
	for i := len(series) - 1; i >= 0; i-- {
		if math.IsNaN(series[i]) {
			continue
		}
		if seen {
			return series[i]
		}
		seen = true
	}
	return 0
}
