package indicator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mako/internal/market"
)

func flatCandles(n int, price, volume float64) []market.Candle {
	out := make([]market.Candle, n)
	for i := range out {
		out[i] = market.Candle{
			OpenTime: int64(i) * 60_000,
			Open:     price,
			High:     price,
			Low:      price,
			Close:    price,
			Volume:   volume,
		}
	}
	return out
}

func TestComputeInsufficientData(t *testing.T) {
	cfg := Settings{}
	candles := flatCandles(cfg.WithDefaults().MinCandles()-1, 100, 1)
	_, err := Compute(candles, cfg)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestComputeFlatSeries(t *testing.T) {
	candles := flatCandles(60, 100, 2)
	snap, err := Compute(candles, Settings{})
	require.NoError(t, err)

	assert.InDelta(t, 100, snap.Close, 1e-9)
	assert.InDelta(t, 100, snap.FastMA, 1e-9)
	assert.InDelta(t, 100, snap.SlowMA, 1e-9)
	assert.InDelta(t, 100, snap.VWAP, 1e-9)
	assert.InDelta(t, 0, snap.ATR, 1e-9)
	assert.Equal(t, 60, snap.Count)
}

func TestRollingVWAPWeightsByVolume(t *testing.T) {
	candles := flatCandles(4, 100, 0)
	// Last two candles carry all the volume at different prices.
	candles[2] = market.Candle{High: 110, Low: 110, Close: 110, Volume: 1}
	candles[3] = market.Candle{High: 120, Low: 120, Close: 120, Volume: 3}
	got := rollingVWAP(candles, 4)
	assert.InDelta(t, (110*1+120*3)/4.0, got, 1e-9)
}

func TestMinCandlesCoversLongestLookback(t *testing.T) {
	s := Settings{FastPeriod: 5, SlowPeriod: 50, RSIPeriod: 7, ATRPeriod: 7, VWAPWindow: 10}
	assert.Equal(t, 51, s.MinCandles())
}
