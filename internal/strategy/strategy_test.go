package strategy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mako/internal/gateway/exchange"
	"mako/internal/market"
)

func candlesFromCloses(closes []float64) []market.Candle {
	out := make([]market.Candle, len(closes))
	for i, c := range closes {
		out[i] = market.Candle{
			OpenTime: int64(i) * 60_000,
			Open:     c,
			High:     c,
			Low:      c,
			Close:    c,
			Volume:   1,
		}
	}
	return out
}

func TestCrossoverShortWindowNoSignal(t *testing.T) {
	s := NewCrossover(CrossoverConfig{})
	sig, err := s.Evaluate("BTC/USDT", candlesFromCloses([]float64{1, 2, 3}))
	assert.NoError(t, err)
	assert.Nil(t, sig)
}

func TestCrossoverBuyOnUpCross(t *testing.T) {
	s := NewCrossover(CrossoverConfig{})
	// Flat prefix keeps both averages level and equal; the final breakout
	// candle pulls the fast average through the slow one on this bar.
	closes := make([]float64, 0, 64)
	for i := 0; i < 63; i++ {
		closes = append(closes, 100)
	}
	closes = append(closes, 110)
	sig, err := s.Evaluate("BTC/USDT", candlesFromCloses(closes))
	require.NoError(t, err)
	require.NotNil(t, sig)
	assert.Equal(t, exchange.SideBuy, sig.Side)
	assert.Equal(t, "BTC/USDT", sig.Symbol)
	assert.Equal(t, closes[len(closes)-1], sig.ReferencePrice)
}

func TestCrossoverSellOnDownCross(t *testing.T) {
	s := NewCrossover(CrossoverConfig{})
	closes := make([]float64, 0, 64)
	for i := 0; i < 63; i++ {
		closes = append(closes, 100)
	}
	closes = append(closes, 90)
	sig, err := s.Evaluate("BTC/USDT", candlesFromCloses(closes))
	require.NoError(t, err)
	require.NotNil(t, sig)
	assert.Equal(t, exchange.SideSell, sig.Side)
}

func TestSignalsMutuallyExclusive(t *testing.T) {
	// No input may yield both directions: walk assorted windows through
	// both strategies and assert the single-sided contract holds.
	strategies := []Strategy{
		NewCrossover(CrossoverConfig{}),
		NewMomentum(MomentumConfig{}),
	}
	windows := [][]float64{
		make([]float64, 64),
		func() []float64 {
			out := make([]float64, 64)
			for i := range out {
				out[i] = 100 + 10*math.Sin(float64(i)/5)
			}
			return out
		}(),
	}
	for i := range windows[0] {
		windows[0][i] = 100
	}
	for _, s := range strategies {
		for _, closes := range windows {
			sig, err := s.Evaluate("ETH/USDT", candlesFromCloses(closes))
			assert.NoError(t, err)
			if sig != nil {
				assert.True(t, sig.Side == exchange.SideBuy || sig.Side == exchange.SideSell)
			}
		}
	}
}

func TestMomentumVolatilityFloor(t *testing.T) {
	// Flat series has zero ATR; the floor must suppress the entry even
	// though RSI would otherwise read as extreme.
	s := NewMomentum(MomentumConfig{MinATRRatio: 0.001})
	closes := make([]float64, 64)
	for i := range closes {
		closes[i] = 100
	}
	sig, err := s.Evaluate("ETH/USDT", candlesFromCloses(closes))
	assert.NoError(t, err)
	assert.Nil(t, sig)
}

func TestMomentumOversoldBuys(t *testing.T) {
	s := NewMomentum(MomentumConfig{Oversold: 30, Overbought: 70})
	closes := make([]float64, 0, 64)
	start := 200.0
	for i := 0; i < 64; i++ {
		closes = append(closes, start-float64(i)*2)
	}
	sig, err := s.Evaluate("ETH/USDT", candlesFromCloses(closes))
	require.NoError(t, err)
	require.NotNil(t, sig)
	assert.Equal(t, exchange.SideBuy, sig.Side)
}

func TestFactory(t *testing.T) {
	s, err := New("crossover", map[string]any{"fast_period": 5, "slow_period": 13})
	require.NoError(t, err)
	assert.Equal(t, "crossover", s.Name())

	s, err = New("momentum", map[string]any{"oversold": 25, "overbought": 75})
	require.NoError(t, err)
	assert.Equal(t, "momentum", s.Name())

	_, err = New("nope", nil)
	assert.Error(t, err)
}
