package bitget

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToGranularity(t *testing.T) {
	for in, want := range map[string]string{
		"1m":  "1m",
		"15m": "15m",
		"1h":  "1H",
		"4h":  "4H",
		"1d":  "1D",
		"1w":  "1W",
	} {
		got, err := toGranularity(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := toGranularity("90x")
	assert.Error(t, err)
}

func TestFetchHistoryParsesRows(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "BTCUSDT", r.URL.Query().Get("symbol"))
		assert.Equal(t, "1H", r.URL.Query().Get("granularity"))
		assert.Equal(t, "50", r.URL.Query().Get("limit"))
		// Old timestamps: both candles are long closed.
		w.Write([]byte(envelope(`[
			["1700000000000","50000","50500","49800","50200","120.5","6030000"],
			["1700003600000","50200","50800","50100","50700","98.2","4980000"]
		]`)))
	})
	source := NewSource(client)

	candles, err := source.FetchHistory(context.Background(), "BTC/USDT", "1h", 50)
	require.NoError(t, err)
	require.Len(t, candles, 2)
	assert.Equal(t, int64(1700000000000), candles[0].OpenTime)
	assert.Equal(t, 50000.0, candles[0].Open)
	assert.Equal(t, 50200.0, candles[0].Close)
	assert.Equal(t, 120.5, candles[0].Volume)
	assert.Equal(t, 50700.0, candles[1].Close)
}

func TestFetchHistoryBadInterval(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})
	source := NewSource(client)

	_, err := source.FetchHistory(context.Background(), "BTC/USDT", "banana", 50)
	assert.Error(t, err)
}
