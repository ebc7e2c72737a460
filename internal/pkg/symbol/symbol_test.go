package symbol

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	assert.Equal(t, Pair{Base: "BTC", Quote: "USDT"}, Parse("BTC/USDT"))
	assert.Equal(t, Pair{Base: "BTC", Quote: "USDT"}, Parse("btc-usdt"))
	assert.Equal(t, Pair{Base: "ETH", Quote: "USDT"}, Parse("ETHUSDT"))
	assert.Equal(t, Pair{Base: "SOL", Quote: "USDC"}, Parse("SOLUSDC"))
	assert.Equal(t, Pair{}, Parse("  "))
}

func TestConverters(t *testing.T) {
	assert.Equal(t, "BTCUSDT", Bitget.ToExchange("BTC/USDT"))
	assert.Equal(t, "BTCUSDT", Binance.ToExchange("btc-usdt"))
	assert.Equal(t, "BTC/USDT", Bitget.FromExchange("BTCUSDT"))
}
