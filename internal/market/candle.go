package market

// Candle is a single OHLCV period. Candles are immutable once fetched;
// the exchange guarantees high/low envelope consistency, we do not
// re-validate it locally.
type Candle struct {
	OpenTime int64   `json:"open_time"`
	Open     float64 `json:"open"`
	High     float64 `json:"high"`
	Low      float64 `json:"low"`
	Close    float64 `json:"close"`
	Volume   float64 `json:"volume"`
}
