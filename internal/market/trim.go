package market

import "time"

// DropUnclosed removes a trailing candle whose period has not elapsed yet.
// Exchange candle endpoints include the in-progress candle as the last
// row; signals must only ever see closed candles.
func DropUnclosed(candles []Candle, interval time.Duration, now time.Time) []Candle {
	if len(candles) == 0 || interval <= 0 {
		return candles
	}
	last := candles[len(candles)-1]
	closeAt := time.UnixMilli(last.OpenTime).Add(interval)
	if closeAt.After(now) {
		return candles[:len(candles)-1]
	}
	return candles
}
