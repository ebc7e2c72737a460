package market

import "context"

// Source supplies historical candles for one venue. Implementations live
// under internal/gateway and are selected by the gateway factory.
type Source interface {
	// FetchHistory returns up to limit closed candles for symbol at the
	// given interval ("5m", "15m", "1h", ...), oldest first. An unclosed
	// trailing candle is dropped by the implementation.
	FetchHistory(ctx context.Context, symbol, interval string, limit int) ([]Candle, error)

	Close() error
}
