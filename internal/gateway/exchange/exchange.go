package exchange

import "context"

// Exchange is the write-side gateway to the trading venue. Implementations
// translate these calls into the venue's REST API; the reconciler and
// placer are the only callers.
type Exchange interface {
	Name() string

	// GetPositions returns all open positions for the product type
	// (e.g. "USDT-FUTURES").
	GetPositions(ctx context.Context, productType string) ([]Position, error)

	// GetOpenOrders returns unfilled orders for the symbol.
	GetOpenOrders(ctx context.Context, symbol, productType string) ([]PendingOrder, error)

	// ClosePosition requests a graceful close of the holdSide position.
	ClosePosition(ctx context.Context, symbol string, holdSide HoldSide) error

	// FlashClosePosition forces a market-price close; used as fallback
	// when ClosePosition fails.
	FlashClosePosition(ctx context.Context, symbol string, holdSide HoldSide) error

	CancelOrder(ctx context.Context, symbol, orderID string) error

	// SetLeverage is idempotent at the venue.
	SetLeverage(ctx context.Context, symbol string, holdSide HoldSide, leverage float64) error

	SubmitOrder(ctx context.Context, req OrderRequest) (*OrderResult, error)
}
