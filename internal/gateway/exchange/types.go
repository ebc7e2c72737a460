// Package exchange defines the trading-side abstraction over the venue's
// REST API. The exchange owns all position/order state; everything here
// is a read snapshot refreshed on every reconciliation pass.
package exchange

import "time"

// Side is the direction of a new order.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Opposite returns the inverse order side.
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

// HoldSide returns the position direction a filled order of this side
// would hold.
func (s Side) HoldSide() HoldSide {
	if s == SideBuy {
		return HoldLong
	}
	return HoldShort
}

func (s Side) Valid() bool { return s == SideBuy || s == SideSell }

// HoldSide is the venue's term for position direction.
type HoldSide string

const (
	HoldLong  HoldSide = "long"
	HoldShort HoldSide = "short"
)

// Opposite returns the inverse position direction.
func (h HoldSide) Opposite() HoldSide {
	if h == HoldLong {
		return HoldShort
	}
	return HoldLong
}

// Position is a snapshot of one open position. Never cached across
// reconciliation cycles.
type Position struct {
	Symbol        string
	MarginCoin    string
	HoldSide      HoldSide
	Size          float64
	EntryPrice    float64
	Leverage      float64
	UnrealizedPnL float64
	UpdatedAt     time.Time
}

// PendingOrder is a snapshot of one unfilled order.
type PendingOrder struct {
	OrderID   string
	Symbol    string
	Side      Side
	Price     float64
	Size      float64
	CreatedAt time.Time
}

// OrderRequest is constructed fresh per trade attempt and never persisted
// locally.
type OrderRequest struct {
	Symbol                string
	MarginCoin            string
	Side                  Side
	OrderType             string // "limit" or "market"
	Size                  float64
	Price                 float64
	Leverage              float64
	PresetTakeProfitPrice float64
	PresetStopLossPrice   float64
	ClientOrderID         string
}

// OrderResult is the venue's acknowledgment of a submitted order. The
// placer does not poll for fill.
type OrderResult struct {
	OrderID       string `json:"order_id"`
	ClientOrderID string `json:"client_order_id"`
}
