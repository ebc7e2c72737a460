package trader

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"mako/internal/gateway/exchange"
	"mako/internal/logger"
)

// RiskConfig holds the percentage offsets applied to the reference price.
// These are configuration, not business logic: 0.01 means 1%.
type RiskConfig struct {
	StopLossPct   float64 `mapstructure:"stop_loss_pct"`
	TakeProfitPct float64 `mapstructure:"take_profit_pct"`
	// PriceScale is the number of decimal places the venue accepts for
	// the symbol's prices.
	PriceScale int32 `mapstructure:"price_scale"`
}

func (c RiskConfig) withDefaults() RiskConfig {
	if c.StopLossPct <= 0 {
		c.StopLossPct = 0.01
	}
	if c.TakeProfitPct <= 0 {
		c.TakeProfitPct = 0.05
	}
	if c.PriceScale <= 0 {
		c.PriceScale = 2
	}
	return c
}

// RiskLevels derives take-profit and stop-loss prices from the reference
// price. Buy: TP above, SL below; sell inverted. Rounding policy: decimal
// half-up at the configured price scale.
func RiskLevels(side exchange.Side, referencePrice float64, cfg RiskConfig) (takeProfit, stopLoss float64) {
	cfg = cfg.withDefaults()
	ref := decimal.NewFromFloat(referencePrice)
	tpOffset := ref.Mul(decimal.NewFromFloat(cfg.TakeProfitPct))
	slOffset := ref.Mul(decimal.NewFromFloat(cfg.StopLossPct))
	if side == exchange.SideBuy {
		takeProfit = ref.Add(tpOffset).Round(cfg.PriceScale).InexactFloat64()
		stopLoss = ref.Sub(slOffset).Round(cfg.PriceScale).InexactFloat64()
		return takeProfit, stopLoss
	}
	takeProfit = ref.Sub(tpOffset).Round(cfg.PriceScale).InexactFloat64()
	stopLoss = ref.Add(slOffset).Round(cfg.PriceScale).InexactFloat64()
	return takeProfit, stopLoss
}

// PlaceRequest is the placer's input, assembled by the orchestrator after
// reconciliation has cleared the way.
type PlaceRequest struct {
	Symbol         string
	Side           exchange.Side
	ReferencePrice float64
	Size           float64
	Leverage       float64
	OrderType      string
	// Preset levels override the derived ones when non-zero (webhook
	// callers supply their own).
	TakeProfitPrice float64
	StopLossPrice   float64
}

// Placer computes risk levels, sets leverage and submits the order. Any
// step failing aborts the whole placement; the caller must not assume the
// order exists after an error.
type Placer struct {
	gw    exchange.Exchange
	risk  RiskConfig
	newID func() string
}

func NewPlacer(gw exchange.Exchange, risk RiskConfig) *Placer {
	return &Placer{
		gw:    gw,
		risk:  risk.withDefaults(),
		newID: func() string { return uuid.NewString() },
	}
}

func (p *Placer) Place(ctx context.Context, req PlaceRequest) (*exchange.OrderResult, error) {
	if !req.Side.Valid() {
		return nil, fmt.Errorf("place %s: invalid side %q", req.Symbol, req.Side)
	}
	if req.Size <= 0 {
		return nil, fmt.Errorf("place %s: size must be positive", req.Symbol)
	}
	if req.ReferencePrice <= 0 {
		return nil, fmt.Errorf("place %s: reference price must be positive", req.Symbol)
	}

	takeProfit, stopLoss := RiskLevels(req.Side, req.ReferencePrice, p.risk)
	if req.TakeProfitPrice > 0 {
		takeProfit = req.TakeProfitPrice
	}
	if req.StopLossPrice > 0 {
		stopLoss = req.StopLossPrice
	}

	leverage := req.Leverage
	if leverage <= 0 {
		leverage = 1
	}
	if err := p.gw.SetLeverage(ctx, req.Symbol, req.Side.HoldSide(), leverage); err != nil {
		return nil, fmt.Errorf("set leverage: %w", err)
	}

	orderType := req.OrderType
	if orderType == "" {
		orderType = "limit"
	}
	order := exchange.OrderRequest{
		Symbol:                req.Symbol,
		Side:                  req.Side,
		OrderType:             orderType,
		Size:                  req.Size,
		Price:                 req.ReferencePrice,
		Leverage:              leverage,
		PresetTakeProfitPrice: takeProfit,
		PresetStopLossPrice:   stopLoss,
		ClientOrderID:         p.newID(),
	}
	result, err := p.gw.SubmitOrder(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("submit order: %w", err)
	}
	logger.Infof("placed %s %s size=%v price=%v tp=%v sl=%v order=%s",
		req.Symbol, req.Side, req.Size, req.ReferencePrice, takeProfit, stopLoss, result.OrderID)
	return result, nil
}
