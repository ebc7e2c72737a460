package trader

import (
	"context"
	"fmt"

	"mako/internal/gateway/exchange"
	"mako/internal/logger"
	symbolpkg "mako/internal/pkg/symbol"
)

// ReconcileOutcome tells the orchestrator whether placing may proceed.
type ReconcileOutcome int

const (
	// OutcomeProceed: no position or order for the symbol remains in
	// either direction; a same-side order may be placed.
	OutcomeProceed ReconcileOutcome = iota
	// OutcomeNoAction: a same-side position or order already exists; the
	// new order must be suppressed (idempotent skip).
	OutcomeNoAction
)

// ItemResult is the structured per-item result of one close or cancel
// inside a reconciliation pass.
type ItemResult struct {
	Kind          string            `json:"kind"` // "close" or "cancel"
	Symbol        string            `json:"symbol"`
	HoldSide      exchange.HoldSide `json:"hold_side,omitempty"`
	OrderID       string            `json:"order_id,omitempty"`
	FlashFallback bool              `json:"flash_fallback,omitempty"`
	Err           error             `json:"-"`
}

// Report aggregates everything a reconciliation pass did. Per-item
// failures are collected here instead of being swallowed into logs so the
// caller can decide whether partial failure is acceptable.
type Report struct {
	Items            []ItemResult
	SameSidePosition bool
	SameSideOrder    bool
}

// Failures returns the items whose close/cancel errored.
func (r *Report) Failures() []ItemResult {
	var out []ItemResult
	for _, item := range r.Items {
		if item.Err != nil {
			out = append(out, item)
		}
	}
	return out
}

// Reconciler aligns live exchange state with an intended trade before
// anything is submitted. It holds no state of its own: positions and
// orders are re-fetched on every pass, the exchange is the source of
// truth.
type Reconciler struct {
	gw          exchange.Exchange
	productType string
}

func NewReconciler(gw exchange.Exchange, productType string) *Reconciler {
	return &Reconciler{gw: gw, productType: productType}
}

// Reconcile closes/cancels everything opposing a new `side` order on
// `symbol`, best effort per item, then re-fetches and verifies.
//
// Guarantees on (OutcomeProceed, nil): no position or pending order for
// the symbol remains in either direction, barring a concurrent external
// actor. On OutcomeNoAction a same-side position/order exists and the
// caller must not submit. A non-nil error means an opposing item
// survived the pass or a snapshot fetch failed.
func (r *Reconciler) Reconcile(ctx context.Context, symbol string, side exchange.Side) (ReconcileOutcome, *Report, error) {
	symbol = symbolpkg.Normalize(symbol)
	report := &Report{}

	positions, orders, err := r.fetchSnapshot(ctx, symbol)
	if err != nil {
		return OutcomeProceed, report, err
	}

	opposingHold := side.HoldSide().Opposite()
	for _, pos := range positions {
		if pos.Symbol != symbol || pos.HoldSide != opposingHold {
			continue
		}
		item := ItemResult{Kind: "close", Symbol: symbol, HoldSide: pos.HoldSide}
		if err := r.gw.ClosePosition(ctx, symbol, pos.HoldSide); err != nil {
			logger.Warnf("reconcile %s: graceful close %s failed, trying flash close: %v", symbol, pos.HoldSide, err)
			item.FlashFallback = true
			item.Err = r.gw.FlashClosePosition(ctx, symbol, pos.HoldSide)
		}
		if item.Err != nil {
			logger.Errorf("reconcile %s: flash close %s failed: %v", symbol, pos.HoldSide, item.Err)
		}
		report.Items = append(report.Items, item)
	}

	for _, order := range orders {
		if order.Symbol != symbol || order.Side == side {
			continue
		}
		item := ItemResult{Kind: "cancel", Symbol: symbol, OrderID: order.OrderID}
		item.Err = r.gw.CancelOrder(ctx, symbol, order.OrderID)
		if item.Err != nil {
			logger.Errorf("reconcile %s: cancel order %s failed: %v", symbol, order.OrderID, item.Err)
		}
		report.Items = append(report.Items, item)
	}

	// Always re-fetch rather than reuse the first snapshot: the closes and
	// cancels above just mutated exchange state.
	positions, orders, err = r.fetchSnapshot(ctx, symbol)
	if err != nil {
		return OutcomeProceed, report, err
	}

	sameHold := side.HoldSide()
	for _, pos := range positions {
		if pos.Symbol != symbol {
			continue
		}
		if pos.HoldSide == opposingHold {
			return OutcomeProceed, report, fmt.Errorf("reconcile %s: opposing %s position still open after pass", symbol, pos.HoldSide)
		}
		if pos.HoldSide == sameHold {
			report.SameSidePosition = true
		}
	}
	for _, order := range orders {
		if order.Symbol != symbol {
			continue
		}
		if order.Side != side {
			return OutcomeProceed, report, fmt.Errorf("reconcile %s: opposing order %s still pending after pass", symbol, order.OrderID)
		}
		report.SameSideOrder = true
	}

	if report.SameSidePosition || report.SameSideOrder {
		return OutcomeNoAction, report, nil
	}
	return OutcomeProceed, report, nil
}

func (r *Reconciler) fetchSnapshot(ctx context.Context, symbol string) ([]exchange.Position, []exchange.PendingOrder, error) {
	positions, err := r.gw.GetPositions(ctx, r.productType)
	if err != nil {
		return nil, nil, exchange.NewFetchError("fetch positions", err)
	}
	orders, err := r.gw.GetOpenOrders(ctx, symbol, r.productType)
	if err != nil {
		return nil, nil, exchange.NewFetchError("fetch open orders", err)
	}
	return positions, orders, nil
}
