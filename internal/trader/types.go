// Package trader contains the signal-to-order pipeline: reconcile live
// exchange state against a new signal, then place exactly one safe order.
package trader

import (
	"context"
	"time"

	"mako/internal/gateway/exchange"
	"mako/internal/strategy"
)

// CycleState is the per-symbol pipeline state, observable over HTTP.
type CycleState string

const (
	StateIdle        CycleState = "idle"
	StateReconciling CycleState = "reconciling"
	StatePlacing     CycleState = "placing"
)

// Trigger names which entry point started a cycle.
type Trigger string

const (
	TriggerTimer   Trigger = "timer"
	TriggerWebhook Trigger = "webhook"
)

// Outcome classifies how a cycle ended.
type Outcome string

const (
	// OutcomePlaced: the order was acknowledged by the exchange.
	OutcomePlaced Outcome = "placed"
	// OutcomeSkipped: a same-side position or order already exists; no
	// pyramiding, nothing submitted.
	OutcomeSkipped Outcome = "skipped"
	// OutcomeFailed: reconciliation or placement errored; no order is
	// assumed to exist.
	OutcomeFailed Outcome = "failed"
)

// TradeIntent is one request to act on a signal. Size and leverage come
// from the symbol's profile (timer path) or the webhook payload.
type TradeIntent struct {
	Signal   *strategy.Signal
	Trigger  Trigger
	Size     float64
	Leverage float64
	// OrderType defaults to "limit".
	OrderType string
	// Optional preset levels; when zero the placer derives them from the
	// reference price and the risk config.
	TakeProfitPrice float64
	StopLossPrice   float64
}

// CycleResult summarizes a finished cycle.
type CycleResult struct {
	Symbol         string
	Side           exchange.Side
	Trigger        Trigger
	Outcome        Outcome
	ReferencePrice float64
	Size           float64
	Leverage       float64
	Order          *exchange.OrderResult
	Reconciled     *Report
	StartedAt      time.Time
	FinishedAt     time.Time
	Err            error
}

// Journal persists cycle results. Failures to journal never fail the
// cycle itself.
type Journal interface {
	RecordCycle(ctx context.Context, res *CycleResult) error
}
