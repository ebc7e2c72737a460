package trader

import (
	"context"
	"errors"
	"sync"
	"time"

	"mako/internal/logger"
	symbolpkg "mako/internal/pkg/symbol"
)

// ErrCycleInProgress is returned when a second trigger (timer vs webhook)
// arrives for a symbol whose cycle is still running. Concurrent triggers
// are rejected, not queued: the next poll re-evaluates anyway.
var ErrCycleInProgress = errors.New("trade cycle already in progress for symbol")

// symbolCycle serializes cycles for one symbol. mu is held for the whole
// cycle; stateMu guards the state field so the status endpoint can read
// it mid-cycle.
type symbolCycle struct {
	mu      sync.Mutex
	stateMu sync.Mutex
	state   CycleState
}

func (c *symbolCycle) setState(s CycleState) {
	c.stateMu.Lock()
	c.state = s
	c.stateMu.Unlock()
}

func (c *symbolCycle) currentState() CycleState {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	return c.state
}

// Orchestrator is the single entry point for acting on a signal,
// sequencing reconcile -> place under a per-symbol lock.
type Orchestrator struct {
	reconciler *Reconciler
	placer     *Placer
	journal    Journal

	cyclesMu sync.Mutex
	cycles   map[string]*symbolCycle
}

func NewOrchestrator(reconciler *Reconciler, placer *Placer, journal Journal) *Orchestrator {
	return &Orchestrator{
		reconciler: reconciler,
		placer:     placer,
		journal:    journal,
		cycles:     make(map[string]*symbolCycle),
	}
}

// OnSignal runs one full trade cycle for the intent's signal. A nil
// signal is a no-op. The per-symbol state machine is
// IDLE -> RECONCILING -> PLACING -> IDLE with no overlap: a call for a
// symbol already mid-cycle fails with ErrCycleInProgress.
func (o *Orchestrator) OnSignal(ctx context.Context, intent TradeIntent) (*CycleResult, error) {
	if intent.Signal == nil {
		return nil, nil
	}
	symbol := symbolpkg.Normalize(intent.Signal.Symbol)
	cycle := o.cycleFor(symbol)
	if !cycle.mu.TryLock() {
		return nil, ErrCycleInProgress
	}
	defer cycle.mu.Unlock()
	defer cycle.setState(StateIdle)

	res := &CycleResult{
		Symbol:         symbol,
		Side:           intent.Signal.Side,
		Trigger:        intent.Trigger,
		ReferencePrice: intent.Signal.ReferencePrice,
		Size:           intent.Size,
		Leverage:       intent.Leverage,
		StartedAt:      time.Now(),
	}

	cycle.setState(StateReconciling)
	outcome, report, err := o.reconciler.Reconcile(ctx, symbol, intent.Signal.Side)
	res.Reconciled = report
	if err != nil {
		res.Outcome = OutcomeFailed
		res.Err = err
		o.finish(ctx, res)
		return res, err
	}
	if outcome == OutcomeNoAction {
		logger.Infof("cycle %s: same-side position/order exists, skipping %s signal", symbol, intent.Signal.Side)
		res.Outcome = OutcomeSkipped
		o.finish(ctx, res)
		return res, nil
	}

	cycle.setState(StatePlacing)
	order, err := o.placer.Place(ctx, PlaceRequest{
		Symbol:          symbol,
		Side:            intent.Signal.Side,
		ReferencePrice:  intent.Signal.ReferencePrice,
		Size:            intent.Size,
		Leverage:        intent.Leverage,
		OrderType:       intent.OrderType,
		TakeProfitPrice: intent.TakeProfitPrice,
		StopLossPrice:   intent.StopLossPrice,
	})
	if err != nil {
		res.Outcome = OutcomeFailed
		res.Err = err
		o.finish(ctx, res)
		return res, err
	}
	res.Outcome = OutcomePlaced
	res.Order = order
	o.finish(ctx, res)
	return res, nil
}

// States exposes the per-symbol cycle state for the status endpoint.
func (o *Orchestrator) States() map[string]CycleState {
	o.cyclesMu.Lock()
	defer o.cyclesMu.Unlock()
	out := make(map[string]CycleState, len(o.cycles))
	for symbol, cycle := range o.cycles {
		out[symbol] = cycle.currentState()
	}
	return out
}

func (o *Orchestrator) cycleFor(symbol string) *symbolCycle {
	o.cyclesMu.Lock()
	defer o.cyclesMu.Unlock()
	cycle, ok := o.cycles[symbol]
	if !ok {
		cycle = &symbolCycle{state: StateIdle}
		o.cycles[symbol] = cycle
	}
	return cycle
}

func (o *Orchestrator) finish(ctx context.Context, res *CycleResult) {
	res.FinishedAt = time.Now()
	if o.journal == nil {
		return
	}
	if err := o.journal.RecordCycle(ctx, res); err != nil {
		logger.Warnf("journal: recording %s cycle failed: %v", res.Symbol, err)
	}
}
