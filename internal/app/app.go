// Package app assembles the bot: config, exchange gateway, candle
// source, journal, orchestrator, per-symbol schedulers and the HTTP
// server, and runs them until shutdown.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"mako/internal/config"
	"mako/internal/config/loader"
	"mako/internal/gateway"
	"mako/internal/gateway/bitget"
	"mako/internal/gateway/exchange"
	"mako/internal/logger"
	"mako/internal/market"
	"mako/internal/scheduler"
	"mako/internal/store"
	"mako/internal/strategy"
	"mako/internal/trader"
	transporthttp "mako/internal/transport/http"
)

type App struct {
	cfg          *config.Config
	gateway      exchange.Exchange
	source       market.Source
	journal      *store.Journal
	orchestrator *trader.Orchestrator
	profiles     *loader.ProfileLoader
	server       *transporthttp.Server
}

func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, errors.New("nil config")
	}

	client := gateway.NewBitgetClient(cfg)
	gw := bitget.NewGateway(client)

	source, err := gateway.NewSourceFromConfig(cfg, client)
	if err != nil {
		return nil, err
	}

	journal, err := store.NewJournal(cfg.App.JournalPath)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	profiles, err := loader.NewProfileLoader(cfg.Trading.ProfilesPath)
	if err != nil {
		journal.Close()
		return nil, fmt.Errorf("load profiles: %w", err)
	}

	reconciler := trader.NewReconciler(gw, cfg.Exchange.ProductType)
	placer := trader.NewPlacer(gw, trader.RiskConfig{
		StopLossPct:   cfg.Trading.Risk.StopLossPct,
		TakeProfitPct: cfg.Trading.Risk.TakeProfitPct,
		PriceScale:    cfg.Trading.Risk.PriceScale,
	})
	orchestrator := trader.NewOrchestrator(reconciler, placer, journal)

	server, err := transporthttp.NewServer(transporthttp.ServerConfig{
		Addr:         cfg.Server.Addr,
		Orchestrator: orchestrator,
		Journal:      journal,
	})
	if err != nil {
		journal.Close()
		return nil, err
	}

	return &App{
		cfg:          cfg,
		gateway:      gw,
		source:       source,
		journal:      journal,
		orchestrator: orchestrator,
		profiles:     profiles,
		server:       server,
	}, nil
}

// Run blocks until ctx is cancelled or a component fails. Profiles are
// hot-reloaded, but loops are bound at startup: edits to an existing
// symbol apply on its next tick, while new symbols need a restart.
func (a *App) Run(ctx context.Context) error {
	defer a.close()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.server.Run(ctx)
	})

	g.Go(func() error {
		stop := make(chan struct{})
		go func() {
			<-ctx.Done()
			close(stop)
		}()
		return a.profiles.Watch(stop)
	})

	offset := time.Duration(a.cfg.Market.TickOffsetSeconds) * time.Second
	snap := a.profiles.Snapshot()
	if len(snap.Profiles) == 0 {
		logger.Warnf("app: no trading profiles configured, running webhook-only")
	}
	for sym, prof := range snap.Profiles {
		sym := sym
		interval, ok := scheduler.ParseIntervalDuration(prof.Interval)
		if !ok {
			return fmt.Errorf("profile %s: bad interval %q", sym, prof.Interval)
		}
		loop := scheduler.NewLoop(sym, interval, offset)
		loop.RunImmediately = a.cfg.Trading.RunImmediately
		g.Go(func() error {
			loop.Run(ctx, func(ctx context.Context) {
				a.runCycle(ctx, sym)
			})
			return nil
		})
	}

	logger.Infof("app: started with %d profile(s), source=%s, server=%s",
		len(snap.Profiles), a.cfg.Market.Source, a.cfg.Server.Addr)
	return g.Wait()
}

// runCycle is one timer tick for one symbol: fetch, evaluate, trade.
// Errors never kill the loop; the next tick retries from scratch.
func (a *App) runCycle(ctx context.Context, sym string) {
	prof, ok := a.profiles.Snapshot().Profiles[sym]
	if !ok {
		logger.Debugf("app: %s removed from profiles, skipping tick", sym)
		return
	}

	strat, err := strategy.New(prof.Strategy, prof.Params)
	if err != nil {
		logger.Errorf("app: %s: %v", sym, err)
		return
	}

	limit := a.cfg.Market.CandleLimit
	if limit < strat.MinCandles() {
		limit = strat.MinCandles()
	}
	candles, err := a.source.FetchHistory(ctx, sym, prof.Interval, limit)
	if err != nil {
		if exchange.IsTransient(err) {
			logger.Warnf("app: %s: candle fetch failed, skipping tick: %v", sym, err)
		} else {
			logger.Errorf("app: %s: candle fetch: %v", sym, err)
		}
		return
	}

	signal, err := strat.Evaluate(sym, candles)
	if err != nil {
		logger.Errorf("app: %s: evaluate: %v", sym, err)
		return
	}
	if signal == nil {
		logger.Debugf("app: %s: no setup on %s/%s", sym, prof.Strategy, prof.Interval)
		return
	}

	res, err := a.orchestrator.OnSignal(ctx, trader.TradeIntent{
		Signal:   signal,
		Trigger:  trader.TriggerTimer,
		Size:     prof.Size,
		Leverage: prof.Leverage,
	})
	switch {
	case errors.Is(err, trader.ErrCycleInProgress):
		logger.Warnf("app: %s: cycle already in progress, signal dropped", sym)
	case err != nil:
		logger.Errorf("app: %s: cycle failed: %v", sym, err)
	default:
		logger.Infof("app: %s: %s signal -> %s", sym, signal.Side, res.Outcome)
	}
}

func (a *App) close() {
	if err := a.source.Close(); err != nil {
		logger.Warnf("app: closing candle source: %v", err)
	}
	if err := a.journal.Close(); err != nil {
		logger.Warnf("app: closing journal: %v", err)
	}
}
