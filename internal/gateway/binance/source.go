// Package binance provides an alternate candle source on Binance USD-M
// futures, for running the evaluator against a venue with deeper history
// while trading elsewhere.
package binance

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/adshao/go-binance/v2/futures"

	"mako/internal/market"
	symbolpkg "mako/internal/pkg/symbol"
	"mako/internal/scheduler"
)

const maxHistoryLimit = 1500

// Source implements market.Source on the go-binance futures SDK.
type Source struct {
	cfg    Config
	client *futures.Client
}

var _ market.Source = (*Source)(nil)

func New(cfg Config) *Source {
	final := cfg.withDefaults()
	client := futures.NewClient("", "")
	client.BaseURL = strings.TrimSpace(final.RESTBaseURL)
	client.HTTPClient = &http.Client{Timeout: final.HTTPTimeout}
	return &Source{cfg: final, client: client}
}

func (s *Source) FetchHistory(ctx context.Context, symbol, interval string, limit int) ([]market.Candle, error) {
	if limit <= 0 {
		limit = 100
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	interval = strings.ToLower(strings.TrimSpace(interval))
	if interval == "" {
		return nil, fmt.Errorf("interval is required")
	}
	cleanSymbol := symbolpkg.Binance.ToExchange(symbol)

	kls, err := s.client.NewKlinesService().Symbol(cleanSymbol).Interval(interval).Limit(limit).Do(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]market.Candle, 0, len(kls))
	for _, kl := range kls {
		if kl == nil {
			continue
		}
		out = append(out, market.Candle{
			OpenTime: kl.OpenTime,
			Open:     parseFloat(kl.Open),
			High:     parseFloat(kl.High),
			Low:      parseFloat(kl.Low),
			Close:    parseFloat(kl.Close),
			Volume:   parseFloat(kl.Volume),
		})
	}
	if dur, ok := scheduler.ParseIntervalDuration(interval); ok {
		out = market.DropUnclosed(out, dur, time.Now())
	}
	return out, nil
}

func (s *Source) Close() error { return nil }

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}
