package bitget

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"mako/internal/market"
	symbolpkg "mako/internal/pkg/symbol"
	"mako/internal/scheduler"
)

const (
	pathCandles     = "/api/v2/mix/market/candles"
	maxCandlesLimit = 1000
)

// Source implements market.Source over the Bitget candle endpoint.
type Source struct {
	client *Client
}

var _ market.Source = (*Source)(nil)

func NewSource(client *Client) *Source {
	return &Source{client: client}
}

func (s *Source) FetchHistory(ctx context.Context, symbol, interval string, limit int) ([]market.Candle, error) {
	if limit <= 0 {
		limit = 100
	}
	if limit > maxCandlesLimit {
		limit = maxCandlesLimit
	}
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	granularity, err := toGranularity(interval)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("symbol", symbolpkg.Bitget.ToExchange(symbol))
	query.Set("productType", s.client.cfg.ProductType)
	query.Set("granularity", granularity)
	query.Set("limit", strconv.Itoa(limit))
	data, err := s.client.get(ctx, pathCandles, query)
	if err != nil {
		return nil, err
	}

	// Rows are [ts, open, high, low, close, baseVolume, quoteVolume],
	// oldest first.
	var out []market.Candle
	data.ForEach(func(_, row gjson.Result) bool {
		cols := row.Array()
		if len(cols) < 6 {
			return true
		}
		out = append(out, market.Candle{
			OpenTime: cols[0].Int(),
			Open:     cols[1].Float(),
			High:     cols[2].Float(),
			Low:      cols[3].Float(),
			Close:    cols[4].Float(),
			Volume:   cols[5].Float(),
		})
		return true
	})
	if dur, ok := scheduler.ParseIntervalDuration(interval); ok {
		out = market.DropUnclosed(out, dur, time.Now())
	}
	return out, nil
}

func (s *Source) Close() error { return nil }

// toGranularity maps internal interval notation to Bitget's tokens:
// minutes stay lowercase, hour/day/week become uppercase (1H, 4H, 1D, 1W).
func toGranularity(interval string) (string, error) {
	interval = strings.ToLower(strings.TrimSpace(interval))
	if _, ok := scheduler.ParseIntervalDuration(interval); !ok {
		return "", fmt.Errorf("invalid interval %q", interval)
	}
	if strings.HasSuffix(interval, "m") {
		return interval, nil
	}
	return strings.ToUpper(interval), nil
}
