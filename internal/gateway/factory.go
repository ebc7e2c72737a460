// Package gateway wires exchange-specific clients from configuration.
package gateway

import (
	"fmt"
	"strings"
	"time"

	"mako/internal/config"
	"mako/internal/gateway/binance"
	"mako/internal/gateway/bitget"
	"mako/internal/market"
)

// NewBitgetClient builds the signed REST core shared by the bitget candle
// source and the trading gateway.
func NewBitgetClient(cfg *config.Config) *bitget.Client {
	return bitget.NewClient(bitget.Config{
		APIKey:      cfg.Exchange.APIKey,
		APISecret:   cfg.Exchange.APISecret,
		Passphrase:  cfg.Exchange.Passphrase,
		BaseURL:     cfg.Exchange.BaseURL,
		ProductType: cfg.Exchange.ProductType,
		MarginCoin:  cfg.Exchange.MarginCoin,
		HTTPTimeout: time.Duration(cfg.Exchange.HTTPTimeoutSeconds) * time.Second,
	})
}

// NewSourceFromConfig selects the candle source. The bitget source reuses
// client so both sides of the bot share one circuit breaker.
func NewSourceFromConfig(cfg *config.Config, client *bitget.Client) (market.Source, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	switch strings.ToLower(cfg.Market.Source) {
	case "", "bitget":
		return bitget.NewSource(client), nil
	case "binance", "binance-futures":
		return binance.New(binance.Config{
			RESTBaseURL: cfg.Market.RESTBaseURL,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported market source: %s", cfg.Market.Source)
	}
}
