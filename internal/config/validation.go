package config

import (
	"fmt"
	"strings"
)

func validate(c *Config) error {
	switch strings.ToLower(c.Exchange.Name) {
	case "bitget":
	default:
		return fmt.Errorf("unsupported exchange %q", c.Exchange.Name)
	}
	switch strings.ToLower(c.Market.Source) {
	case "bitget", "binance":
	default:
		return fmt.Errorf("unsupported market source %q", c.Market.Source)
	}
	// Missing credentials are fatal: the process must not come up in a
	// state where reconciliation works but order placement cannot.
	var missing []string
	if strings.TrimSpace(c.Exchange.APIKey) == "" {
		missing = append(missing, "exchange.api_key")
	}
	if strings.TrimSpace(c.Exchange.APISecret) == "" {
		missing = append(missing, "exchange.api_secret")
	}
	if strings.TrimSpace(c.Exchange.Passphrase) == "" {
		missing = append(missing, "exchange.passphrase")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing exchange credentials: %s", strings.Join(missing, ", "))
	}
	if c.Trading.Risk.StopLossPct >= 1 || c.Trading.Risk.TakeProfitPct >= 1 {
		return fmt.Errorf("risk percentages are ratios: stop_loss_pct=%v take_profit_pct=%v", c.Trading.Risk.StopLossPct, c.Trading.Risk.TakeProfitPct)
	}
	return nil
}
