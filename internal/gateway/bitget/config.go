package bitget

import "time"

const (
	defaultBaseURL     = "https://api.bitget.com"
	defaultProductType = "USDT-FUTURES"
	defaultMarginCoin  = "USDT"
	defaultHTTPTimeout = 10 * time.Second
)

// Config carries the REST credentials and venue parameters. Credentials
// may be empty for a market-data-only client; signed endpoints then fail
// fast.
type Config struct {
	APIKey     string
	APISecret  string
	Passphrase string

	BaseURL     string
	ProductType string
	MarginCoin  string
	HTTPTimeout time.Duration

	BreakerThreshold int
	BreakerCooldown  time.Duration
}

func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
	if c.ProductType == "" {
		c.ProductType = defaultProductType
	}
	if c.MarginCoin == "" {
		c.MarginCoin = defaultMarginCoin
	}
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = defaultHTTPTimeout
	}
	if c.BreakerThreshold <= 0 {
		c.BreakerThreshold = 5
	}
	if c.BreakerCooldown <= 0 {
		c.BreakerCooldown = 30 * time.Second
	}
	return c
}
