package config

func (c *Config) applyDefaults() {
	if c.App.Env == "" {
		c.App.Env = "live"
	}
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.App.JournalPath == "" {
		c.App.JournalPath = "data/journal.db"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8090"
	}
	if c.Exchange.Name == "" {
		c.Exchange.Name = "bitget"
	}
	if c.Exchange.ProductType == "" {
		c.Exchange.ProductType = "USDT-FUTURES"
	}
	if c.Exchange.MarginCoin == "" {
		c.Exchange.MarginCoin = "USDT"
	}
	if c.Exchange.HTTPTimeoutSeconds <= 0 {
		c.Exchange.HTTPTimeoutSeconds = 10
	}
	if c.Market.Source == "" {
		c.Market.Source = c.Exchange.Name
	}
	if c.Market.CandleLimit <= 0 {
		c.Market.CandleLimit = 100
	}
	if c.Market.TickOffsetSeconds <= 0 {
		c.Market.TickOffsetSeconds = 3
	}
	if c.Trading.ProfilesPath == "" {
		c.Trading.ProfilesPath = "configs/profiles.yaml"
	}
	if c.Trading.Risk.StopLossPct <= 0 {
		c.Trading.Risk.StopLossPct = 0.01
	}
	if c.Trading.Risk.TakeProfitPct <= 0 {
		c.Trading.Risk.TakeProfitPct = 0.05
	}
	if c.Trading.Risk.PriceScale <= 0 {
		c.Trading.Risk.PriceScale = 2
	}
}
