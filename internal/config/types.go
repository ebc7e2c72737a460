package config

// Config is the process-wide configuration, loaded once at startup.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Exchange ExchangeConfig `mapstructure:"exchange"`
	Market   MarketConfig   `mapstructure:"market"`
	Trading  TradingConfig  `mapstructure:"trading"`
}

type AppConfig struct {
	Env         string `mapstructure:"env"`
	LogLevel    string `mapstructure:"log_level"`
	LogPath     string `mapstructure:"log_path"`
	JournalPath string `mapstructure:"journal_path"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// ExchangeConfig identifies the trading venue and its credentials.
// Credentials may also come from MAKO_API_KEY / MAKO_API_SECRET /
// MAKO_API_PASSPHRASE; missing credentials abort startup.
type ExchangeConfig struct {
	Name        string `mapstructure:"name"`
	APIKey      string `mapstructure:"api_key"`
	APISecret   string `mapstructure:"api_secret"`
	Passphrase  string `mapstructure:"passphrase"`
	BaseURL     string `mapstructure:"base_url"`
	ProductType string `mapstructure:"product_type"`
	MarginCoin  string `mapstructure:"margin_coin"`
	// HTTPTimeoutSeconds bounds every REST call; the orchestrator itself
	// imposes no timeouts.
	HTTPTimeoutSeconds int `mapstructure:"http_timeout_seconds"`
}

// MarketConfig selects where candles come from. The candle source may be
// a different venue than the trading exchange.
type MarketConfig struct {
	Source      string `mapstructure:"source"` // "bitget" or "binance"
	RESTBaseURL string `mapstructure:"rest_base_url"`
	CandleLimit int    `mapstructure:"candle_limit"`
	// TickOffsetSeconds delays each evaluation past the candle close so
	// the venue has published the closed candle.
	TickOffsetSeconds int `mapstructure:"tick_offset_seconds"`
}

type TradingConfig struct {
	// ProfilesPath points at the hot-reloaded per-symbol profile file.
	ProfilesPath   string     `mapstructure:"profiles_path"`
	Risk           RiskConfig `mapstructure:"risk"`
	RunImmediately bool       `mapstructure:"run_immediately"`
}

// RiskConfig mirrors trader.RiskConfig; kept separate so the config
// package stays a leaf.
type RiskConfig struct {
	StopLossPct   float64 `mapstructure:"stop_loss_pct"`
	TakeProfitPct float64 `mapstructure:"take_profit_pct"`
	PriceScale    int32   `mapstructure:"price_scale"`
}
