package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

const validConfig = `
app:
  log_level: debug
exchange:
  api_key: k
  api_secret: s
  passphrase: p
trading:
  risk:
    stop_loss_pct: 0.02
`

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	require.NoError(t, err)

	assert.Equal(t, "bitget", cfg.Exchange.Name)
	assert.Equal(t, "USDT-FUTURES", cfg.Exchange.ProductType)
	assert.Equal(t, ":8090", cfg.Server.Addr)
	assert.Equal(t, "bitget", cfg.Market.Source)
	assert.Equal(t, 0.02, cfg.Trading.Risk.StopLossPct)
	assert.Equal(t, 0.05, cfg.Trading.Risk.TakeProfitPct)
}

func TestLoadMissingCredentialsFails(t *testing.T) {
	_, err := Load(writeConfig(t, "app:\n  log_level: info\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing exchange credentials")
}

func TestLoadCredentialsFromEnv(t *testing.T) {
	t.Setenv("MAKO_API_KEY", "env-key")
	t.Setenv("MAKO_API_SECRET", "env-secret")
	t.Setenv("MAKO_API_PASSPHRASE", "env-pass")

	cfg, err := Load(writeConfig(t, "server:\n  addr: ':9000'\n"))
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.Exchange.APIKey)
	assert.Equal(t, ":9000", cfg.Server.Addr)
}

func TestLoadRejectsUnknownExchange(t *testing.T) {
	body := validConfig + "\n" + "market:\n  source: kraken\n"
	_, err := Load(writeConfig(t, body))
	assert.Error(t, err)
}

func TestLoadRejectsWholePercentages(t *testing.T) {
	body := `
exchange:
  api_key: k
  api_secret: s
  passphrase: p
trading:
  risk:
    stop_loss_pct: 1.0
`
	_, err := Load(writeConfig(t, body))
	assert.Error(t, err)
}
