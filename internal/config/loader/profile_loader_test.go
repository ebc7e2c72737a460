package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validProfiles = `
profiles:
  btcusdt:
    strategy: crossover
    interval: 5m
    size: 0.01
    leverage: 10
    params:
      fast_period: 9
      slow_period: 21
  ETH/USDT:
    strategy: momentum
    interval: 15m
    size: 0.1
    leverage: 5
`

func writeProfiles(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestProfileLoaderNormalizesSymbols(t *testing.T) {
	l, err := NewProfileLoader(writeProfiles(t, validProfiles))
	require.NoError(t, err)

	snap := l.Snapshot()
	assert.Equal(t, int64(1), snap.Version)
	require.Len(t, snap.Profiles, 2)
	assert.Contains(t, snap.Profiles, "BTC/USDT")
	assert.Contains(t, snap.Profiles, "ETH/USDT")
	assert.Equal(t, "crossover", snap.Profiles["BTC/USDT"].Strategy)
	assert.Equal(t, float64(9), snap.Profiles["BTC/USDT"].Params["fast_period"])
}

func TestProfileLoaderRejectsInvalidProfile(t *testing.T) {
	cases := map[string]string{
		"missing strategy": "profiles:\n  BTC/USDT:\n    interval: 5m\n    size: 1\n    leverage: 2\n",
		"bad interval":     "profiles:\n  BTC/USDT:\n    strategy: crossover\n    interval: 5x\n    size: 1\n    leverage: 2\n",
		"zero size":        "profiles:\n  BTC/USDT:\n    strategy: crossover\n    interval: 5m\n    size: 0\n    leverage: 2\n",
		"empty file":       "profiles: {}\n",
	}
	for name, body := range cases {
		_, err := NewProfileLoader(writeProfiles(t, body))
		assert.Error(t, err, name)
	}
}

func TestProfileLoaderReloadKeepsLastGoodOnError(t *testing.T) {
	path := writeProfiles(t, validProfiles)
	l, err := NewProfileLoader(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("profiles: {}\n"), 0o644))
	l.reload()
	snap := l.Snapshot()
	assert.Equal(t, int64(1), snap.Version)
	assert.Len(t, snap.Profiles, 2)

	good := "profiles:\n  SOL/USDT:\n    strategy: momentum\n    interval: 1h\n    size: 1\n    leverage: 3\n"
	require.NoError(t, os.WriteFile(path, []byte(good), 0o644))
	l.reload()
	snap = l.Snapshot()
	assert.Equal(t, int64(2), snap.Version)
	assert.Contains(t, snap.Profiles, "SOL/USDT")
}
