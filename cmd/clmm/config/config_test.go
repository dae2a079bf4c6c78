package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir changes the working directory for the duration of the test,
// equivalent to testing.T.Chdir (Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("snapshot", "", "")
	fs.String("log-level", "info", "")
	fs.Uint8("decimals-a", 9, "")
	fs.String("slippage", "0.5", "")
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("", newFlags(t, "--snapshot", "pools.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "pools.yaml", cfg.Snapshot)
	assert.Equal(t, uint8(9), cfg.DecimalsA)
	assert.Equal(t, uint8(9), cfg.DecimalsB)
	assert.Equal(t, "0.5", cfg.Slippage.String())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 10, cfg.LogMaxSizeMB)
	assert.Equal(t, int64(0), cfg.Now)
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "clmm.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("snapshot: from-file.yaml\ndecimals-b: 6\nlog-level: warn\nnow: 1700000000\n"), 0o644))

	t.Run("file values apply", func(t *testing.T) {
		cfg, err := Load(cfgFile, newFlags(t))
		require.NoError(t, err)
		assert.Equal(t, "from-file.yaml", cfg.Snapshot)
		assert.Equal(t, uint8(6), cfg.DecimalsB)
		assert.Equal(t, "warn", cfg.LogLevel)
		assert.Equal(t, int64(1_700_000_000), cfg.Now)
	})

	t.Run("env overrides file", func(t *testing.T) {
		t.Setenv("CLMM_LOG_LEVEL", "DEBUG")
		cfg, err := Load(cfgFile, newFlags(t))
		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.LogLevel)
	})

	t.Run("flags override file", func(t *testing.T) {
		cfg, err := Load(cfgFile, newFlags(t, "--snapshot", "from-flag.yaml", "--slippage", "1"))
		require.NoError(t, err)
		assert.Equal(t, "from-flag.yaml", cfg.Snapshot)
		assert.Equal(t, "1", cfg.Slippage.String())
	})

	t.Run("missing explicit config file", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "nope.yaml"), newFlags(t))
		assert.ErrorContains(t, err, "read config")
	})
}

func TestValidate(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := Load("", newFlags(t))
	assert.EqualError(t, err, "config: snapshot path is required")

	_, err = Load("", newFlags(t, "--snapshot", "a", "--slippage", "abc"))
	assert.ErrorContains(t, err, "invalid slippage")

	_, err = Load("", newFlags(t, "--snapshot", "a", "--slippage", "-1"))
	assert.EqualError(t, err, "config: slippage must not be negative")

	_, err = Load("", newFlags(t, "--snapshot", "a", "--log-level", "loud"))
	assert.EqualError(t, err, `config: unknown log level "loud"`)
}
