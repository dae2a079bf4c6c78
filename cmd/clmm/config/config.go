package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds the settings shared by every clmm command, merged from a config
// file, CLMM_ environment variables and flags.
type Config struct {
	Snapshot string
	Override string

	DecimalsA uint8
	DecimalsB uint8
	// Slippage is a percent value, 0.5 meaning 0.5%.
	Slippage decimal.Decimal
	// Now pins the clock for reward accrual (unix seconds). Zero means wall time.
	Now int64

	LogLevel      string
	LogFile       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int

	Metrics bool
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("CLMM")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("decimals-a", 9)
	v.SetDefault("decimals-b", 9)
	v.SetDefault("slippage", "0.5")
	v.SetDefault("log-level", "info")
	v.SetDefault("log-max-size", 10)
	v.SetDefault("log-max-backups", 3)
	v.SetDefault("log-max-age", 28)

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("clmm")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	slippage, err := decimal.NewFromString(v.GetString("slippage"))
	if err != nil {
		return Config{}, fmt.Errorf("config: invalid slippage %q: %w", v.GetString("slippage"), err)
	}

	cfg := Config{
		Snapshot:      v.GetString("snapshot"),
		Override:      v.GetString("override"),
		DecimalsA:     uint8(v.GetUint("decimals-a")),
		DecimalsB:     uint8(v.GetUint("decimals-b")),
		Slippage:      slippage,
		Now:           v.GetInt64("now"),
		LogLevel:      strings.ToLower(v.GetString("log-level")),
		LogFile:       v.GetString("log-file"),
		LogMaxSizeMB:  v.GetInt("log-max-size"),
		LogMaxBackups: v.GetInt("log-max-backups"),
		LogMaxAgeDays: v.GetInt("log-max-age"),
		Metrics:       v.GetBool("metrics"),
	}
	return cfg, cfg.Validate()
}

// Validate checks the settings every command relies on.
func (c Config) Validate() error {
	if c.Snapshot == "" {
		return errors.New("config: snapshot path is required")
	}
	if c.Slippage.IsNegative() {
		return errors.New("config: slippage must not be negative")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log level %q", c.LogLevel)
	}
	if c.Now < 0 {
		return errors.New("config: now must not be negative")
	}
	return nil
}
