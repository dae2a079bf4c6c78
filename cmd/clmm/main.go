package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/CetusProtocol/cetus-clmm-sdk/cmd/clmm/config"
	"github.com/CetusProtocol/cetus-clmm-sdk/protocols/clmm"
	"github.com/CetusProtocol/cetus-clmm-sdk/quoter"
	"github.com/CetusProtocol/cetus-clmm-sdk/snapshot"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "clmm",
		Short:        "Quote swaps, fees, rewards and liquidity over CLMM pool snapshots",
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "config file path")
	pf.String("snapshot", "", "pool snapshot file (YAML or JSON)")
	pf.String("override", "", "snapshot whose pools replace or extend the base snapshot")
	pf.Uint8("decimals-a", 9, "coin A decimals")
	pf.Uint8("decimals-b", 9, "coin B decimals")
	pf.String("slippage", "0.5", "slippage tolerance in percent")
	pf.Int64("now", 0, "unix seconds used for reward accrual, 0 means current time")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.String("log-file", "", "also write logs to this rotating file")
	pf.Bool("metrics", false, "print quoter metrics to stderr on exit")

	root.AddCommand(newSwapCmd(), newFeesCmd(), newRewardsCmd(), newLiquidityCmd(), newDiffCmd())
	return root
}

func newLogger(cfg config.Config, stderr io.Writer) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	writer := stderr
	if cfg.LogFile != "" {
		writer = io.MultiWriter(stderr, &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    cfg.LogMaxSizeMB,
			MaxBackups: cfg.LogMaxBackups,
			MaxAge:     cfg.LogMaxAgeDays,
			Compress:   true,
		})
	}
	return slog.New(slog.NewJSONHandler(writer, &slog.HandlerOptions{Level: level}))
}

// env is what every command works with once flags and the snapshot are loaded.
type env struct {
	cfg       config.Config
	logger    *slog.Logger
	registry  *prometheus.Registry
	quoter    *quoter.Quoter
	positions []clmm.Position
}

func setup(cmd *cobra.Command) (*env, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg, cmd.ErrOrStderr())

	clock := time.Now
	if cfg.Now > 0 {
		pinned := time.Unix(cfg.Now, 0)
		clock = func() time.Time { return pinned }
	}

	registry := prometheus.NewRegistry()
	q, err := quoter.New(&quoter.Config{
		Registry: registry,
		Logger:   logger.With("component", "quoter"),
		Clock:    clock,
	})
	if err != nil {
		return nil, err
	}

	snap, err := snapshot.Load(cfg.Snapshot)
	if err != nil {
		return nil, err
	}
	q.Load(snap.Pools)

	if cfg.Override != "" {
		override, err := snapshot.Load(cfg.Override)
		if err != nil {
			return nil, err
		}
		if err := q.Apply(clmm.OverrideDiff(snap.Pools, override.Pools)); err != nil {
			return nil, err
		}
		snap.Positions = append(snap.Positions, override.Positions...)
		logger.Info("override applied", "file", cfg.Override, "pools", len(override.Pools))
	}

	return &env{cfg: cfg, logger: logger, registry: registry, quoter: q, positions: snap.Positions}, nil
}

// close writes the collected metrics when requested.
func (e *env) close(stderr io.Writer) {
	if !e.cfg.Metrics {
		return
	}
	families, err := e.registry.Gather()
	if err != nil {
		e.logger.Error("failed to gather metrics", "error", err)
		return
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(stderr, mf); err != nil {
			e.logger.Error("failed to write metrics", "error", err)
			return
		}
	}
}

func requireFlag(cmd *cobra.Command, name string) error {
	if !cmd.Flags().Changed(name) {
		return fmt.Errorf("--%s is required", name)
	}
	return nil
}
