package cmd

import (
	"github.com/spf13/cobra"

	"github.com/quantfall/tradesim/config"
	"github.com/quantfall/tradesim/internal/logx"
)

var rootCmd = &cobra.Command{
	Use:   "tradesim",
	Short: "A crypto trading simulator and backtesting engine",
	Long: `Tradesim is a trading simulation and research engine written in Go.

It provides tools for:
  - Backtesting regime-aware strategies against historical candles
  - Simulated order execution with latency and slippage
  - Portfolio accounting with weighted-average cost basis
  - Risk limits: drawdown from peak, position sizing
  - Trade journaling to CSV or SQLite
  - Fetching and caching historical market data`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logx.Setup(cfg.LogLevel)
		return nil
	},
}

var (
	cfgPath  string
	logLevel string
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
}

// loadConfig resolves configuration: file if given, otherwise defaults
// with .env and environment overrides. The --log-level flag wins last.
func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if cfgPath != "" {
		cfg, err = config.LoadFromFile(cfgPath)
	} else {
		cfg, err = config.LoadEnv()
	}
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	return cfg, nil
}
