// Package config loads and validates runtime configuration from YAML or
// JSON files, with optional overrides from the process environment.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the complete engine configuration.
type Config struct {
	LogLevel  string          `json:"log_level" yaml:"log_level"`
	Account   AccountConfig   `json:"account" yaml:"account"`
	Risk      RiskConfig      `json:"risk" yaml:"risk"`
	Execution ExecutionConfig `json:"execution" yaml:"execution"`
	Backtest  BacktestConfig  `json:"backtest" yaml:"backtest"`
	Journal   JournalConfig   `json:"journal" yaml:"journal"`
	Feed      FeedConfig      `json:"feed" yaml:"feed"`
}

// AccountConfig contains account initialization parameters.
type AccountConfig struct {
	ID         string  `json:"id" yaml:"id"`
	Currency   string  `json:"currency" yaml:"currency"`
	BalanceUSD float64 `json:"balance_usd" yaml:"balance_usd"`
}

// RiskConfig contains portfolio risk limits.
type RiskConfig struct {
	MaxDrawdown     float64 `json:"max_drawdown" yaml:"max_drawdown"`
	MaxPositionSize float64 `json:"max_position_size" yaml:"max_position_size"`
	RiskPerTrade    float64 `json:"risk_per_trade" yaml:"risk_per_trade"`

	// ResetPeakPerRun starts each backtest with a zero peak instead of
	// carrying the high-water mark across runs.
	ResetPeakPerRun bool `json:"reset_peak_per_run" yaml:"reset_peak_per_run"`
}

// ExecutionConfig selects and tunes the execution venue.
type ExecutionConfig struct {
	Mode          string  `json:"mode" yaml:"mode"` // "simulation" or "live"
	LatencyMeanMs float64 `json:"latency_mean_ms" yaml:"latency_mean_ms"`
	LatencyStdMs  float64 `json:"latency_std_ms" yaml:"latency_std_ms"`
	SlippageMean  float64 `json:"slippage_mean" yaml:"slippage_mean"`
	SlippageStd   float64 `json:"slippage_std" yaml:"slippage_std"`
	Seed          int64   `json:"seed,omitempty" yaml:"seed,omitempty"`
}

// BacktestConfig contains replay parameters.
type BacktestConfig struct {
	Symbol      string  `json:"symbol" yaml:"symbol"`
	Strategy    string  `json:"strategy" yaml:"strategy"`
	Regime      string  `json:"regime" yaml:"regime"`
	TradeAmount float64 `json:"trade_amount" yaml:"trade_amount"`
	UseRegime   bool    `json:"use_regime" yaml:"use_regime"`
	Interval    string  `json:"interval" yaml:"interval"`
}

// JournalConfig contains trade journaling parameters.
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "csv" or "sqlite"
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// FeedConfig contains market-data source parameters.
type FeedConfig struct {
	RestURL   string `json:"rest_url" yaml:"rest_url"`
	StreamURL string `json:"stream_url" yaml:"stream_url"`
	StorePath string `json:"store_path,omitempty" yaml:"store_path,omitempty"`
}

// LoadFromFile loads configuration from a file (YAML or JSON based on
// content), applies environment overrides, and validates the result.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON.
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadEnv reads a .env file if present and returns a default config with
// environment overrides applied. A missing .env is not an error.
func LoadEnv() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// applyEnv overrides select fields from TRADESIM_* environment variables.
func (c *Config) applyEnv() {
	if v := os.Getenv("TRADESIM_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("TRADESIM_BALANCE_USD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Account.BalanceUSD = f
		}
	}
	if v := os.Getenv("TRADESIM_EXECUTION_MODE"); v != "" {
		c.Execution.Mode = v
	}
	if v := os.Getenv("TRADESIM_JOURNAL_TYPE"); v != "" {
		c.Journal.Type = v
	}
	if v := os.Getenv("TRADESIM_FEED_REST_URL"); v != "" {
		c.Feed.RestURL = v
	}
	if v := os.Getenv("TRADESIM_FEED_STREAM_URL"); v != "" {
		c.Feed.StreamURL = v
	}
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension).
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Account.Currency == "" {
		return fmt.Errorf("account.currency is required")
	}
	if c.Account.BalanceUSD <= 0 {
		return fmt.Errorf("account.balance_usd must be positive")
	}
	if c.Risk.MaxDrawdown <= 0 || c.Risk.MaxDrawdown > 1 {
		return fmt.Errorf("risk.max_drawdown must be between 0 and 1")
	}
	if c.Risk.MaxPositionSize <= 0 || c.Risk.MaxPositionSize > 1 {
		return fmt.Errorf("risk.max_position_size must be between 0 and 1")
	}
	if c.Risk.RiskPerTrade < 0 || c.Risk.RiskPerTrade > 1 {
		return fmt.Errorf("risk.risk_per_trade must be between 0 and 1")
	}
	if c.Execution.Mode != "simulation" && c.Execution.Mode != "live" {
		return fmt.Errorf("execution.mode must be 'simulation' or 'live'")
	}
	if c.Execution.LatencyMeanMs < 0 || c.Execution.LatencyStdMs < 0 {
		return fmt.Errorf("execution latency parameters must not be negative")
	}
	if c.Backtest.Symbol == "" {
		return fmt.Errorf("backtest.symbol is required")
	}
	if c.Backtest.TradeAmount <= 0 {
		return fmt.Errorf("backtest.trade_amount must be positive")
	}
	if c.Journal.Type != "csv" && c.Journal.Type != "sqlite" {
		return fmt.Errorf("journal.type must be 'csv' or 'sqlite'")
	}
	if c.Journal.Type == "csv" && c.Journal.TradesFile == "" {
		return fmt.Errorf("journal.trades_file required for CSV type")
	}
	if c.Journal.Type == "sqlite" && c.Journal.DBPath == "" {
		return fmt.Errorf("journal.db_path required for SQLite type")
	}
	return nil
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Account: AccountConfig{
			ID:         "SIM-001",
			Currency:   "USD",
			BalanceUSD: 10000,
		},
		Risk: RiskConfig{
			MaxDrawdown:     0.1,
			MaxPositionSize: 0.5,
			RiskPerTrade:    0.02,
			ResetPeakPerRun: true,
		},
		Execution: ExecutionConfig{
			Mode:          "simulation",
			LatencyMeanMs: 50,
			LatencyStdMs:  15,
			SlippageMean:  0,
			SlippageStd:   0.001,
		},
		Backtest: BacktestConfig{
			Symbol:      "BTC",
			Strategy:    "ema-crossover",
			Regime:      "bull",
			TradeAmount: 0.01,
			Interval:    "1d",
		},
		Journal: JournalConfig{
			Type:       "csv",
			TradesFile: "./transactions.csv",
		},
		Feed: FeedConfig{
			RestURL:   "https://api.binance.com",
			StreamURL: "wss://stream.binance.com:9443/ws",
		},
	}
}
