package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quantfall/tradesim/backtest"
	"github.com/quantfall/tradesim/config"
	"github.com/quantfall/tradesim/feed"
	"github.com/quantfall/tradesim/market"
	"github.com/quantfall/tradesim/regime"
	"github.com/quantfall/tradesim/store"
	"github.com/quantfall/tradesim/strategy"
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Replay historical candles against a strategy",
	Long: `Backtest replays historical candles through a strategy and reports the
resulting portfolio performance.

Candles come from a local CSV archive (--data, .gz and .xz supported) or
are fetched over REST when no file is given.

Example:
  tradesim backtest --data data/btc_1d.csv.xz --strategy ema-crossover --regime bull`,
	RunE: runBacktestCmd,
}

var (
	btDataPath   string
	btSymbol     string
	btStrategy   string
	btRegime     string
	btInterval   string
	btLimit      int
	btBalance    float64
	btAmount     float64
	btJournal    string
	btUseRegime  bool
	btReportPath string
)

func init() {
	rootCmd.AddCommand(backtestCmd)

	backtestCmd.Flags().StringVarP(&btDataPath, "data", "d", "", "candle CSV path (.csv, .csv.gz, .csv.xz); empty fetches over REST")
	backtestCmd.Flags().StringVarP(&btSymbol, "symbol", "s", "", "symbol to trade (default from config)")
	backtestCmd.Flags().StringVar(&btStrategy, "strategy", "", "strategy name (default from config)")
	backtestCmd.Flags().StringVar(&btRegime, "regime", "", "market regime the strategy targets (default from config)")
	backtestCmd.Flags().StringVar(&btInterval, "interval", "", "candle interval (default from config)")
	backtestCmd.Flags().IntVar(&btLimit, "limit", 500, "candles to fetch when no data file is given")
	backtestCmd.Flags().Float64VarP(&btBalance, "balance", "b", 0, "starting balance in USD (default from config)")
	backtestCmd.Flags().Float64VarP(&btAmount, "amount", "a", 0, "buy order size in base units (default from config)")
	backtestCmd.Flags().StringVarP(&btJournal, "journal", "j", "", "CSV journal path (default from config)")
	backtestCmd.Flags().BoolVar(&btUseRegime, "use-regime", false, "label candles with SMA-crossover regimes before replay")
	backtestCmd.Flags().StringVar(&btReportPath, "report", "", "write the report to this path instead of stdout")
}

func runBacktestCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	symbol := orDefault(btSymbol, cfg.Backtest.Symbol)
	stratName := orDefault(btStrategy, cfg.Backtest.Strategy)
	regimeName := orDefault(btRegime, cfg.Backtest.Regime)
	interval := orDefault(btInterval, cfg.Backtest.Interval)
	balance := orDefaultF(btBalance, cfg.Account.BalanceUSD)
	amount := orDefaultF(btAmount, cfg.Backtest.TradeAmount)
	journalPath := orDefault(btJournal, cfg.Journal.TradesFile)
	useRegime := btUseRegime || cfg.Backtest.UseRegime

	strat, err := strategy.New(regimeName, stratName, symbol, nil)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	fetcher, closeStore, err := newFetcher(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	candles, err := loadCandles(ctx, fetcher, symbol, interval)
	if err != nil {
		return err
	}

	runner := backtest.NewRunner(backtest.Options{
		TradeAmount:    amount,
		JournalPath:    journalPath,
		RegimeProvider: regime.NewHistoricalProvider(fetcher, nil),
		RegimeInterval: interval,
	})

	sum, err := runner.Run(ctx, strat, candles, balance, useRegime)
	if err != nil {
		return fmt.Errorf("backtest: %w", err)
	}

	if btReportPath != "" {
		if err := backtest.SaveReport(sum, btReportPath); err != nil {
			return err
		}
		fmt.Printf("Report written to %s\n", btReportPath)
		return nil
	}
	fmt.Print(backtest.RenderReport(sum))
	return nil
}

// newFetcher builds the REST fetcher, with candle-store write-through
// when the config names a store path.
func newFetcher(cfg *config.Config) (*feed.Fetcher, func(), error) {
	opts := []feed.FetcherOption{feed.WithBaseURL(cfg.Feed.RestURL)}
	closeStore := func() {}

	if cfg.Feed.StorePath != "" {
		st, err := store.NewSQLite(cfg.Feed.StorePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open candle store: %w", err)
		}
		opts = append(opts, feed.WithStore(st))
		closeStore = func() { st.Close() }
	}
	return feed.NewFetcher(opts...), closeStore, nil
}

func loadCandles(ctx context.Context, fetcher *feed.Fetcher, symbol, interval string) ([]market.Candle, error) {
	if btDataPath != "" {
		return feed.LoadCSV(btDataPath, symbol)
	}
	return fetcher.FetchHistorical(ctx, symbol, interval, btLimit)
}

func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

func orDefaultF(v, def float64) float64 {
	if v > 0 {
		return v
	}
	return def
}
