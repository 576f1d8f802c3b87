package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quantfall/tradesim/feed"
	"github.com/quantfall/tradesim/store"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch historical candles and cache them locally",
	Long: `Fetch downloads historical klines over REST and stores them in a local
SQLite candle database for offline backtests.

Example:
  tradesim fetch --symbol BTC --interval 1d --limit 365 --db ./candles.db`,
	RunE: runFetchCmd,
}

var (
	fetchSymbol   string
	fetchInterval string
	fetchLimit    int
	fetchDBPath   string
)

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringVarP(&fetchSymbol, "symbol", "s", "BTC", "symbol to fetch")
	fetchCmd.Flags().StringVarP(&fetchInterval, "interval", "i", "1d", "candle interval")
	fetchCmd.Flags().IntVarP(&fetchLimit, "limit", "l", 500, "number of candles")
	fetchCmd.Flags().StringVarP(&fetchDBPath, "db", "d", "./candles.db", "candle store path")
}

func runFetchCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st, err := store.NewSQLite(fetchDBPath)
	if err != nil {
		return fmt.Errorf("open candle store: %w", err)
	}
	defer st.Close()

	fetcher := feed.NewFetcher(
		feed.WithBaseURL(cfg.Feed.RestURL),
		feed.WithStore(st),
	)

	candles, err := fetcher.FetchHistorical(cmd.Context(), fetchSymbol, fetchInterval, fetchLimit)
	if err != nil {
		return err
	}
	if len(candles) == 0 {
		return fmt.Errorf("no candles returned for %s", fetchSymbol)
	}

	first, last := candles[0], candles[len(candles)-1]
	fmt.Printf("Fetched %d %s candles for %s\n", len(candles), fetchInterval, fetchSymbol)
	fmt.Printf("  Range: %s -> %s\n", first.Time.Format("2006-01-02 15:04"), last.Time.Format("2006-01-02 15:04"))
	fmt.Printf("  Store: %s\n", fetchDBPath)
	return nil
}
