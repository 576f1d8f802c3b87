package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/quantfall/tradesim/feed"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Stream live prices for one or more symbols",
	Long: `Status subscribes to the live ticker stream and prints price updates
until Ctrl-C or --count updates have arrived.

Example:
  tradesim status --symbols BTC,ETH --count 10`,
	RunE: runStatusCmd,
}

var (
	statusSymbols []string
	statusCount   int
)

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().StringSliceVarP(&statusSymbols, "symbols", "s", []string{"BTC"}, "symbols to watch")
	statusCmd.Flags().IntVarP(&statusCount, "count", "n", 0, "stop after this many updates (0 = until Ctrl-C)")
}

func runStatusCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stream := feed.NewTickerStream(feed.WithStreamURL(cfg.Feed.StreamURL))
	ticks, err := stream.Subscribe(ctx, statusSymbols)
	if err != nil {
		return err
	}
	defer stream.Close()

	seen := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		case tick, open := <-ticks:
			if !open {
				return nil
			}
			fmt.Printf("%s  %-6s $%.2f\n", tick.Time.Format("15:04:05"), tick.Symbol, tick.Price)
			seen++
			if statusCount > 0 && seen >= statusCount {
				return nil
			}
		}
	}
}
