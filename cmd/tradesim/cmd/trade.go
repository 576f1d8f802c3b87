package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/quantfall/tradesim/config"
	"github.com/quantfall/tradesim/exchange"
	"github.com/quantfall/tradesim/feed"
	"github.com/quantfall/tradesim/journal"
	"github.com/quantfall/tradesim/market"
	"github.com/quantfall/tradesim/portfolio"
	"github.com/quantfall/tradesim/risk"
	"github.com/quantfall/tradesim/strategy"
	"github.com/quantfall/tradesim/trader"
)

var tradeCmd = &cobra.Command{
	Use:   "trade",
	Short: "Trade live prices through the simulated or live exchange",
	Long: `Trade subscribes to a live price stream and drives a strategy through
the execution pipeline: risk checks, order execution, portfolio
accounting, and journaling. With execution.mode "simulation" (the
default) no real orders leave the process.

Stop with Ctrl-C; the final portfolio status is printed on exit.

Example:
  tradesim trade --symbol BTC --strategy range-bound --regime sideways`,
	RunE: runTradeCmd,
}

var (
	tradeSymbol   string
	tradeStrategy string
	tradeRegime   string
	tradeAmount   float64
	tradeHistory  int
)

func init() {
	rootCmd.AddCommand(tradeCmd)

	tradeCmd.Flags().StringVarP(&tradeSymbol, "symbol", "s", "", "symbol to trade (default from config)")
	tradeCmd.Flags().StringVar(&tradeStrategy, "strategy", "", "strategy name (default from config)")
	tradeCmd.Flags().StringVar(&tradeRegime, "regime", "", "market regime the strategy targets (default from config)")
	tradeCmd.Flags().Float64VarP(&tradeAmount, "amount", "a", 0, "buy order size in base units (default from config)")
	tradeCmd.Flags().IntVar(&tradeHistory, "history", 500, "ticks of price history kept for the strategy")
}

func runTradeCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	symbol := orDefault(tradeSymbol, cfg.Backtest.Symbol)
	stratName := orDefault(tradeStrategy, cfg.Backtest.Strategy)
	regimeName := orDefault(tradeRegime, cfg.Backtest.Regime)
	amount := orDefaultF(tradeAmount, cfg.Backtest.TradeAmount)

	strat, err := strategy.New(regimeName, stratName, symbol, nil)
	if err != nil {
		return err
	}

	ex, err := exchange.New(exchange.Mode(cfg.Execution.Mode), exchange.SimulatorConfig{
		LatencyMeanMs: cfg.Execution.LatencyMeanMs,
		LatencyStdMs:  cfg.Execution.LatencyStdMs,
		SlippageMean:  cfg.Execution.SlippageMean,
		SlippageStd:   cfg.Execution.SlippageStd,
		Seed:          cfg.Execution.Seed,
	}, "binance")
	if err != nil {
		return err
	}

	jnl, err := openJournal(cfg)
	if err != nil {
		return err
	}
	defer jnl.Close()

	ledger := portfolio.NewLedger(cfg.Account.BalanceUSD)
	coord := trader.NewCoordinator(ex, ledger, jnl)
	gate := risk.NewManager(risk.Limits{
		MaxDrawdown:     cfg.Risk.MaxDrawdown,
		MaxPositionSize: cfg.Risk.MaxPositionSize,
		RiskPerTrade:    cfg.Risk.RiskPerTrade,
	})
	if cfg.Risk.ResetPeakPerRun {
		gate.Reset()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stream := feed.NewTickerStream(feed.WithStreamURL(cfg.Feed.StreamURL))
	ticks, err := stream.Subscribe(ctx, []string{symbol})
	if err != nil {
		return err
	}
	defer stream.Close()

	fmt.Printf("Trading %s with %s/%s (%s mode). Ctrl-C to stop.\n",
		symbol, regimeName, stratName, cfg.Execution.Mode)

	lastPrice := tradeLoop(ctx, ticks, strat, coord, gate, symbol, amount)

	var prices map[string]float64
	if lastPrice > 0 {
		prices = map[string]float64{symbol: lastPrice}
	}
	printStatus(coord.PortfolioStatus(prices))
	return nil
}

// tradeLoop folds ticks into a growing candle history and trades on the
// strategy's signals. It returns the last observed price.
func tradeLoop(ctx context.Context, ticks <-chan feed.Tick, strat strategy.Strategy, coord *trader.Coordinator, gate *risk.Manager, symbol string, amount float64) float64 {
	var history []market.Candle
	var lastPrice float64

	for {
		select {
		case <-ctx.Done():
			return lastPrice
		case tick, open := <-ticks:
			if !open {
				return lastPrice
			}
			lastPrice = tick.Price
			history = append(history, market.Candle{
				Symbol: symbol,
				Time:   tick.Time,
				Open:   tick.Price, High: tick.Price, Low: tick.Price, Close: tick.Price,
			})
			if len(history) > tradeHistory {
				history = history[len(history)-tradeHistory:]
			}

			prices := map[string]float64{symbol: tick.Price}
			switch strat.GenerateSignal(history) {
			case strategy.Buy:
				placeOrder(coord, gate, market.OrderRequest{
					Side: market.Buy, Symbol: symbol, Amount: amount, Price: tick.Price,
				}, prices)
			case strategy.Sell:
				held := coord.PortfolioStatus(nil).Positions[symbol].Amount
				if held <= 0 {
					slog.Info("no position to sell", "symbol", symbol)
					continue
				}
				placeOrder(coord, gate, market.OrderRequest{
					Side: market.Sell, Symbol: symbol, Amount: held, Price: tick.Price,
				}, prices)
			}
		}
	}
}

func placeOrder(coord *trader.Coordinator, gate *risk.Manager, order market.OrderRequest, prices map[string]float64) {
	value := coord.PortfolioStatus(prices).PortfolioValueUSD
	if !gate.CheckTradeLimits(order, value) {
		slog.Warn("order blocked by risk limits",
			"side", order.Side.String(), "symbol", order.Symbol, "usd_value", order.USDValue())
		return
	}

	out := coord.ExecuteTrade(order)
	if out.Status == exchange.Success {
		slog.Info("trade executed",
			"side", order.Side.String(), "symbol", order.Symbol,
			"amount", out.ExecutedAmount, "price", out.ExecutedPrice,
			"latency", out.Latency)
	}
}

func openJournal(cfg *config.Config) (journal.Journal, error) {
	switch cfg.Journal.Type {
	case "sqlite":
		return journal.NewSQLite(cfg.Journal.DBPath, "")
	default:
		return journal.NewCSV(cfg.Journal.TradesFile)
	}
}

func printStatus(st trader.PortfolioStatus) {
	fmt.Printf("\nFinal portfolio status:\n")
	fmt.Printf("  Balance: $%.2f\n", st.BalanceUSD)
	for sym, pos := range st.Positions {
		fmt.Printf("  %s: %.8f @ $%.2f avg\n", sym, pos.Amount, pos.AvgPrice)
	}
	if st.PnL != nil {
		fmt.Printf("  Portfolio Value: $%.2f\n", st.PortfolioValueUSD)
		fmt.Printf("  Unrealized PnL: $%.2f\n", st.PnL.Total)
	}
}
