// Package backtest replays historical candles against a strategy and keeps
// an exact account of the simulated portfolio. Each run owns a fresh ledger
// and journal; orders apply straight through them, bypassing the risk gate
// and execution simulator used on the live path.
package backtest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/quantfall/tradesim/journal"
	"github.com/quantfall/tradesim/market"
	"github.com/quantfall/tradesim/pkg/id"
	"github.com/quantfall/tradesim/portfolio"
	"github.com/quantfall/tradesim/regime"
	"github.com/quantfall/tradesim/strategy"
)

// ErrNoData aborts a run before any state exists.
var ErrNoData = errors.New("no historical data provided")

// Status of a completed run.
const (
	StatusCompleted = "completed"
	StatusError     = "error"
)

// Summary is the read-only result of one run.
type Summary struct {
	RunID        string
	Status       string
	StrategyName string
	Symbol       string

	InitialBalanceUSD      float64
	FinalBalanceUSD        float64
	FinalPortfolioValueUSD float64
	TotalPnLUSD            float64

	Duration   time.Duration
	JournalRef string

	// Step accounting, for report rendering.
	Steps     int
	Buys      int
	Sells     int
	Rejected  int
	NoOpSells int
	Invalid   int
}

// Options configures a runner.
type Options struct {
	// TradeAmount is the fixed base-unit size of every buy order.
	TradeAmount float64

	// JournalPath is where the run's CSV journal lands. Empty keeps the
	// journal in memory (tests, throwaway runs).
	JournalPath string

	// RegimeProvider, when set and requested, labels each step before
	// replay. Fetch or join failures are logged and ignored.
	RegimeProvider regime.Provider
	RegimeInterval string
}

// Runner executes backtests. It is reusable: every Run builds fresh
// per-run state.
type Runner struct {
	opts Options
}

func NewRunner(opts Options) *Runner {
	if opts.TradeAmount <= 0 {
		opts.TradeAmount = 0.01
	}
	if opts.RegimeInterval == "" {
		opts.RegimeInterval = "1d"
	}
	return &Runner{opts: opts}
}

// Run replays the series through the strategy.
//
// The input is sorted once by timestamp; each step the strategy sees only
// the history up to and including that step. A buy places a fixed-size
// order at the step's close; a sell liquidates the whole position; hold and
// unrecognized signals change nothing. No per-step failure aborts the run —
// only an empty input does.
func (r *Runner) Run(ctx context.Context, strat strategy.Strategy, series []market.Candle, initialBalanceUSD float64, useRegime bool) (Summary, error) {
	runID := id.New()
	sum := Summary{
		RunID:             runID,
		Status:            StatusError,
		StrategyName:      strat.Name(),
		Symbol:            strat.Symbol(),
		InitialBalanceUSD: initialBalanceUSD,
	}

	if len(series) == 0 {
		slog.Warn("historical data is empty, backtest cannot run", "strategy", strat.Name())
		return sum, ErrNoData
	}

	slog.Info("starting backtest",
		"run_id", runID, "strategy", strat.Name(), "symbol", strat.Symbol(),
		"steps", len(series), "initial_balance", initialBalanceUSD)
	started := time.Now()

	// Per-run state: nothing leaks across runs.
	ledger := portfolio.NewLedger(initialBalanceUSD)
	jnl, err := r.openJournal()
	if err != nil {
		return sum, err
	}
	defer jnl.Close()
	sum.JournalRef = jnl.Ref()

	data := make([]market.Candle, len(series))
	copy(data, series)
	market.SortByTime(data)

	if useRegime {
		r.annotateRegimes(ctx, strat.Symbol(), data)
	}

	symbol := strat.Symbol()
	var lastPrice float64

	for i := range data {
		step := data[i]
		lastPrice = step.Close
		sum.Steps++

		// History is truncated to the current step: the strategy can
		// never look ahead.
		signal := strat.GenerateSignal(data[:i+1])

		switch signal {
		case strategy.Buy:
			sum.Buys++
			err := ledger.ExecuteTrade(market.Buy, symbol, r.opts.TradeAmount, step.Close, step.Time)
			if err != nil {
				sum.Rejected++
				continue
			}
			r.journalTrade(jnl, step.Time, market.Buy, symbol, r.opts.TradeAmount, step.Close)

		case strategy.Sell:
			held := ledger.Position(symbol).Amount
			if held <= 0 {
				sum.NoOpSells++
				slog.Info("no position to sell", "symbol", symbol, "time", step.Time)
				continue
			}
			sum.Sells++
			err := ledger.ExecuteTrade(market.Sell, symbol, held, step.Close, step.Time)
			if err != nil {
				sum.Rejected++
				continue
			}
			r.journalTrade(jnl, step.Time, market.Sell, symbol, held, step.Close)

		case strategy.Hold:
			// Nothing to do.

		default:
			sum.Invalid++
			slog.Warn("invalid signal from strategy, treating as hold",
				"strategy", strat.Name(), "signal", signal, "time", step.Time)
		}
	}

	sum.Duration = time.Since(started)
	sum.FinalBalanceUSD = ledger.Balance()
	sum.FinalPortfolioValueUSD = ledger.PortfolioValue(map[string]float64{symbol: lastPrice})
	sum.TotalPnLUSD = sum.FinalPortfolioValueUSD - initialBalanceUSD
	sum.Status = StatusCompleted

	slog.Info("backtest completed",
		"run_id", runID, "strategy", strat.Name(),
		"final_value", sum.FinalPortfolioValueUSD, "pnl", sum.TotalPnLUSD,
		"duration", sum.Duration)
	return sum, nil
}

func (r *Runner) openJournal() (journal.Journal, error) {
	if r.opts.JournalPath == "" {
		return newMemJournal(), nil
	}
	j, err := journal.NewCSV(r.opts.JournalPath)
	if err != nil {
		return nil, fmt.Errorf("open backtest journal: %w", err)
	}
	return j, nil
}

func (r *Runner) journalTrade(jnl journal.Journal, ts time.Time, side market.Side, symbol string, amount, price float64) {
	err := jnl.Record(journal.TradeRecord{
		Timestamp: ts,
		Side:      side,
		Symbol:    symbol,
		Amount:    amount,
		Price:     price,
		USDValue:  amount * price,
	})
	if err != nil {
		slog.Error("journal write failed", "symbol", symbol, "err", err)
	}
}

// annotateRegimes left-joins regime labels onto the sorted candles by
// timestamp. Any failure leaves the run unlabeled; it never aborts.
func (r *Runner) annotateRegimes(ctx context.Context, symbol string, data []market.Candle) {
	if r.opts.RegimeProvider == nil {
		slog.Warn("regime requested but no provider configured, proceeding without labels")
		return
	}

	start := data[0].Time
	end := data[len(data)-1].Time
	labels, err := r.opts.RegimeProvider.FetchLabels(ctx, symbol, start, end, r.opts.RegimeInterval)
	if err != nil {
		slog.Warn("regime fetch failed, proceeding without labels", "symbol", symbol, "err", err)
		return
	}

	byTime := make(map[int64]string, len(labels))
	for _, l := range labels {
		byTime[l.Time.Unix()] = l.Regime
	}

	matched := 0
	for i := range data {
		if lbl, ok := byTime[data[i].Time.Unix()]; ok {
			data[i].Regime = lbl
			matched++
		}
	}
	slog.Info("regime labels joined", "symbol", symbol, "matched", matched, "steps", len(data))
}
