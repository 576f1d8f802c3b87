// Package trader composes execution, accounting, and journaling into one
// atomic trade operation. Risk checks live one level up, in the policy
// driving trading decisions, not inside the coordinator.
package trader

import (
	"log/slog"
	"time"

	"github.com/quantfall/tradesim/exchange"
	"github.com/quantfall/tradesim/journal"
	"github.com/quantfall/tradesim/market"
	"github.com/quantfall/tradesim/portfolio"
)

// Coordinator routes orders through an exchange (simulated or live), applies
// successful fills to the ledger, and journals applied trades. Its lifetime
// spans many trades over one ledger.
type Coordinator struct {
	exchange exchange.Exchange
	ledger   *portfolio.Ledger
	journal  journal.Journal
}

func NewCoordinator(ex exchange.Exchange, ledger *portfolio.Ledger, j journal.Journal) *Coordinator {
	return &Coordinator{exchange: ex, ledger: ledger, journal: j}
}

// ExecuteTrade runs order -> exchange -> ledger -> journal.
//
// If the exchange fills but the ledger rejects (insufficient funds or
// position), the outcome is downgraded to Failure so the journal and ledger
// never disagree: nothing is journaled for a trade that was not applied.
func (c *Coordinator) ExecuteTrade(order market.OrderRequest) exchange.Outcome {
	out := c.exchange.Execute(order)
	if out.Status != exchange.Success {
		slog.Warn("order execution failed",
			"symbol", order.Symbol, "side", order.Side.String(), "reason", out.Reason)
		return out
	}

	now := time.Now().UTC()
	err := c.ledger.ExecuteTrade(order.Side, order.Symbol, out.ExecutedAmount, out.ExecutedPrice, now)
	if err != nil {
		slog.Error("ledger rejected trade after successful execution",
			"symbol", order.Symbol, "side", order.Side.String(), "err", err)
		out.Status = exchange.Failure
		out.Reason = err.Error()
		return out
	}

	rec := journal.TradeRecord{
		Timestamp: now,
		Side:      order.Side,
		Symbol:    order.Symbol,
		Amount:    out.ExecutedAmount,
		Price:     out.ExecutedPrice,
		USDValue:  out.ExecutedAmount * out.ExecutedPrice,
	}
	if err := c.journal.Record(rec); err != nil {
		// The ledger already holds the trade; a journal write error is
		// an operational problem, not grounds to unwind the account.
		slog.Error("journal write failed", "symbol", order.Symbol, "err", err)
	}

	return out
}

// PortfolioStatus is a read-only projection of the ledger, with valuation
// and PnL included when current prices are supplied.
type PortfolioStatus struct {
	BalanceUSD float64
	Positions  map[string]portfolio.Position

	// Set only when prices were provided.
	PnL               *portfolio.PnLReport
	PortfolioValueUSD float64
}

// PortfolioStatus projects current account state. Pass nil prices to skip
// valuation.
func (c *Coordinator) PortfolioStatus(currentPrices map[string]float64) PortfolioStatus {
	st := PortfolioStatus{
		BalanceUSD: c.ledger.Balance(),
		Positions:  c.ledger.Positions(),
	}
	if currentPrices != nil {
		pnl := c.ledger.PnL(currentPrices)
		st.PnL = &pnl
		st.PortfolioValueUSD = c.ledger.PortfolioValue(currentPrices)
	}
	return st
}
