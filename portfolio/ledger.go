// Package portfolio owns the simulated account: USD cash and long-only
// per-symbol positions with weighted-average cost basis. The Ledger is the
// sole mutator of account state; every rejection leaves it unchanged.
package portfolio

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/quantfall/tradesim/market"
)

var (
	// ErrInsufficientFunds rejects a buy whose notional exceeds cash.
	ErrInsufficientFunds = errors.New("insufficient USD balance")

	// ErrInsufficientPosition rejects a sell larger than the held amount.
	// There is no shorting and no partial fill of a sell.
	ErrInsufficientPosition = errors.New("insufficient position")

	// ErrInvalidOrder rejects non-positive amounts or prices before any
	// balance math happens.
	ErrInvalidOrder = errors.New("invalid order")
)

// Position is a long-only holding and its cost basis. A closed position
// keeps its symbol entry with zero amount and zero avg price so a later buy
// re-establishes a fresh basis.
type Position struct {
	Symbol   string
	Amount   float64
	AvgPrice float64
}

// Ledger tracks cash and positions for one run. It is not safe for
// concurrent use; replay is single-threaded by construction.
type Ledger struct {
	balanceUSD float64
	positions  map[string]Position
}

// NewLedger returns a ledger holding only the initial USD balance.
func NewLedger(initialBalanceUSD float64) *Ledger {
	return &Ledger{
		balanceUSD: initialBalanceUSD,
		positions:  make(map[string]Position),
	}
}

// Balance returns the current USD cash balance.
func (l *Ledger) Balance() float64 { return l.balanceUSD }

// Position returns a copy of the position for symbol. A symbol never traded
// reports a zero position.
func (l *Ledger) Position(symbol string) Position {
	if p, ok := l.positions[symbol]; ok {
		return p
	}
	return Position{Symbol: symbol}
}

// Positions returns a copy of all position entries, including closed ones.
// Callers never receive aliases into ledger-owned state.
func (l *Ledger) Positions() map[string]Position {
	out := make(map[string]Position, len(l.positions))
	for sym, p := range l.positions {
		out[sym] = p
	}
	return out
}

// ExecuteTrade applies a buy or sell to the account.
//
// Buys debit amount*price from cash and fold the fill into the position at
// weighted-average cost. Sells credit amount*price and reduce the position;
// selling the full amount resets the average price to zero. The update is
// all-or-nothing: a returned error means nothing changed.
func (l *Ledger) ExecuteTrade(side market.Side, symbol string, amount, price float64, ts time.Time) error {
	if amount <= 0 || price <= 0 {
		return fmt.Errorf("%w: amount=%v price=%v", ErrInvalidOrder, amount, price)
	}

	usdValue := amount * price

	switch side {
	case market.Buy:
		if usdValue > l.balanceUSD {
			slog.Warn("buy rejected: insufficient balance",
				"symbol", symbol, "required", usdValue, "available", l.balanceUSD)
			return fmt.Errorf("%w: need %.2f, have %.2f", ErrInsufficientFunds, usdValue, l.balanceUSD)
		}
		l.balanceUSD -= usdValue
		l.applyPosition(symbol, amount, price)

	case market.Sell:
		held := l.positions[symbol].Amount
		if amount > held {
			slog.Warn("sell rejected: insufficient position",
				"symbol", symbol, "requested", amount, "held", held)
			return fmt.Errorf("%w: %s requested %v, held %v", ErrInsufficientPosition, symbol, amount, held)
		}
		l.balanceUSD += usdValue
		l.applyPosition(symbol, -amount, price)

	default:
		return fmt.Errorf("%w: side %v", ErrInvalidOrder, side)
	}

	slog.Info("trade applied",
		"side", side.String(), "symbol", symbol, "amount", amount,
		"price", price, "usd_value", usdValue, "balance", l.balanceUSD,
		"time", ts)
	return nil
}

// applyPosition folds a signed amount change into the symbol's position.
// Callers have already validated funds/holdings, so amounts never go
// negative here.
func (l *Ledger) applyPosition(symbol string, amountChange, price float64) {
	p, ok := l.positions[symbol]
	if !ok {
		p = Position{Symbol: symbol}
	}

	prev := p.Amount
	next := prev + amountChange

	switch {
	case next == 0:
		// Closed position: entry stays, basis resets.
		p.AvgPrice = 0
	case prev == 0:
		p.AvgPrice = price
	default:
		p.AvgPrice = (prev*p.AvgPrice + amountChange*price) / next
	}

	p.Amount = next
	l.positions[symbol] = p
}

// PortfolioValue returns cash plus the marked value of every position with a
// known price. A symbol missing from prices contributes nothing and is
// logged as a warning, not an error.
func (l *Ledger) PortfolioValue(currentPrices map[string]float64) float64 {
	total := l.balanceUSD
	for sym, p := range l.positions {
		price, ok := currentPrices[sym]
		if !ok {
			if p.Amount != 0 {
				slog.Warn("no current price for symbol, excluded from portfolio value", "symbol", sym)
			}
			continue
		}
		total += p.Amount * price
	}
	return total
}

// PnLReport holds unrealized profit/loss per symbol and in total.
type PnLReport struct {
	BySymbol map[string]float64
	Total    float64
}

// PnL computes unrealized profit and loss against the held cost basis:
// amount * (current - avg) per symbol. Symbols without a price or with a
// zero amount report zero.
func (l *Ledger) PnL(currentPrices map[string]float64) PnLReport {
	rep := PnLReport{BySymbol: make(map[string]float64, len(l.positions))}
	for sym, p := range l.positions {
		price, ok := currentPrices[sym]
		if !ok || p.Amount == 0 {
			rep.BySymbol[sym] = 0
			continue
		}
		pnl := p.Amount * (price - p.AvgPrice)
		rep.BySymbol[sym] = pnl
		rep.Total += pnl
	}
	return rep
}
