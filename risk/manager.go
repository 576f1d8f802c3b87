// Package risk holds the pre-trade gate: drawdown from peak equity, position
// size versus portfolio value, and risk per trade. The gate is consulted by
// the policy driving live trading decisions; backtests bypass it.
package risk

import (
	"log/slog"

	"github.com/quantfall/tradesim/market"
)

// Limits configures the gate. All values are fractions.
type Limits struct {
	MaxDrawdown     float64
	MaxPositionSize float64
	RiskPerTrade    float64
}

// DefaultLimits mirrors the conservative defaults used in simulation runs.
func DefaultLimits() Limits {
	return Limits{
		MaxDrawdown:     0.1,
		MaxPositionSize: 0.5,
		RiskPerTrade:    0.02,
	}
}

// Manager tracks peak equity across trades for the lifetime of one
// coordinator. Reset before any fresh ledger-backed run so drawdown never
// carries over from an unrelated account history.
type Manager struct {
	limits     Limits
	peakEquity float64
}

func NewManager(limits Limits) *Manager {
	return &Manager{limits: limits}
}

// Reset clears peak-equity tracking.
func (m *Manager) Reset() { m.peakEquity = 0 }

// PeakEquity reports the highest portfolio value seen since the last reset.
func (m *Manager) PeakEquity() float64 { return m.peakEquity }

// CheckMaxDrawdown updates the running peak and reports whether the decline
// from it exceeds the limit. Drawdown is zero until a peak exists.
func (m *Manager) CheckMaxDrawdown(portfolioValue float64) bool {
	if portfolioValue > m.peakEquity {
		m.peakEquity = portfolioValue
	}

	var drawdown float64
	if m.peakEquity > 0 {
		drawdown = (m.peakEquity - portfolioValue) / m.peakEquity
	}

	if drawdown > m.limits.MaxDrawdown {
		slog.Warn("max drawdown exceeded, trading should stop",
			"drawdown", drawdown, "limit", m.limits.MaxDrawdown)
		return true
	}
	return false
}

// CheckMaxPositionSize reports whether a trade of the given notional stays
// within the position-size fraction of portfolio value. A zero portfolio
// value fails the check rather than dividing by it.
func (m *Manager) CheckMaxPositionSize(tradeUSDValue, portfolioValue float64) bool {
	if portfolioValue == 0 {
		slog.Warn("portfolio value is zero, position size check not valid")
		return false
	}
	size := tradeUSDValue / portfolioValue
	if size > m.limits.MaxPositionSize {
		slog.Warn("max position size exceeded",
			"size", size, "limit", m.limits.MaxPositionSize)
		return false
	}
	return true
}

// CheckRiskPerTrade reports whether the USD amount at risk stays within the
// per-trade fraction. Callers currently have no stop-loss model producing a
// real at-risk figure; the check is kept for the day one exists.
func (m *Manager) CheckRiskPerTrade(usdAtRisk, portfolioValue float64) bool {
	if portfolioValue == 0 {
		slog.Warn("portfolio value is zero, risk per trade check not valid")
		return false
	}
	frac := usdAtRisk / portfolioValue
	if frac > m.limits.RiskPerTrade {
		slog.Warn("risk per trade exceeded", "risk", frac, "limit", m.limits.RiskPerTrade)
		return false
	}
	return true
}

// CheckTradeLimits composes the position-size and drawdown checks for one
// order. Structurally incomplete orders fail closed.
func (m *Manager) CheckTradeLimits(order market.OrderRequest, portfolioValue float64) bool {
	if !order.Valid() {
		slog.Error("invalid order parameters for risk check",
			"side", order.Side.String(), "symbol", order.Symbol,
			"amount", order.Amount, "price", order.Price)
		return false
	}

	if !m.CheckMaxPositionSize(order.USDValue(), portfolioValue) {
		return false
	}
	return !m.CheckMaxDrawdown(portfolioValue)
}
