package portfolio

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantfall/tradesim/market"
)

var ts = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func TestBuyUpdatesBalanceAndPosition(t *testing.T) {
	t.Parallel()

	l := NewLedger(10000)

	require.NoError(t, l.ExecuteTrade(market.Buy, "BTC", 0.01, 30000, ts))

	assert.InDelta(t, 9700.0, l.Balance(), 1e-9)
	pos := l.Position("BTC")
	assert.InDelta(t, 0.01, pos.Amount, 1e-12)
	assert.InDelta(t, 30000.0, pos.AvgPrice, 1e-9)
}

func TestBuyRejectedInsufficientFunds(t *testing.T) {
	t.Parallel()

	l := NewLedger(100)

	err := l.ExecuteTrade(market.Buy, "BTC", 0.01, 30000, ts)

	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.InDelta(t, 100.0, l.Balance(), 1e-12)
	assert.Zero(t, l.Position("BTC").Amount)
}

func TestSellRejectedInsufficientPosition(t *testing.T) {
	t.Parallel()

	l := NewLedger(10000)
	require.NoError(t, l.ExecuteTrade(market.Buy, "BTC", 0.01, 30000, ts))

	err := l.ExecuteTrade(market.Sell, "BTC", 0.02, 31000, ts)

	assert.ErrorIs(t, err, ErrInsufficientPosition)
	assert.InDelta(t, 9700.0, l.Balance(), 1e-9)
	assert.InDelta(t, 0.01, l.Position("BTC").Amount, 1e-12)
	assert.InDelta(t, 30000.0, l.Position("BTC").AvgPrice, 1e-9)
}

func TestSellUnknownSymbolRejected(t *testing.T) {
	t.Parallel()

	l := NewLedger(10000)

	err := l.ExecuteTrade(market.Sell, "ETH", 1, 1800, ts)

	assert.ErrorIs(t, err, ErrInsufficientPosition)
	assert.InDelta(t, 10000.0, l.Balance(), 1e-12)
}

func TestInvalidOrderRejected(t *testing.T) {
	t.Parallel()

	l := NewLedger(10000)

	assert.ErrorIs(t, l.ExecuteTrade(market.Buy, "BTC", 0, 30000, ts), ErrInvalidOrder)
	assert.ErrorIs(t, l.ExecuteTrade(market.Buy, "BTC", 0.01, -1, ts), ErrInvalidOrder)
	assert.ErrorIs(t, l.ExecuteTrade(market.SideUnknown, "BTC", 0.01, 30000, ts), ErrInvalidOrder)
	assert.InDelta(t, 10000.0, l.Balance(), 1e-12)
}

func TestWeightedAverageCost(t *testing.T) {
	t.Parallel()

	l := NewLedger(100000)
	require.NoError(t, l.ExecuteTrade(market.Buy, "BTC", 1, 30000, ts))
	require.NoError(t, l.ExecuteTrade(market.Buy, "BTC", 2, 33000, ts))

	pos := l.Position("BTC")
	assert.InDelta(t, 3.0, pos.Amount, 1e-12)
	// (1*30000 + 2*33000) / 3 = 32000
	assert.InDelta(t, 32000.0, pos.AvgPrice, 1e-9)
}

func TestFullCloseResetsCostBasis(t *testing.T) {
	t.Parallel()

	l := NewLedger(10000)
	require.NoError(t, l.ExecuteTrade(market.Buy, "BTC", 0.01, 30000, ts))
	require.NoError(t, l.ExecuteTrade(market.Sell, "BTC", 0.01, 31000, ts))

	pos := l.Position("BTC")
	assert.Zero(t, pos.Amount)
	assert.Zero(t, pos.AvgPrice)

	// Position entry survives the close; next buy starts a fresh basis.
	_, exists := l.Positions()["BTC"]
	assert.True(t, exists)

	require.NoError(t, l.ExecuteTrade(market.Buy, "BTC", 0.02, 25000, ts))
	pos = l.Position("BTC")
	assert.InDelta(t, 0.02, pos.Amount, 1e-12)
	assert.InDelta(t, 25000.0, pos.AvgPrice, 1e-9)
}

func TestPartialSellReweightsBasis(t *testing.T) {
	t.Parallel()

	l := NewLedger(100000)
	require.NoError(t, l.ExecuteTrade(market.Buy, "BTC", 2, 30000, ts))
	require.NoError(t, l.ExecuteTrade(market.Sell, "BTC", 1, 35000, ts))

	pos := l.Position("BTC")
	assert.InDelta(t, 1.0, pos.Amount, 1e-12)
	// The sell re-weights the basis: (2*30000 - 1*35000) / 1 = 25000.
	assert.InDelta(t, 25000.0, pos.AvgPrice, 1e-9)
	assert.InDelta(t, 100000-60000+35000, l.Balance(), 1e-9)
}

func TestPortfolioValue(t *testing.T) {
	t.Parallel()

	l := NewLedger(10000)
	require.NoError(t, l.ExecuteTrade(market.Buy, "BTC", 0.1, 30000, ts))
	require.NoError(t, l.ExecuteTrade(market.Buy, "ETH", 1, 1800, ts))

	prices := map[string]float64{"BTC": 32000, "ETH": 1900}
	want := l.Balance() + 0.1*32000 + 1*1900
	assert.InDelta(t, want, l.PortfolioValue(prices), 1e-9)

	// Missing price contributes zero.
	onlyBTC := map[string]float64{"BTC": 32000}
	assert.InDelta(t, l.Balance()+0.1*32000, l.PortfolioValue(onlyBTC), 1e-9)
}

func TestPnL(t *testing.T) {
	t.Parallel()

	l := NewLedger(10000)
	require.NoError(t, l.ExecuteTrade(market.Buy, "BTC", 0.1, 30000, ts))
	require.NoError(t, l.ExecuteTrade(market.Buy, "ETH", 1, 1800, ts))

	rep := l.PnL(map[string]float64{"BTC": 32000, "ETH": 1750})

	assert.InDelta(t, 0.1*(32000-30000), rep.BySymbol["BTC"], 1e-9)
	assert.InDelta(t, 1*(1750.0-1800.0), rep.BySymbol["ETH"], 1e-9)
	assert.InDelta(t, rep.BySymbol["BTC"]+rep.BySymbol["ETH"], rep.Total, 1e-9)
}

func TestPnLClosedPositionIsZero(t *testing.T) {
	t.Parallel()

	l := NewLedger(10000)
	require.NoError(t, l.ExecuteTrade(market.Buy, "BTC", 0.01, 30000, ts))
	require.NoError(t, l.ExecuteTrade(market.Sell, "BTC", 0.01, 31000, ts))

	rep := l.PnL(map[string]float64{"BTC": 40000})
	assert.Zero(t, rep.BySymbol["BTC"])
	assert.Zero(t, rep.Total)
}

func TestInvariantsHoldAcrossSequence(t *testing.T) {
	t.Parallel()

	l := NewLedger(1000)
	trades := []struct {
		side          market.Side
		amount, price float64
	}{
		{market.Buy, 0.02, 30000},  // balance 1000 -> 400
		{market.Buy, 0.02, 30000},  // rejected, needs 600
		{market.Sell, 0.03, 29000}, // rejected, only 0.02 held
		{market.Sell, 0.02, 29000}, // balance 400 -> 980
		{market.Sell, 0.01, 29000}, // rejected, nothing held
	}
	for _, tr := range trades {
		_ = l.ExecuteTrade(tr.side, "BTC", tr.amount, tr.price, ts)
		assert.GreaterOrEqual(t, l.Balance(), 0.0)
		for _, p := range l.Positions() {
			assert.GreaterOrEqual(t, p.Amount, 0.0)
		}
	}
}

func TestPositionsReturnsCopy(t *testing.T) {
	t.Parallel()

	l := NewLedger(10000)
	require.NoError(t, l.ExecuteTrade(market.Buy, "BTC", 0.01, 30000, ts))

	snap := l.Positions()
	snap["BTC"] = Position{Symbol: "BTC", Amount: 99}

	assert.InDelta(t, 0.01, l.Position("BTC").Amount, 1e-12)
}
