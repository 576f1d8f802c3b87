package exchange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/quantfall/tradesim/market"
)

func order(side market.Side) market.OrderRequest {
	return market.OrderRequest{Side: side, Symbol: "BTC", Amount: 0.01, Price: 30000}
}

func TestSimulatorRejectsMalformedOrders(t *testing.T) {
	t.Parallel()

	s := NewSimulator(SimulatorConfig{Seed: 1})

	tests := []struct {
		name string
		o    market.OrderRequest
	}{
		{"unknown side", market.OrderRequest{Symbol: "BTC", Amount: 1, Price: 1}},
		{"missing symbol", market.OrderRequest{Side: market.Buy, Amount: 1, Price: 1}},
		{"zero amount", market.OrderRequest{Side: market.Buy, Symbol: "BTC", Price: 1}},
		{"negative price", market.OrderRequest{Side: market.Sell, Symbol: "BTC", Amount: 1, Price: -1}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			out := s.Execute(tt.o)
			assert.Equal(t, Failure, out.Status)
			assert.NotEmpty(t, out.Reason)
			assert.Zero(t, out.ExecutedAmount)
		})
	}
}

func TestSimulatorDeterministicWithZeroStd(t *testing.T) {
	t.Parallel()

	s := NewSimulator(SimulatorConfig{
		LatencyMeanMs: 50,
		SlippageMean:  0.001,
		Seed:          7,
	})

	buy := s.Execute(order(market.Buy))
	assert.Equal(t, Success, buy.Status)
	assert.InDelta(t, 30000*1.001, buy.ExecutedPrice, 1e-6)
	assert.InDelta(t, 0.01, buy.ExecutedAmount, 1e-12)
	assert.Equal(t, 50*time.Millisecond, buy.Latency)

	sell := s.Execute(order(market.Sell))
	assert.Equal(t, Success, sell.Status)
	assert.InDelta(t, 30000*0.999, sell.ExecutedPrice, 1e-6)
}

func TestSimulatorLatencyClampedToZero(t *testing.T) {
	t.Parallel()

	s := NewSimulator(SimulatorConfig{LatencyMeanMs: -100, Seed: 7})

	out := s.Execute(order(market.Buy))
	assert.Equal(t, Success, out.Status)
	assert.GreaterOrEqual(t, out.Latency, time.Duration(0))
}

func TestSimulatorAlwaysFullFill(t *testing.T) {
	t.Parallel()

	s := NewSimulator(SimulatorConfig{SlippageMean: 0.002, SlippageStd: 0.01, LatencyMeanMs: 120, LatencyStdMs: 30, Seed: 42})

	for i := 0; i < 100; i++ {
		out := s.Execute(order(market.Buy))
		assert.Equal(t, Success, out.Status)
		assert.InDelta(t, 0.01, out.ExecutedAmount, 1e-12)
		assert.Greater(t, out.ExecutedPrice, 0.0)
		assert.GreaterOrEqual(t, out.Latency, time.Duration(0))
	}
}

func TestConnectorStubFillsAtQuotedPrice(t *testing.T) {
	t.Parallel()

	c := NewConnector("binance")

	out := c.Execute(order(market.Buy))
	assert.Equal(t, Success, out.Status)
	assert.InDelta(t, 30000.0, out.ExecutedPrice, 1e-12)
	assert.InDelta(t, 0.01, out.ExecutedAmount, 1e-12)

	bad := c.Execute(market.OrderRequest{Side: market.Buy, Symbol: "BTC"})
	assert.Equal(t, Failure, bad.Status)
}

func TestFactoryModes(t *testing.T) {
	t.Parallel()

	sim, err := New(ModeSimulation, SimulatorConfig{Seed: 1}, "")
	assert.NoError(t, err)
	assert.IsType(t, &Simulator{}, sim)

	live, err := New(ModeLive, SimulatorConfig{}, "binance")
	assert.NoError(t, err)
	assert.IsType(t, &Connector{}, live)

	_, err = New(Mode("paper"), SimulatorConfig{}, "")
	assert.Error(t, err)
}
