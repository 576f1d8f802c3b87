package exchange

import (
	"log/slog"

	"github.com/quantfall/tradesim/market"
)

// Connector is the live-execution collaborator. It carries the same contract
// as the Simulator but talks to a real venue.
//
// This implementation is a stub: it validates the order and reports a fill
// at the requested price. Real exchange wiring replaces the body of Execute
// without changing the contract.
type Connector struct {
	venue string
}

// NewConnector returns a connector for the named venue ("binance" etc.).
func NewConnector(venue string) *Connector {
	if venue == "" {
		venue = "binance"
	}
	slog.Info("exchange connector initialized (stub)", "venue", venue)
	return &Connector{venue: venue}
}

func (c *Connector) Execute(order market.OrderRequest) Outcome {
	if !order.Valid() {
		return Outcome{Status: Failure, Reason: "invalid order parameters"}
	}

	slog.Info("connector stub executing order",
		"venue", c.venue, "side", order.Side.String(),
		"symbol", order.Symbol, "amount", order.Amount, "price", order.Price)

	return Outcome{
		Status:         Success,
		ExecutedPrice:  order.Price,
		ExecutedAmount: order.Amount,
	}
}
