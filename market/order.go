package market

import "strings"

// Side is the direction of an order.
type Side int8

const (
	SideUnknown Side = iota
	Buy
	Sell
)

func (s Side) String() string {
	switch s {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	default:
		return "unknown"
	}
}

// ParseSide maps "buy"/"sell" (any case) to a Side. Anything else is
// SideUnknown, which every consumer rejects.
func ParseSide(s string) Side {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buy":
		return Buy
	case "sell":
		return Sell
	default:
		return SideUnknown
	}
}

// OrderRequest is an ephemeral trade request, created per trading decision.
// Amount is in base units of the symbol, Price in USD.
type OrderRequest struct {
	Side   Side
	Symbol string
	Amount float64
	Price  float64
}

// USDValue is the notional value of the order at the requested price.
func (o OrderRequest) USDValue() float64 {
	return o.Amount * o.Price
}

// Valid reports whether the order is structurally complete: a known side,
// a non-empty symbol, and strictly positive amount and price.
func (o OrderRequest) Valid() bool {
	if o.Side != Buy && o.Side != Sell {
		return false
	}
	if o.Symbol == "" {
		return false
	}
	return o.Amount > 0 && o.Price > 0
}
