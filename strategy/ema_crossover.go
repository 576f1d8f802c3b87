package strategy

import (
	"github.com/quantfall/tradesim/market"
)

func init() {
	Register("bull", "ema-crossover", func(symbol string, params Params) Strategy {
		return NewEMACrossover(symbol, params)
	})
}

// EMACrossover signals on crossings of a short EMA over a long EMA:
// buy when the short crosses above, sell when it crosses below.
type EMACrossover struct {
	symbol    string
	shortSpan int
	longSpan  int
}

func NewEMACrossover(symbol string, params Params) *EMACrossover {
	return &EMACrossover{
		symbol:    symbol,
		shortSpan: int(params.get("short_ema_period", 20)),
		longSpan:  int(params.get("long_ema_period", 50)),
	}
}

func (s *EMACrossover) Name() string   { return "EMA Crossover" }
func (s *EMACrossover) Symbol() string { return s.symbol }

func (s *EMACrossover) GenerateSignal(history []market.Candle) Signal {
	if len(history) == 0 {
		return Hold
	}

	closes := market.Closes(history)
	short := EMASeries(closes, s.shortSpan)
	long := EMASeries(closes, s.longSpan)

	last := len(closes) - 1
	prev := last
	if last > 0 {
		prev = last - 1
	}

	switch {
	case short[prev] <= long[prev] && short[last] > long[last]:
		return Buy
	case short[prev] >= long[prev] && short[last] < long[last]:
		return Sell
	default:
		return Hold
	}
}
