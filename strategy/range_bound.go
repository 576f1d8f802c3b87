package strategy

import (
	"github.com/quantfall/tradesim/market"
)

func init() {
	Register("sideways", "range-bound", func(symbol string, params Params) Strategy {
		return NewRangeBound(symbol, params)
	})
}

// RangeBound trades a sideways market: buy near the rolling support level,
// sell near rolling resistance, hold in between.
type RangeBound struct {
	symbol    string
	window    int
	threshold float64
}

func NewRangeBound(symbol string, params Params) *RangeBound {
	return &RangeBound{
		symbol:    symbol,
		window:    int(params.get("window", 14)),
		threshold: params.get("range_threshold", 0.02),
	}
}

func (s *RangeBound) Name() string   { return "Range Bound" }
func (s *RangeBound) Symbol() string { return s.symbol }

func (s *RangeBound) GenerateSignal(history []market.Candle) Signal {
	if len(history) < s.window {
		return Hold
	}

	lows := make([]float64, len(history))
	highs := make([]float64, len(history))
	for i, c := range history {
		lows[i] = c.Low
		highs[i] = c.High
	}

	support := rollingLow(lows, s.window)
	resistance := rollingHigh(highs, s.window)
	price := history[len(history)-1].Close

	switch {
	case price <= support*(1+s.threshold):
		return Buy
	case price >= resistance*(1-s.threshold):
		return Sell
	default:
		return Hold
	}
}
