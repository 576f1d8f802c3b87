package strategy

import (
	"github.com/quantfall/tradesim/market"
)

func init() {
	Register("bear", "rsi-reversal", func(symbol string, params Params) Strategy {
		return NewRSIReversal(symbol, params)
	})
}

// RSIReversal is a bear-market strategy: it sells into overbought rallies
// while the medium-term SMA is trending down, and otherwise holds.
type RSIReversal struct {
	symbol     string
	smaWindow  int
	rsiWindow  int
	overbought float64
}

func NewRSIReversal(symbol string, params Params) *RSIReversal {
	return &RSIReversal{
		symbol:     symbol,
		smaWindow:  int(params.get("sma_window", 50)),
		rsiWindow:  int(params.get("rsi_window", 14)),
		overbought: params.get("overbought", 70),
	}
}

func (s *RSIReversal) Name() string   { return "RSI Reversal" }
func (s *RSIReversal) Symbol() string { return s.symbol }

func (s *RSIReversal) GenerateSignal(history []market.Candle) Signal {
	if len(history) < s.smaWindow+1 {
		return Hold
	}

	closes := market.Closes(history)
	smaNow := SMA(closes, s.smaWindow)
	smaPrev := SMA(closes[:len(closes)-1], s.smaWindow)

	if smaNow < smaPrev && RSI(closes, s.rsiWindow) > s.overbought {
		return Sell
	}
	return Hold
}
