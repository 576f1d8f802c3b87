// Package strategy defines the signal-generation contract and a registry of
// concrete strategies keyed by market regime and name.
package strategy

import (
	"strings"

	"github.com/quantfall/tradesim/market"
)

// Signal is a trading decision for one time step.
type Signal int8

const (
	Hold Signal = iota
	Buy
	Sell
	// Invalid marks anything a strategy emitted outside the contract.
	// Runners treat it as Hold but log it distinctly.
	Invalid
)

func (s Signal) String() string {
	switch s {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	case Hold:
		return "hold"
	default:
		return "invalid"
	}
}

// ParseSignal maps the textual form back to a Signal; unrecognized values
// are Invalid, never an error.
func ParseSignal(s string) Signal {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buy":
		return Buy
	case "sell":
		return Sell
	case "hold":
		return Hold
	default:
		return Invalid
	}
}

// Strategy is the capability set a runner needs: a signal per step plus
// identity. GenerateSignal only ever sees history up to and including the
// current step; the runner enforces that truncation.
type Strategy interface {
	GenerateSignal(history []market.Candle) Signal
	Symbol() string
	Name() string
}

// Params are free-form numeric strategy parameters. Strategies fall back to
// their own defaults for missing keys.
type Params map[string]float64

func (p Params) get(key string, def float64) float64 {
	if v, ok := p[key]; ok {
		return v
	}
	return def
}
