package market

import (
	"sort"
	"time"
)

// Candle represents one OHLCV interval of market activity.
type Candle struct {
	Symbol string
	Time   time.Time

	Open  float64
	High  float64
	Low   float64
	Close float64

	Volume float64

	// Regime is an optional label attached by a regime provider
	// ("bull", "bear", "sideways"). Empty when no provider ran.
	// It is advisory only and never consulted by the ledger.
	Regime string
}

// SortByTime sorts candles in ascending timestamp order, in place.
// Feeds do not guarantee ordering, so replay code sorts once up front.
func SortByTime(cs []Candle) {
	sort.SliceStable(cs, func(i, j int) bool {
		return cs[i].Time.Before(cs[j].Time)
	})
}

// Closes extracts the close-price series from a candle slice.
func Closes(cs []Candle) []float64 {
	out := make([]float64, len(cs))
	for i, c := range cs {
		out[i] = c.Close
	}
	return out
}
