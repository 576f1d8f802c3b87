// Package journal is the append-only record of executed trades. A record is
// written once per successful trade and never rewritten.
package journal

import (
	"time"

	"github.com/quantfall/tradesim/market"
)

// TradeRecord is one executed trade. Immutable once appended.
type TradeRecord struct {
	Timestamp time.Time
	Side      market.Side
	Symbol    string
	Amount    float64
	Price     float64
	USDValue  float64
}

// Journal appends trade records in insertion order.
type Journal interface {
	Record(TradeRecord) error

	// Ref identifies where the journal lives (file path or DSN), for
	// inclusion in run summaries.
	Ref() string

	Close() error
}
