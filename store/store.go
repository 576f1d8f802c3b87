// Package store persists historical candles in SQLite so repeated
// backtests and regime lookups do not refetch the same ranges.
package store

import (
	"context"
	"time"

	"github.com/quantfall/tradesim/market"
)

// CandleStore reads and writes historical candles.
type CandleStore interface {
	SaveCandles(ctx context.Context, interval string, candles []market.Candle) error
	LoadCandles(ctx context.Context, symbol, interval string, start, end time.Time) ([]market.Candle, error)
	Close() error
}
