// Package regime classifies market conditions into coarse labels ("bull",
// "bear", "sideways") and serves them as a labeled time series. Labels are
// advisory context for strategies and never authoritative to the ledger.
package regime

import (
	"context"
	"time"
)

const (
	Bull     = "bull"
	Bear     = "bear"
	Sideways = "sideways"
	Unknown  = "unknown"
)

// Label ties a regime classification to a time step.
type Label struct {
	Time   time.Time
	Regime string
}

// Provider yields regime labels for a symbol over a date span.
type Provider interface {
	FetchLabels(ctx context.Context, symbol string, start, end time.Time, interval string) ([]Label, error)
}
