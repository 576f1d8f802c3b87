// Package exchange models order execution: a latency/slippage simulator for
// paper trading and a stub connector carrying the same contract for the live
// path.
package exchange

import (
	"time"

	"github.com/quantfall/tradesim/market"
)

// Status of an execution attempt.
type Status int8

const (
	Failure Status = iota
	Success
)

func (s Status) String() string {
	if s == Success {
		return "success"
	}
	return "failure"
}

// Outcome describes how an order executed. It never mutates shared state;
// applying the fill to the account is the coordinator's job.
type Outcome struct {
	Status         Status
	ExecutedPrice  float64
	ExecutedAmount float64

	// Latency is a modeled property of the fill, sampled for
	// observability. It is not a scheduling delay and nothing blocks
	// on it.
	Latency time.Duration

	// Reason explains a Failure. Empty on success.
	Reason string
}

// Exchange executes orders. Implementations must be free of account state;
// failure is reserved for malformed orders, not market conditions.
type Exchange interface {
	Execute(order market.OrderRequest) Outcome
}
