package exchange

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/quantfall/tradesim/market"
)

// SimulatorConfig holds the execution-quality distribution parameters.
// Latency is in milliseconds, slippage is a fraction of the quoted price.
type SimulatorConfig struct {
	LatencyMeanMs float64
	LatencyStdMs  float64
	SlippageMean  float64
	SlippageStd   float64

	// Seed fixes the random source for reproducible runs; 0 seeds from
	// the clock.
	Seed int64
}

// Simulator models fills with normally distributed latency and slippage.
// It is stateless per call apart from its random source.
type Simulator struct {
	cfg SimulatorConfig
	rng *rand.Rand
}

func NewSimulator(cfg SimulatorConfig) *Simulator {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Simulator{cfg: cfg, rng: rand.New(rand.NewSource(seed))}
}

// Execute validates the order and, if well-formed, always fills it in full.
// Buys fill at price*(1+slippage), sells at price*(1-slippage), so a
// positive slippage draw is adverse in both directions.
func (s *Simulator) Execute(order market.OrderRequest) Outcome {
	if order.Side != market.Buy && order.Side != market.Sell {
		return fail("invalid order side")
	}
	if order.Symbol == "" {
		return fail("missing symbol")
	}
	if order.Amount <= 0 {
		return fail("amount must be positive")
	}
	if order.Price <= 0 {
		return fail("price must be positive")
	}

	latencyMs := s.rng.NormFloat64()*s.cfg.LatencyStdMs + s.cfg.LatencyMeanMs
	if latencyMs < 0 {
		latencyMs = 0
	}

	slip := s.rng.NormFloat64()*s.cfg.SlippageStd + s.cfg.SlippageMean

	executed := order.Price
	if order.Side == market.Buy {
		executed *= 1 + slip
	} else {
		executed *= 1 - slip
	}

	out := Outcome{
		Status:         Success,
		ExecutedPrice:  executed,
		ExecutedAmount: order.Amount,
		Latency:        time.Duration(latencyMs * float64(time.Millisecond)),
	}

	slog.Info("simulated fill",
		"side", order.Side.String(), "symbol", order.Symbol,
		"amount", out.ExecutedAmount, "quoted", order.Price,
		"executed", out.ExecutedPrice, "latency", out.Latency)
	return out
}

func fail(reason string) Outcome {
	slog.Error("order rejected by simulator", "reason", reason)
	return Outcome{Status: Failure, Reason: reason}
}
