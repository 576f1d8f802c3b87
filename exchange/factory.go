package exchange

import "fmt"

// Mode selects the execution backend.
type Mode string

const (
	ModeSimulation Mode = "simulation"
	ModeLive       Mode = "live"
)

// New returns the Exchange for the given mode. Unknown modes are a
// configuration error, reported as such rather than defaulting anywhere.
func New(mode Mode, simCfg SimulatorConfig, venue string) (Exchange, error) {
	switch mode {
	case ModeSimulation:
		return NewSimulator(simCfg), nil
	case ModeLive:
		return NewConnector(venue), nil
	default:
		return nil, fmt.Errorf("invalid execution mode %q (want %q or %q)", mode, ModeSimulation, ModeLive)
	}
}
