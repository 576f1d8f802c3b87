package strategy

import (
	"fmt"
	"sort"
	"sync"
)

// Factory constructs a strategy for a symbol with optional parameters.
type Factory func(symbol string, params Params) Strategy

type registryKey struct {
	regime string
	name   string
}

var (
	mu       sync.RWMutex
	registry = make(map[registryKey]Factory)
)

// Register adds a factory under (regime, name). Registration happens at
// startup from package init; a duplicate or nil registration is a
// programming error and panics there rather than surfacing mid-run.
func Register(regime, name string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if f == nil {
		panic(fmt.Sprintf("strategy: nil factory for %s/%s", regime, name))
	}
	key := registryKey{regime: regime, name: name}
	if _, dup := registry[key]; dup {
		panic(fmt.Sprintf("strategy: duplicate registration %s/%s", regime, name))
	}
	registry[key] = f
}

// New looks up (regime, name) and constructs the strategy. Unknown keys
// return a typed error listing what is available.
func New(regime, name, symbol string, params Params) (Strategy, error) {
	mu.RLock()
	f, ok := registry[registryKey{regime: regime, name: name}]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown strategy %s/%s (available: %v)", regime, name, Available())
	}
	return f(symbol, params), nil
}

// Available lists registered regime/name pairs, sorted for stable output.
func Available() []string {
	mu.RLock()
	defer mu.RUnlock()

	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k.regime+"/"+k.name)
	}
	sort.Strings(out)
	return out
}
