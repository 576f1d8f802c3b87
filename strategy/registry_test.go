package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKnownStrategies(t *testing.T) {
	t.Parallel()

	tests := []struct {
		regime, name string
	}{
		{"bull", "ema-crossover"},
		{"bear", "rsi-reversal"},
		{"sideways", "range-bound"},
	}

	for _, tt := range tests {
		s, err := New(tt.regime, tt.name, "BTCUSDT", nil)
		require.NoError(t, err, "%s/%s", tt.regime, tt.name)
		assert.Equal(t, "BTCUSDT", s.Symbol())
		assert.NotEmpty(t, s.Name())
	}
}

func TestNewUnknownStrategy(t *testing.T) {
	t.Parallel()

	_, err := New("bull", "does-not-exist", "BTCUSDT", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown strategy")
	assert.Contains(t, err.Error(), "bull/ema-crossover")
}

func TestAvailableSorted(t *testing.T) {
	t.Parallel()

	avail := Available()
	assert.Contains(t, avail, "bear/rsi-reversal")
	assert.Contains(t, avail, "bull/ema-crossover")
	assert.Contains(t, avail, "sideways/range-bound")
	assert.IsIncreasing(t, avail)
}

func TestParseSignal(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Buy, ParseSignal("buy"))
	assert.Equal(t, Sell, ParseSignal(" SELL "))
	assert.Equal(t, Hold, ParseSignal("hold"))
	assert.Equal(t, Invalid, ParseSignal("short"))
	assert.Equal(t, Invalid, ParseSignal(""))
}
