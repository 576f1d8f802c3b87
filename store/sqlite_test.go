package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantfall/tradesim/market"
)

func testCandles(n int) []market.Candle {
	t0 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	out := make([]market.Candle, n)
	for i := range out {
		c := 30000.0 + float64(i)*100
		out[i] = market.Candle{
			Symbol: "BTC",
			Time:   t0.AddDate(0, 0, i),
			Open:   c, High: c + 50, Low: c - 50, Close: c + 10,
			Volume: 1000,
		}
	}
	return out
}

func TestSaveAndLoadCandles(t *testing.T) {
	t.Parallel()

	s, err := NewSQLite(filepath.Join(t.TempDir(), "candles.db"))
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	cs := testCandles(5)
	require.NoError(t, s.SaveCandles(ctx, "1d", cs))

	got, err := s.LoadCandles(ctx, "BTC", "1d", cs[0].Time, cs[4].Time)
	require.NoError(t, err)
	require.Len(t, got, 5)
	assert.Equal(t, cs[0].Time, got[0].Time)
	assert.InDelta(t, cs[2].Close, got[2].Close, 1e-9)
}

func TestLoadCandlesRangeAndInterval(t *testing.T) {
	t.Parallel()

	s, err := NewSQLite(filepath.Join(t.TempDir(), "candles.db"))
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	cs := testCandles(5)
	require.NoError(t, s.SaveCandles(ctx, "1d", cs))
	require.NoError(t, s.SaveCandles(ctx, "1h", cs[:2]))

	// Inner range excludes the endpoints outside it.
	got, err := s.LoadCandles(ctx, "BTC", "1d", cs[1].Time, cs[3].Time)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	// Interval rows do not bleed into each other.
	got, err = s.LoadCandles(ctx, "BTC", "1h", cs[0].Time, cs[4].Time)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	// Unknown symbol is empty, not an error.
	got, err = s.LoadCandles(ctx, "ETH", "1d", cs[0].Time, cs[4].Time)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSaveCandlesUpserts(t *testing.T) {
	t.Parallel()

	s, err := NewSQLite(filepath.Join(t.TempDir(), "candles.db"))
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	cs := testCandles(2)
	require.NoError(t, s.SaveCandles(ctx, "1d", cs))

	cs[0].Close = 99999
	require.NoError(t, s.SaveCandles(ctx, "1d", cs))

	got, err := s.LoadCandles(ctx, "BTC", "1d", cs[0].Time, cs[1].Time)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.InDelta(t, 99999.0, got[0].Close, 1e-9)
}

func TestSaveCandlesEmptyBatch(t *testing.T) {
	t.Parallel()

	s, err := NewSQLite(filepath.Join(t.TempDir(), "candles.db"))
	require.NoError(t, err)
	defer s.Close()

	assert.NoError(t, s.SaveCandles(context.Background(), "1d", nil))
}
