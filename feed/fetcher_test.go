package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantfall/tradesim/store"
)

const klinesBody = `[
  [1704153600000, "30100.0", "30300.0", "30000.0", "30200.0", "1200.0", 1704239999999],
  [1704067200000, "30000.0", "30200.0", "29900.0", "30100.0", "1000.0", 1704153599999],
  ["bad-open-time", "1", "2", "3", "4", "5", 0],
  [1704240000000, "30200.0", "30400.0", "not-a-number", "30300.0", "1100.0", 1704326399999]
]`

func klineServer(t *testing.T) (*httptest.Server, *http.Request) {
	t.Helper()
	var captured http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = *r
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(klinesBody))
	}))
	t.Cleanup(srv.Close)
	return srv, &captured
}

func TestFetchHistorical(t *testing.T) {
	t.Parallel()

	srv, captured := klineServer(t)
	f := NewFetcher(WithBaseURL(srv.URL))

	cs, err := f.FetchHistorical(context.Background(), "BTC", "1d", 500)
	require.NoError(t, err)

	// Two malformed rows skipped, rest sorted oldest first.
	require.Len(t, cs, 2)
	assert.Equal(t, "BTC", cs[0].Symbol)
	assert.True(t, cs[0].Time.Before(cs[1].Time))
	assert.InDelta(t, 30100.0, cs[0].Close, 1e-9)
	assert.Equal(t, time.UnixMilli(1704067200000).UTC(), cs[0].Time)

	q := captured.URL.Query()
	assert.Equal(t, "BTCUSDT", q.Get("symbol"))
	assert.Equal(t, "1d", q.Get("interval"))
	assert.Equal(t, "500", q.Get("limit"))
}

func TestFetchHistoricalWriteThrough(t *testing.T) {
	t.Parallel()

	srv, _ := klineServer(t)
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "candles.db"))
	require.NoError(t, err)
	defer st.Close()

	f := NewFetcher(WithBaseURL(srv.URL), WithStore(st))

	ctx := context.Background()
	cs, err := f.FetchHistorical(ctx, "BTC", "1d", 10)
	require.NoError(t, err)
	require.Len(t, cs, 2)

	stored, err := st.LoadCandles(ctx, "BTC", "1d", cs[0].Time, cs[1].Time)
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestFetchHistoricalHTTPError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code":-1121,"msg":"Invalid symbol."}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	f := NewFetcher(WithBaseURL(srv.URL))
	_, err := f.FetchHistorical(context.Background(), "NOPE", "1d", 10)
	assert.ErrorContains(t, err, "status 400")
}

func TestFetchHistoricalBadBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	f := NewFetcher(WithBaseURL(srv.URL))
	_, err := f.FetchHistorical(context.Background(), "BTC", "1d", 10)
	assert.Error(t, err)
}
