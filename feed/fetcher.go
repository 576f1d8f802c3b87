// Package feed sources historical and live market data: REST kline
// fetches, local CSV archives, and a websocket ticker stream.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/quantfall/tradesim/market"
	"github.com/quantfall/tradesim/store"
)

const defaultRestURL = "https://api.binance.com"

// Fetcher pulls historical klines over REST. With a store attached, every
// successful fetch is written through so later runs can replay offline.
type Fetcher struct {
	baseURL string
	client  *http.Client
	store   store.CandleStore
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithBaseURL points the fetcher at a different REST endpoint.
func WithBaseURL(u string) FetcherOption {
	return func(f *Fetcher) { f.baseURL = u }
}

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) FetcherOption {
	return func(f *Fetcher) { f.client = c }
}

// WithStore enables write-through caching of fetched candles.
func WithStore(s store.CandleStore) FetcherOption {
	return func(f *Fetcher) { f.store = s }
}

func NewFetcher(opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		baseURL: defaultRestURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchHistorical returns up to limit candles for the symbol, oldest
// first. Malformed rows are skipped, not fatal. The symbol is the base
// asset ("BTC"); the exchange pair is formed against USDT.
func (f *Fetcher) FetchHistorical(ctx context.Context, symbol, interval string, limit int) ([]market.Candle, error) {
	if limit <= 0 {
		limit = 500
	}

	q := url.Values{}
	q.Set("symbol", pairFor(symbol))
	q.Set("interval", interval)
	q.Set("limit", strconv.Itoa(limit))

	reqURL := f.baseURL + "/api/v3/klines?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build klines request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch klines: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetch klines: status %d: %s", resp.StatusCode, body)
	}

	// Binance kline rows are positional arrays of mixed types:
	// [openTime, open, high, low, close, volume, closeTime, ...]
	var rows [][]any
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode klines: %w", err)
	}

	candles := make([]market.Candle, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		c, ok := parseKline(symbol, row)
		if !ok {
			skipped++
			continue
		}
		candles = append(candles, c)
	}
	if skipped > 0 {
		slog.Warn("skipped malformed kline rows", "symbol", symbol, "skipped", skipped)
	}
	market.SortByTime(candles)

	if f.store != nil {
		if err := f.store.SaveCandles(ctx, interval, candles); err != nil {
			slog.Warn("candle store write-through failed", "symbol", symbol, "err", err)
		}
	}

	slog.Info("fetched historical candles",
		"symbol", symbol, "interval", interval, "count", len(candles))
	return candles, nil
}

func pairFor(symbol string) string {
	return symbol + "USDT"
}

func parseKline(symbol string, row []any) (market.Candle, bool) {
	if len(row) < 6 {
		return market.Candle{}, false
	}

	openMs, ok := row[0].(float64)
	if !ok {
		return market.Candle{}, false
	}

	vals := make([]float64, 5)
	for i := 1; i <= 5; i++ {
		s, ok := row[i].(string)
		if !ok {
			return market.Candle{}, false
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return market.Candle{}, false
		}
		vals[i-1] = v
	}

	c := market.Candle{
		Symbol: symbol,
		Time:   time.UnixMilli(int64(openMs)).UTC(),
		Open:   vals[0],
		High:   vals[1],
		Low:    vals[2],
		Close:  vals[3],
		Volume: vals[4],
	}
	if c.Close <= 0 {
		return market.Candle{}, false
	}
	return c, true
}
