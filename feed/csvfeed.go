package feed

import (
	"compress/gzip"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ulikunitz/xz"

	"github.com/quantfall/tradesim/market"
)

// LoadCSV reads candles from a local archive. Files ending in .gz or .xz
// are decompressed transparently. Expected columns:
//
//	timestamp,open,high,low,close,volume
//
// timestamp is RFC3339 or Unix seconds. A header row is detected and
// skipped; malformed rows are skipped with a warning.
func LoadCSV(path, symbol string) ([]market.Candle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open candle file: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	switch {
	case strings.HasSuffix(path, ".gz"):
		gr, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open gzip candle file: %w", err)
		}
		defer gr.Close()
		r = gr
	case strings.HasSuffix(path, ".xz"):
		xr, err := xz.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open xz candle file: %w", err)
		}
		r = xr
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var candles []market.Candle
	skipped := 0
	line := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read candle csv: %w", err)
		}
		line++

		c, ok := parseCSVRow(symbol, rec)
		if !ok {
			// The first unparseable row is usually the header.
			if line > 1 {
				skipped++
			}
			continue
		}
		candles = append(candles, c)
	}
	if skipped > 0 {
		slog.Warn("skipped malformed candle rows", "path", path, "skipped", skipped)
	}

	market.SortByTime(candles)
	return candles, nil
}

func parseCSVRow(symbol string, rec []string) (market.Candle, bool) {
	if len(rec) < 5 {
		return market.Candle{}, false
	}

	ts, ok := parseTimestamp(strings.TrimSpace(rec[0]))
	if !ok {
		return market.Candle{}, false
	}

	vals := make([]float64, 0, 5)
	for _, field := range rec[1:] {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return market.Candle{}, false
		}
		vals = append(vals, v)
	}

	c := market.Candle{
		Symbol: symbol,
		Time:   ts,
		Open:   vals[0],
		High:   vals[1],
		Low:    vals[2],
		Close:  vals[3],
	}
	if len(vals) > 4 {
		c.Volume = vals[4]
	}
	if c.Close <= 0 {
		return market.Candle{}, false
	}
	return c, true
}

func parseTimestamp(s string) (time.Time, bool) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts.UTC(), true
	}
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil && secs > 0 {
		return time.Unix(secs, 0).UTC(), true
	}
	return time.Time{}, false
}
