package journal

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

var csvHeader = []string{"timestamp", "type", "symbol", "amount", "price", "usd_value"}

// CSV is a comma-delimited journal file, opened once per run in append mode
// and never truncated. The header is written exactly once: on the first
// record of a fresh (empty) file.
type CSV struct {
	f             *os.File
	w             *csv.Writer
	path          string
	headerWritten bool
}

// NewCSV opens (or creates) the journal file at path, creating parent
// directories as needed. An existing non-empty file is treated as already
// having its header.
func NewCSV(path string) (*CSV, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("journal dir: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat journal: %w", err)
	}

	return &CSV{
		f:             f,
		w:             csv.NewWriter(f),
		path:          path,
		headerWritten: st.Size() > 0,
	}, nil
}

func (j *CSV) Record(t TradeRecord) error {
	if !j.headerWritten {
		if err := j.w.Write(csvHeader); err != nil {
			return err
		}
		j.headerWritten = true
	}

	err := j.w.Write([]string{
		t.Timestamp.UTC().Format(time.RFC3339),
		t.Side.String(),
		t.Symbol,
		f(t.Amount),
		f(t.Price),
		f(t.USDValue),
	})
	if err != nil {
		return err
	}

	j.w.Flush()
	return j.w.Error()
}

func (j *CSV) Ref() string { return j.path }

func (j *CSV) Close() error {
	j.w.Flush()
	if err := j.w.Error(); err != nil {
		j.f.Close()
		return err
	}
	return j.f.Close()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
