package journal

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/quantfall/tradesim/market"
	"github.com/quantfall/tradesim/pkg/id"
)

// SQLite journals trades into a local database, keyed by a run ID so
// multiple runs can share one file. Trade IDs are ULIDs and therefore
// time-sortable alongside the ts column.
type SQLite struct {
	db    *sql.DB
	path  string
	runID string
}

func NewSQLite(path, runID string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	if runID == "" {
		runID = id.New()
	}
	return &SQLite{db: db, path: path, runID: runID}, nil
}

func (j *SQLite) RunID() string { return j.runID }

func (j *SQLite) Record(t TradeRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO trades (trade_id, run_id, ts, side, symbol, amount, price, usd_value)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id.New(), j.runID, t.Timestamp.UTC(), t.Side.String(),
		t.Symbol, t.Amount, t.Price, t.USDValue,
	)
	return err
}

func (j *SQLite) Ref() string { return j.path }

func (j *SQLite) Close() error { return j.db.Close() }

// ListTrades returns the run's trades in insertion order.
func (j *SQLite) ListTrades() ([]TradeRecord, error) {
	return j.scanTrades(`
		SELECT ts, side, symbol, amount, price, usd_value
		FROM trades
		WHERE run_id = ?
		ORDER BY trade_id ASC`, j.runID)
}

// ListTradesBetween returns the run's trades with ts in [start, end).
func (j *SQLite) ListTradesBetween(start, end time.Time) ([]TradeRecord, error) {
	return j.scanTrades(`
		SELECT ts, side, symbol, amount, price, usd_value
		FROM trades
		WHERE run_id = ? AND ts >= ? AND ts < ?
		ORDER BY ts ASC`, j.runID, start, end)
}

func (j *SQLite) scanTrades(query string, args ...any) ([]TradeRecord, error) {
	rows, err := j.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		var (
			rec  TradeRecord
			side string
		)
		if err := rows.Scan(&rec.Timestamp, &side, &rec.Symbol, &rec.Amount, &rec.Price, &rec.USDValue); err != nil {
			return nil, err
		}
		rec.Side = market.ParseSide(side)
		out = append(out, rec)
	}
	return out, rows.Err()
}
