package journal

const schema = `
CREATE TABLE IF NOT EXISTS trades (
	trade_id TEXT PRIMARY KEY,
	run_id TEXT NOT NULL,
	ts DATETIME NOT NULL,
	side TEXT NOT NULL,
	symbol TEXT NOT NULL,
	amount REAL NOT NULL,
	price REAL NOT NULL,
	usd_value REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_run ON trades(run_id);
CREATE INDEX IF NOT EXISTS idx_trades_ts ON trades(ts);
`
