// journal/schema.go
package journal

const Schema = `
CREATE TABLE IF NOT EXISTS decisions (
	decision_id TEXT PRIMARY KEY,
	time DATETIME NOT NULL,
	provider TEXT NOT NULL,
	symbol TEXT NOT NULL,
	signal TEXT NOT NULL,
	quantity REAL NOT NULL,
	price REAL NOT NULL,
	leverage REAL NOT NULL,
	confidence REAL NOT NULL,
	admitted INTEGER NOT NULL,
	reason TEXT NOT NULL,
	detail TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS equity (
	time DATETIME NOT NULL,
	total_asset REAL NOT NULL,
	available_cash REAL NOT NULL,
	total_pnl REAL NOT NULL,
	open_positions INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_decisions_time ON decisions(time);
CREATE INDEX IF NOT EXISTS idx_equity_time ON equity(time);
`
