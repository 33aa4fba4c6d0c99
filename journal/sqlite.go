// journal/sqlite.go
package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) RecordDecision(d DecisionRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO decisions
		(decision_id, time, provider, symbol, signal, quantity, price, leverage, confidence, admitted, reason, detail)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.Time, d.Provider, d.Symbol, d.Signal, d.Quantity,
		d.Price, d.Leverage, d.Confidence, d.Admitted, d.Reason, d.Detail,
	)
	return err
}

func (j *SQLiteJournal) RecordEquity(e EquitySnapshot) error {
	_, err := j.db.Exec(`
		INSERT INTO equity
		(time, total_asset, available_cash, total_pnl, open_positions)
		VALUES (?, ?, ?, ?, ?)`,
		e.Time, e.TotalAsset, e.AvailableCash, e.TotalPnL, e.OpenPositions,
	)
	return err
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
