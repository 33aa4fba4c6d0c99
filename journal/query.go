// journal/query.go
package journal

import (
	"database/sql"
	"fmt"
	"time"
)

// GetDecision returns a single decision record by ID.
func (j *SQLiteJournal) GetDecision(decisionID string) (DecisionRecord, error) {
	var rec DecisionRecord

	row := j.db.QueryRow(`
		SELECT decision_id, time, provider, symbol, signal, quantity, price, leverage, confidence, admitted, reason, detail
		FROM decisions
		WHERE decision_id = ?`, decisionID)

	err := row.Scan(
		&rec.ID,
		&rec.Time,
		&rec.Provider,
		&rec.Symbol,
		&rec.Signal,
		&rec.Quantity,
		&rec.Price,
		&rec.Leverage,
		&rec.Confidence,
		&rec.Admitted,
		&rec.Reason,
		&rec.Detail,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return DecisionRecord{}, fmt.Errorf("decision %q not found", decisionID)
		}
		return DecisionRecord{}, err
	}
	return rec, nil
}

// ListDecisionsBetween returns decisions recorded within [start, end).
func (j *SQLiteJournal) ListDecisionsBetween(start, end time.Time) ([]DecisionRecord, error) {
	rows, err := j.db.Query(`
		SELECT decision_id, time, provider, symbol, signal, quantity, price, leverage, confidence, admitted, reason, detail
		FROM decisions
		WHERE time >= ? AND time < ?
		ORDER BY time ASC`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DecisionRecord
	for rows.Next() {
		var rec DecisionRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.Time,
			&rec.Provider,
			&rec.Symbol,
			&rec.Signal,
			&rec.Quantity,
			&rec.Price,
			&rec.Leverage,
			&rec.Confidence,
			&rec.Admitted,
			&rec.Reason,
			&rec.Detail,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListEquityBetween returns equity snapshots within [start, end).
func (j *SQLiteJournal) ListEquityBetween(start, end time.Time) ([]EquitySnapshot, error) {
	rows, err := j.db.Query(`
		SELECT time, total_asset, available_cash, total_pnl, open_positions
		FROM equity
		WHERE time >= ? AND time < ?
		ORDER BY time ASC`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EquitySnapshot
	for rows.Next() {
		var rec EquitySnapshot
		if err := rows.Scan(
			&rec.Time,
			&rec.TotalAsset,
			&rec.AvailableCash,
			&rec.TotalPnL,
			&rec.OpenPositions,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
