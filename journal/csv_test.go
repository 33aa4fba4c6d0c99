package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestCSV(t *testing.T) (*CSVJournal, string, string) {
	t.Helper()

	dir := t.TempDir()
	decisionsPath := filepath.Join(dir, "decisions.csv")
	equityPath := filepath.Join(dir, "equity.csv")

	j, err := NewCSV(decisionsPath, equityPath)
	assert.NoError(t, err)

	return j, decisionsPath, equityPath
}

func TestCSVJournalHeaders(t *testing.T) {
	t.Parallel()

	j, decisionsPath, equityPath := newTestCSV(t)
	assert.NoError(t, j.Close())

	decisionsData, err := os.ReadFile(decisionsPath)
	assert.NoError(t, err)
	equityData, err := os.ReadFile(equityPath)
	assert.NoError(t, err)

	decisionsHeader, err := csv.NewReader(strings.NewReader(string(decisionsData))).Read()
	assert.NoError(t, err)
	equityHeader, err := csv.NewReader(strings.NewReader(string(equityData))).Read()
	assert.NoError(t, err)

	wantDecisions := []string{"decision_id", "time", "provider", "symbol", "signal", "quantity", "price", "leverage", "confidence", "admitted", "reason", "detail"}
	assert.Equal(t, wantDecisions, decisionsHeader)

	wantEquity := []string{"time", "total_asset", "available_cash", "total_pnl", "open_positions"}
	assert.Equal(t, wantEquity, equityHeader)
}

func TestCSVJournalRecordDecision(t *testing.T) {
	t.Parallel()

	j, decisionsPath, _ := newTestCSV(t)

	rec := DecisionRecord{
		ID:         "01J5TESTULID",
		Time:       time.Date(2026, 8, 31, 3, 4, 5, 0, time.UTC),
		Provider:   "random",
		Symbol:     "BTC",
		Signal:     "buy",
		Quantity:   0.005,
		Price:      109750,
		Leverage:   10,
		Confidence: 0.78,
		Admitted:   true,
		Reason:     "order_filled",
		Detail:     "opened long",
	}
	assert.NoError(t, j.RecordDecision(rec))
	assert.NoError(t, j.Close())

	data, err := os.ReadFile(decisionsPath)
	assert.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	assert.NoError(t, err)
	assert.Len(t, rows, 2)

	row := rows[1]
	assert.Equal(t, "01J5TESTULID", row[0])
	assert.Equal(t, "2026-08-31T03:04:05Z", row[1])
	assert.Equal(t, "BTC", row[3])
	assert.Equal(t, "buy", row[4])
	assert.Equal(t, "true", row[9])
	assert.Equal(t, "order_filled", row[10])
}

func TestCSVJournalRecordEquity(t *testing.T) {
	t.Parallel()

	j, _, equityPath := newTestCSV(t)

	snap := EquitySnapshot{
		Time:          time.Date(2026, 8, 31, 3, 4, 5, 0, time.UTC),
		TotalAsset:    10100.5,
		AvailableCash: 8000,
		TotalPnL:      100.5,
		OpenPositions: 2,
	}
	assert.NoError(t, j.RecordEquity(snap))
	assert.NoError(t, j.Close())

	data, err := os.ReadFile(equityPath)
	assert.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	assert.NoError(t, err)
	assert.Len(t, rows, 2)

	row := rows[1]
	assert.Equal(t, "2026-08-31T03:04:05Z", row[0])
	assert.Equal(t, "10100.500000", row[1])
	assert.Equal(t, "2", row[4])
}
