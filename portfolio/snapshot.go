package portfolio

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

// ErrMalformedSnapshot reports a snapshot whose position records are
// unusable (missing symbol, zero quantity, non-positive entry price).
// Restore validates everything before touching the ledger, so a failed
// restore leaves the ledger unchanged.
var ErrMalformedSnapshot = errors.New("malformed snapshot")

// Snapshot is the persisted form of the ledger.
type Snapshot struct {
	Positions     []Record `json:"positions"`
	Timestamp     string   `json:"timestamp"`
	InitialCash   float64  `json:"initial_cash"`
	AvailableCash float64  `json:"available_cash"`
	TotalAsset    float64  `json:"total_asset"`
}

// Snapshot captures the current ledger state in its persisted form.
func (pf *Portfolio) Snapshot() Snapshot {
	positions := pf.Positions()
	records := make([]Record, 0, len(positions))
	for _, p := range positions {
		records = append(records, p.Record())
	}
	return Snapshot{
		Positions:     records,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		InitialCash:   pf.InitialCash,
		AvailableCash: pf.AvailableCash,
		TotalAsset:    pf.TotalAsset,
	}
}

// Restore replaces the ledger's positions wholesale from snap and
// resynchronizes the cash fields: initial/available cash come from the
// snapshot when present (falling back to current values), after which
// available cash is rebuilt as initial cash minus reserved collateral.
// Collateral is derived, not persisted, and a snapshot's cash fields
// may be stale; the rebuild makes restore tolerant of both.
func (pf *Portfolio) Restore(snap Snapshot) error {
	restored := make(map[string]*Position, len(snap.Positions))
	for _, rec := range snap.Positions {
		p, err := positionFromRecord(rec)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
		}
		restored[p.Symbol] = p
	}

	if snap.InitialCash != 0 {
		pf.InitialCash = snap.InitialCash
	}
	if snap.AvailableCash != 0 {
		pf.AvailableCash = snap.AvailableCash
	} else {
		pf.AvailableCash = pf.InitialCash
	}

	pf.positions = restored
	pf.recalcAvailableCash()
	return nil
}

// SaveFile writes the snapshot to path as indented JSON.
func (pf *Portfolio) SaveFile(path string) error {
	data, err := json.MarshalIndent(pf.Snapshot(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// LoadFile restores the ledger from a snapshot file. A missing file is
// reported as-is (os.IsNotExist) so the caller can decide to start
// fresh.
func (pf *Portfolio) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	return pf.Restore(snap)
}
