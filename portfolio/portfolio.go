package portfolio

import (
	"sort"
	"time"
)

// Portfolio is the cash/collateral ledger: at most one Position per
// symbol plus the cash accounting around them. It is the low-level
// primitive under the execution engine; Upsert/Remove apply no
// admission policy of their own.
//
// Single-writer model: a Portfolio has no internal locking. One control
// loop owns it for its lifetime; embedding it in a concurrent service
// requires a single mutex around every call that reaches it.
type Portfolio struct {
	positions map[string]*Position

	InitialCash   float64
	AvailableCash float64
	TotalAsset    float64
}

// New creates a ledger holding initialCash and no positions.
func New(initialCash float64) *Portfolio {
	return &Portfolio{
		positions:     make(map[string]*Position),
		InitialCash:   initialCash,
		AvailableCash: initialCash,
		TotalAsset:    initialCash,
	}
}

// Position returns the open position for symbol, or nil.
func (pf *Portfolio) Position(symbol string) *Position {
	return pf.positions[symbol]
}

// Positions returns all open positions ordered by symbol.
func (pf *Portfolio) Positions() []*Position {
	out := make([]*Position, 0, len(pf.positions))
	for _, p := range pf.positions {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

// Upsert adds or replaces the position for its symbol. Any replaced
// position's collateral is returned to available cash before the new
// position's collateral is reserved.
func (pf *Portfolio) Upsert(p *Position) {
	var oldCollateral float64
	if old, ok := pf.positions[p.Symbol]; ok {
		oldCollateral = old.Collateral()
	}

	pf.AvailableCash = pf.AvailableCash + oldCollateral - p.Collateral()
	pf.positions[p.Symbol] = p
	pf.recalcTotalAsset()
}

// Remove closes the position for symbol, crediting its collateral plus
// unrealized PnL back to available cash. No-op if absent.
func (pf *Portfolio) Remove(symbol string) {
	if p, ok := pf.positions[symbol]; ok {
		pf.AvailableCash += p.Collateral() + p.UnrealizedPnL()
		delete(pf.positions, symbol)
	}
	pf.recalcTotalAsset()
}

// UpdatePrice sets the current mark for symbol's position. No-op if
// there is no position in that symbol.
func (pf *Portfolio) UpdatePrice(symbol string, price float64) {
	if p, ok := pf.positions[symbol]; ok {
		p.CurrentPrice = price
		pf.recalcTotalAsset()
	}
}

// UpdatePrices applies a batch of price marks, then recomputes totals
// once.
func (pf *Portfolio) UpdatePrices(prices map[string]float64) {
	for symbol, price := range prices {
		if p, ok := pf.positions[symbol]; ok {
			p.CurrentPrice = price
		}
	}
	pf.recalcTotalAsset()
}

// TotalPnL sums unrealized PnL over all open positions.
func (pf *Portfolio) TotalPnL() float64 {
	var total float64
	for _, p := range pf.positions {
		total += p.UnrealizedPnL()
	}
	return total
}

// recalcTotalAsset maintains the ledger invariant:
// total = available cash + sum over positions of collateral + PnL.
func (pf *Portfolio) recalcTotalAsset() {
	var positionValue float64
	for _, p := range pf.positions {
		positionValue += p.Collateral() + p.UnrealizedPnL()
	}
	pf.TotalAsset = pf.AvailableCash + positionValue
}

// recalcAvailableCash rebuilds available cash from scratch as
// initial cash minus reserved collateral. Used after a restore, where
// collateral is derived rather than persisted and the snapshot's cash
// fields may be stale.
func (pf *Portfolio) recalcAvailableCash() {
	var totalCollateral float64
	for _, p := range pf.positions {
		totalCollateral += p.Collateral()
	}
	pf.AvailableCash = pf.InitialCash - totalCollateral
	pf.recalcTotalAsset()
}

// PortfolioReport is the presentation form of the whole ledger.
type PortfolioReport struct {
	Positions     []PositionReport `json:"positions"`
	Timestamp     string           `json:"timestamp"`
	TotalPnL      float64          `json:"total_pnl"`
	AvailableCash float64          `json:"available_cash"`
	TotalAsset    float64          `json:"total_asset"`
	InitialCash   float64          `json:"initial_cash"`
}

// Report returns the rich presentation record for one symbol. ok is
// false when there is no position in that symbol.
func (pf *Portfolio) Report(symbol string) (PositionReport, bool) {
	p, found := pf.positions[symbol]
	if !found {
		return PositionReport{}, false
	}
	return p.Report(), true
}

// ReportAll returns presentation records for every open position plus
// the aggregate totals.
func (pf *Portfolio) ReportAll() PortfolioReport {
	positions := pf.Positions()
	reports := make([]PositionReport, 0, len(positions))
	for _, p := range positions {
		reports = append(reports, p.Report())
	}
	return PortfolioReport{
		Positions:     reports,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		TotalPnL:      pf.TotalPnL(),
		AvailableCash: pf.AvailableCash,
		TotalAsset:    pf.TotalAsset,
		InitialCash:   pf.InitialCash,
	}
}
