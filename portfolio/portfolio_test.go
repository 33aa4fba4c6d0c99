package portfolio

import (
	"testing"
)

func openPosition(t *testing.T, pf *Portfolio, symbol string, qty, price, leverage float64) *Position {
	t.Helper()
	p := NewPosition(symbol, qty, price, leverage, nil, nil, 0.5)
	pf.Upsert(p)
	return p
}

func TestUpsertReservesCollateral(t *testing.T) {
	pf := New(1000)

	openPosition(t, pf, "BTC", 1.0, 100.0, 5.0) // collateral 20

	if !approxEqual(pf.AvailableCash, 980.0, 1e-9) {
		t.Fatalf("available cash: got %.6f want 980", pf.AvailableCash)
	}
	if !approxEqual(pf.TotalAsset, 1000.0, 1e-9) {
		t.Fatalf("total asset: got %.6f want 1000", pf.TotalAsset)
	}
}

func TestUpsertReplacementReturnsOldCollateral(t *testing.T) {
	pf := New(1000)

	openPosition(t, pf, "BTC", 1.0, 100.0, 5.0)  // reserve 20
	openPosition(t, pf, "BTC", 2.0, 100.0, 10.0) // return 20, reserve 20

	if !approxEqual(pf.AvailableCash, 980.0, 1e-9) {
		t.Fatalf("available cash: got %.6f want 980", pf.AvailableCash)
	}
	if got := len(pf.Positions()); got != 1 {
		t.Fatalf("positions: got %d want 1", got)
	}
	if pf.Position("BTC").Quantity != 2.0 {
		t.Fatalf("expected replacement to win")
	}
}

func TestRemoveCreditsCollateralAndPnL(t *testing.T) {
	pf := New(1000)

	openPosition(t, pf, "BTC", 1.0, 100.0, 5.0)
	pf.UpdatePrice("BTC", 110.0) // pnl = 10 * 1 * 5 = 50

	pf.Remove("BTC")

	if !approxEqual(pf.AvailableCash, 1050.0, 1e-9) {
		t.Fatalf("available cash: got %.6f want 1050", pf.AvailableCash)
	}
	if pf.Position("BTC") != nil {
		t.Fatalf("position should be gone")
	}
	if !approxEqual(pf.TotalAsset, pf.AvailableCash, 1e-9) {
		t.Fatalf("total asset: got %.6f want %.6f", pf.TotalAsset, pf.AvailableCash)
	}
}

func TestRemoveMissingIsNoop(t *testing.T) {
	pf := New(1000)
	pf.Remove("BTC")

	if !approxEqual(pf.AvailableCash, 1000.0, 1e-9) {
		t.Fatalf("available cash changed: %.6f", pf.AvailableCash)
	}
}

func TestOpenCloseRoundTripRestoresCash(t *testing.T) {
	pf := New(1000)

	openPosition(t, pf, "ETH", -4.0, 200.0, 5.0)
	pf.Remove("ETH") // no price change, pnl 0

	if !approxEqual(pf.AvailableCash, 1000.0, 1e-9) {
		t.Fatalf("available cash: got %.6f want 1000 exactly", pf.AvailableCash)
	}
}

func TestUpdatePriceIdempotent(t *testing.T) {
	pf := New(1000)
	openPosition(t, pf, "BTC", 1.0, 100.0, 5.0)

	pf.UpdatePrice("BTC", 105.0)
	cash, total, pnl := pf.AvailableCash, pf.TotalAsset, pf.TotalPnL()

	pf.UpdatePrice("BTC", 105.0)

	if pf.AvailableCash != cash || pf.TotalAsset != total || pf.TotalPnL() != pnl {
		t.Fatalf("second identical update changed state")
	}
}

func TestUpdatePriceUnknownSymbolIsNoop(t *testing.T) {
	pf := New(1000)
	pf.UpdatePrice("DOGE", 0.1)

	if !approxEqual(pf.TotalAsset, 1000.0, 1e-9) {
		t.Fatalf("total asset changed: %.6f", pf.TotalAsset)
	}
}

func TestUpdatePricesBatch(t *testing.T) {
	pf := New(10000)
	openPosition(t, pf, "BTC", 0.5, 45000.0, 10.0)
	openPosition(t, pf, "ETH", -10.0, 3000.0, 5.0)

	pf.UpdatePrices(map[string]float64{
		"BTC": 46000.0, // +0.5*1000*10 = +5000
		"ETH": 2950.0,  // +10*50*5 = +2500
		"SOL": 150.0,   // ignored
	})

	if !approxEqual(pf.TotalPnL(), 7500.0, 1e-9) {
		t.Fatalf("total pnl: got %.6f want 7500", pf.TotalPnL())
	}
	wantTotal := pf.AvailableCash + (2250.0 + 5000.0) + (6000.0 + 2500.0)
	if !approxEqual(pf.TotalAsset, wantTotal, 1e-9) {
		t.Fatalf("total asset: got %.6f want %.6f", pf.TotalAsset, wantTotal)
	}
}

func TestTotalAssetInvariantAfterEveryMutation(t *testing.T) {
	pf := New(5000)

	check := func(step string) {
		t.Helper()
		var positionValue float64
		for _, p := range pf.Positions() {
			positionValue += p.Collateral() + p.UnrealizedPnL()
		}
		if !approxEqual(pf.TotalAsset, pf.AvailableCash+positionValue, 1e-9) {
			t.Fatalf("%s: total %.6f != cash %.6f + positions %.6f",
				step, pf.TotalAsset, pf.AvailableCash, positionValue)
		}
	}

	openPosition(t, pf, "BTC", 0.1, 45000.0, 10.0)
	check("after open BTC")

	openPosition(t, pf, "ETH", -2.0, 200.0, 5.0)
	check("after open ETH")

	pf.UpdatePrice("BTC", 44000.0)
	check("after BTC mark down")

	pf.UpdatePrices(map[string]float64{"BTC": 46000.0, "ETH": 210.0})
	check("after batch update")

	pf.Remove("ETH")
	check("after close ETH")
}

func TestReportSingleSymbol(t *testing.T) {
	pf := New(1000)
	openPosition(t, pf, "BTC", 1.0, 100.0, 5.0)

	rep, ok := pf.Report("BTC")
	if !ok {
		t.Fatalf("expected report for BTC")
	}
	if rep.Symbol != "BTC" || rep.Leverage != 5.0 {
		t.Fatalf("unexpected report: %+v", rep)
	}

	if _, ok := pf.Report("ETH"); ok {
		t.Fatalf("expected empty result for missing symbol")
	}
}

func TestReportAllAggregates(t *testing.T) {
	pf := New(1000)
	openPosition(t, pf, "ETH", 1.0, 200.0, 5.0)
	openPosition(t, pf, "BTC", 1.0, 100.0, 5.0)

	rep := pf.ReportAll()

	if len(rep.Positions) != 2 {
		t.Fatalf("positions: got %d want 2", len(rep.Positions))
	}
	// Ordered by symbol for stable display output.
	if rep.Positions[0].Symbol != "BTC" || rep.Positions[1].Symbol != "ETH" {
		t.Fatalf("unexpected ordering: %s, %s", rep.Positions[0].Symbol, rep.Positions[1].Symbol)
	}
	if rep.InitialCash != 1000 {
		t.Fatalf("initial cash: got %.2f", rep.InitialCash)
	}
	if !approxEqual(rep.AvailableCash, pf.AvailableCash, 1e-9) {
		t.Fatalf("available cash mismatch")
	}
	if rep.Timestamp == "" {
		t.Fatalf("expected timestamp")
	}
}
