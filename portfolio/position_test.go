package portfolio

import (
	"math"
	"strings"
	"testing"
)

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func fptr(x float64) *float64 { return &x }

func TestLiquidationPriceLeveraged(t *testing.T) {
	p := NewPosition("BTC", 1.0, 100.0, 5.0, nil, nil, 0.5)

	if p.LiquidationPrice == nil {
		t.Fatalf("expected liquidation price for 5x leverage")
	}
	want := 100.0 * (1 - 1.0/5.0)
	if !approxEqual(*p.LiquidationPrice, want, 1e-9) {
		t.Fatalf("liquidation price: got %.6f want %.6f", *p.LiquidationPrice, want)
	}
}

func TestLiquidationPriceUnleveraged(t *testing.T) {
	p := NewPosition("BTC", 1.0, 100.0, 1.0, nil, nil, 0.5)
	if p.LiquidationPrice != nil {
		t.Fatalf("expected no liquidation price at 1x, got %.6f", *p.LiquidationPrice)
	}
}

func TestUnrealizedPnLSign(t *testing.T) {
	cases := []struct {
		name     string
		quantity float64
		entry    float64
		current  float64
		wantSign float64
	}{
		{"long price up", 0.5, 100, 110, 1},
		{"long price down", 0.5, 100, 90, -1},
		{"short price up", -0.5, 100, 110, -1},
		{"short price down", -0.5, 100, 90, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewPosition("ETH", tc.quantity, tc.entry, 5.0, nil, nil, 0.5)
			p.CurrentPrice = tc.current

			pnl := p.UnrealizedPnL()
			if pnl*tc.wantSign <= 0 {
				t.Fatalf("pnl sign: got %.6f want sign %+.0f", pnl, tc.wantSign)
			}
		})
	}
}

func TestUnrealizedPnLLeveraged(t *testing.T) {
	// Long 0.5 BTC @ 45000 with 10x: +1000 move is +5000 PnL.
	p := NewPosition("BTC", 0.5, 45000.0, 10.0, nil, nil, 0.5)
	if !approxEqual(p.UnrealizedPnL(), 0, 1e-9) {
		t.Fatalf("pnl at open: got %.6f want 0", p.UnrealizedPnL())
	}

	p.CurrentPrice = 46000.0
	if !approxEqual(p.UnrealizedPnL(), 5000.0, 1e-9) {
		t.Fatalf("pnl after move: got %.6f want 5000", p.UnrealizedPnL())
	}
}

func TestCollateralAndNotional(t *testing.T) {
	p := NewPosition("BTC", -2.0, 100.0, 5.0, nil, nil, 0.5)

	if !approxEqual(p.Collateral(), 40.0, 1e-9) {
		t.Fatalf("collateral: got %.6f want 40", p.Collateral())
	}

	p.CurrentPrice = 110.0
	if !approxEqual(p.Notional(), 220.0, 1e-9) {
		t.Fatalf("notional: got %.6f want 220", p.Notional())
	}
}

func TestRiskUSD(t *testing.T) {
	p := NewPosition("ETH", 1.0, 200.0, 5.0, nil, fptr(190.0), 0.5)
	if !approxEqual(p.RiskUSD(), 10.0*1.0*5.0, 1e-9) {
		t.Fatalf("risk: got %.6f want 50", p.RiskUSD())
	}

	p.StopLoss = nil
	if p.RiskUSD() != 0 {
		t.Fatalf("risk without stop: got %.6f want 0", p.RiskUSD())
	}
}

func TestReportExitPlan(t *testing.T) {
	p := NewPosition("BTC", 0.5, 45000.0, 10.0, fptr(50000.0), fptr(42000.0), 0.8)
	rep := p.Report()

	if rep.ExitPlan.ProfitTarget == nil || *rep.ExitPlan.ProfitTarget != 50000.0 {
		t.Fatalf("expected profit target in exit plan")
	}
	if rep.ExitPlan.StopLoss == nil || *rep.ExitPlan.StopLoss != 42000.0 {
		t.Fatalf("expected stop loss in exit plan")
	}
	want := "If the price closes below 42000.00 on a 3-minute candle"
	if rep.ExitPlan.InvalidationCondition != want {
		t.Fatalf("invalidation condition: got %q want %q", rep.ExitPlan.InvalidationCondition, want)
	}
}

func TestReportWithoutStopHasNoInvalidation(t *testing.T) {
	p := NewPosition("BTC", 0.5, 45000.0, 10.0, nil, nil, 0.8)
	rep := p.Report()

	if rep.ExitPlan.StopLoss != nil || rep.ExitPlan.ProfitTarget != nil {
		t.Fatalf("expected empty exit plan")
	}
	if rep.ExitPlan.InvalidationCondition != "" {
		t.Fatalf("unexpected invalidation condition %q", rep.ExitPlan.InvalidationCondition)
	}
}

func TestPositionFromRecordValidation(t *testing.T) {
	good := Record{Symbol: "BTC", Quantity: 0.5, EntryPrice: 45000, Leverage: 10}
	if _, err := positionFromRecord(good); err != nil {
		t.Fatalf("valid record rejected: %v", err)
	}

	bad := []Record{
		{Quantity: 0.5, EntryPrice: 45000},
		{Symbol: "BTC", Quantity: 0, EntryPrice: 45000},
		{Symbol: "BTC", Quantity: 0.5, EntryPrice: 0},
		{Symbol: "BTC", Quantity: 0.5, EntryPrice: -1},
	}
	for i, rec := range bad {
		if _, err := positionFromRecord(rec); err == nil {
			t.Fatalf("record %d: expected validation error", i)
		}
	}
}

func TestPositionFromRecordDefaults(t *testing.T) {
	rec := Record{Symbol: "SOL", Quantity: -3, EntryPrice: 150}
	p, err := positionFromRecord(rec)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}

	if p.Leverage != 1 {
		t.Fatalf("leverage default: got %.2f want 1", p.Leverage)
	}
	if p.CurrentPrice != 150 {
		t.Fatalf("current price default: got %.2f want entry 150", p.CurrentPrice)
	}
	if p.Confidence != 0.5 {
		t.Fatalf("confidence default: got %.2f want 0.5", p.Confidence)
	}
}

func TestInvalidationConditionFormat(t *testing.T) {
	p := NewPosition("ETH", 1.0, 200.0, 5.0, nil, fptr(185.5), 0.5)
	rep := p.Report()
	if !strings.Contains(rep.ExitPlan.InvalidationCondition, "185.50") {
		t.Fatalf("stop level missing from condition: %q", rep.ExitPlan.InvalidationCondition)
	}
}
