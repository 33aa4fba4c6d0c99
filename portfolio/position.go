package portfolio

import (
	"fmt"
	"math"
	"time"
)

// Position is one open exposure in a single symbol. Quantity sign
// encodes direction: positive is long, negative is short. At most one
// Position exists per symbol; a zero-quantity position is never stored.
type Position struct {
	Symbol       string
	Quantity     float64
	EntryPrice   float64
	CurrentPrice float64
	Leverage     float64

	// LiquidationPrice is set only when leverage > 1. The formula is
	// entry * (1 - 1/leverage) for longs AND shorts; snapshots in the
	// wild carry values computed this way, so changing it means
	// migrating persisted data.
	LiquidationPrice *float64

	ProfitTarget *float64
	StopLoss     *float64
	Confidence   float64
	EntryTime    time.Time
}

// NewPosition opens a position at price with the entry mark equal to the
// current mark. Liquidation price is computed once here, never after.
func NewPosition(symbol string, quantity, price, leverage float64, profitTarget, stopLoss *float64, confidence float64) *Position {
	p := &Position{
		Symbol:       symbol,
		Quantity:     quantity,
		EntryPrice:   price,
		CurrentPrice: price,
		Leverage:     leverage,
		ProfitTarget: profitTarget,
		StopLoss:     stopLoss,
		Confidence:   confidence,
		EntryTime:    time.Now().UTC(),
	}
	if leverage > 1 {
		liq := LiquidationPrice(price, leverage)
		p.LiquidationPrice = &liq
	}
	return p
}

// LiquidationPrice returns entry * (1 - 1/leverage).
func LiquidationPrice(entry, leverage float64) float64 {
	return entry * (1 - 1/leverage)
}

func (p *Position) direction() float64 {
	if p.Quantity >= 0 {
		return 1
	}
	return -1
}

// UnrealizedPnL is (current - entry) * |quantity| * leverage, signed by
// direction.
func (p *Position) UnrealizedPnL() float64 {
	return (p.CurrentPrice - p.EntryPrice) * math.Abs(p.Quantity) * p.Leverage * p.direction()
}

// Collateral is the cash reserved against this position:
// |quantity| * entry / leverage.
func (p *Position) Collateral() float64 {
	return math.Abs(p.Quantity) * p.EntryPrice / p.Leverage
}

// Notional is |quantity| * current price.
func (p *Position) Notional() float64 {
	return math.Abs(p.Quantity) * p.CurrentPrice
}

// RiskUSD is the leveraged dollar distance to the stop loss, or 0 when
// no stop is set.
func (p *Position) RiskUSD() float64 {
	if p.StopLoss == nil {
		return 0
	}
	return math.Abs(p.EntryPrice-*p.StopLoss) * math.Abs(p.Quantity) * p.Leverage
}

// Record is the flat persisted form of a Position, matching the snapshot
// file schema. unrealized_pnl is derived at write time and ignored on
// load (it is recomputed from prices).
type Record struct {
	Symbol           string   `json:"symbol"`
	Quantity         float64  `json:"quantity"`
	EntryPrice       float64  `json:"entry_price"`
	CurrentPrice     float64  `json:"current_price"`
	LiquidationPrice *float64 `json:"liquidation_price"`
	Leverage         float64  `json:"leverage"`
	UnrealizedPnL    float64  `json:"unrealized_pnl"`
	EntryTime        string   `json:"entry_time"`

	ProfitTarget *float64 `json:"profit_target,omitempty"`
	StopLoss     *float64 `json:"stop_loss,omitempty"`
	Confidence   float64  `json:"confidence,omitempty"`
}

// Record returns the flat persisted form.
func (p *Position) Record() Record {
	return Record{
		Symbol:           p.Symbol,
		Quantity:         p.Quantity,
		EntryPrice:       p.EntryPrice,
		CurrentPrice:     p.CurrentPrice,
		LiquidationPrice: p.LiquidationPrice,
		Leverage:         p.Leverage,
		UnrealizedPnL:    p.UnrealizedPnL(),
		EntryTime:        p.EntryTime.Format(time.RFC3339),
		ProfitTarget:     p.ProfitTarget,
		StopLoss:         p.StopLoss,
		Confidence:       p.Confidence,
	}
}

// ExitPlan groups the optional exit levels for presentation. Fields are
// present only when set on the position.
type ExitPlan struct {
	ProfitTarget          *float64 `json:"profit_target,omitempty"`
	StopLoss              *float64 `json:"stop_loss,omitempty"`
	InvalidationCondition string   `json:"invalidation_condition,omitempty"`
}

// PositionReport is the rich presentation form of a Position.
type PositionReport struct {
	Symbol           string   `json:"symbol"`
	Quantity         float64  `json:"quantity"`
	EntryPrice       float64  `json:"entry_price"`
	CurrentPrice     float64  `json:"current_price"`
	LiquidationPrice *float64 `json:"liquidation_price"`
	UnrealizedPnL    float64  `json:"unrealized_pnl"`
	Leverage         float64  `json:"leverage"`
	ExitPlan         ExitPlan `json:"exit_plan"`
	Confidence       float64  `json:"confidence"`
	RiskUSD          float64  `json:"risk_usd"`
	NotionalUSD      float64  `json:"notional_usd"`
}

// Report returns the presentation form, including the exit plan and the
// natural-language invalidation condition when a stop loss is set.
func (p *Position) Report() PositionReport {
	plan := ExitPlan{
		ProfitTarget: p.ProfitTarget,
		StopLoss:     p.StopLoss,
	}
	if p.StopLoss != nil {
		plan.InvalidationCondition = fmt.Sprintf("If the price closes below %.2f on a 3-minute candle", *p.StopLoss)
	}

	return PositionReport{
		Symbol:           p.Symbol,
		Quantity:         p.Quantity,
		EntryPrice:       p.EntryPrice,
		CurrentPrice:     p.CurrentPrice,
		LiquidationPrice: p.LiquidationPrice,
		UnrealizedPnL:    p.UnrealizedPnL(),
		Leverage:         p.Leverage,
		ExitPlan:         plan,
		Confidence:       p.Confidence,
		RiskUSD:          p.RiskUSD(),
		NotionalUSD:      p.Notional(),
	}
}

// positionFromRecord validates and rebuilds a Position from its
// persisted form. Current price falls back to the entry price and
// leverage to 1, tolerating partial/legacy snapshots.
func positionFromRecord(rec Record) (*Position, error) {
	if rec.Symbol == "" {
		return nil, fmt.Errorf("position record: missing symbol")
	}
	if rec.Quantity == 0 {
		return nil, fmt.Errorf("position record %s: zero quantity", rec.Symbol)
	}
	if rec.EntryPrice <= 0 {
		return nil, fmt.Errorf("position record %s: entry price %.6f not positive", rec.Symbol, rec.EntryPrice)
	}

	leverage := rec.Leverage
	if leverage == 0 {
		leverage = 1
	}
	if leverage < 0 {
		return nil, fmt.Errorf("position record %s: leverage %.2f not positive", rec.Symbol, rec.Leverage)
	}

	current := rec.CurrentPrice
	if current == 0 {
		current = rec.EntryPrice
	}

	entryTime, err := time.Parse(time.RFC3339, rec.EntryTime)
	if err != nil {
		entryTime = time.Now().UTC()
	}

	confidence := rec.Confidence
	if confidence == 0 {
		confidence = 0.5
	}

	return &Position{
		Symbol:           rec.Symbol,
		Quantity:         rec.Quantity,
		EntryPrice:       rec.EntryPrice,
		CurrentPrice:     current,
		Leverage:         leverage,
		LiquidationPrice: rec.LiquidationPrice,
		ProfitTarget:     rec.ProfitTarget,
		StopLoss:         rec.StopLoss,
		Confidence:       confidence,
		EntryTime:        entryTime,
	}, nil
}
