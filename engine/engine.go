package engine

import (
	"fmt"
	"math"

	"github.com/Moshiii/Alpha-Arena-Lite/portfolio"
)

// Reason tags every Execute outcome so callers can branch without
// string matching. Rejections never mutate the ledger.
type Reason string

const (
	// Rejections.
	InvalidPrice        Reason = "InvalidPrice"
	InvalidLeverage     Reason = "InvalidLeverage"
	ZeroQuantity        Reason = "ZeroQuantity"
	InsufficientCash    Reason = "InsufficientCash"
	SameDirectionExists Reason = "SameDirectionExists"
	NoPositionToClose   Reason = "NoPositionToClose"
	NothingToDo         Reason = "NothingToDo"

	// Admissions.
	OrderFilled      Reason = "OrderFilled"
	PositionClosed   Reason = "PositionClosed"
	PositionReversed Reason = "PositionReversed"
)

// Order is a proposed trade: one symbol, one signal, and the trade
// parameters the provider attached to it. Quantity sign may duplicate
// the signal's direction; the engine normalizes it.
type Order struct {
	Symbol       string
	Signal       Signal
	Quantity     float64
	Price        float64
	Leverage     float64
	ProfitTarget *float64
	StopLoss     *float64
	Confidence   float64
}

// Outcome reports whether an order was admitted and why. There is no
// error-based control flow here: every validation failure and every
// state-machine branch maps to a Reason the caller can branch on.
type Outcome struct {
	Admitted bool
	Reason   Reason
	Detail   string
}

func rejected(r Reason, format string, args ...any) Outcome {
	return Outcome{Admitted: false, Reason: r, Detail: fmt.Sprintf(format, args...)}
}

func admitted(r Reason, format string, args ...any) Outcome {
	return Outcome{Admitted: true, Reason: r, Detail: fmt.Sprintf(format, args...)}
}

// Engine is the signal-driven execution state machine over one ledger.
// Per symbol the states are no-position, long and short; buy/sell open
// or reverse, close removes, hold never acts. Calls are synchronous and
// single-writer: one Execute runs to completion before the next begins.
type Engine struct {
	ledger *portfolio.Portfolio
}

// New creates an engine mutating ledger.
func New(ledger *portfolio.Portfolio) *Engine {
	return &Engine{ledger: ledger}
}

// Ledger exposes the ledger the engine mutates.
func (e *Engine) Ledger() *portfolio.Portfolio { return e.ledger }

// Execute validates req and applies the state transition it proposes.
// Validation fails fast and mutates nothing.
func (e *Engine) Execute(req Order) Outcome {
	if req.Price <= 0 {
		return rejected(InvalidPrice, "price %.6f must be positive", req.Price)
	}
	if req.Leverage <= 0 {
		return rejected(InvalidLeverage, "leverage %.2f must be positive", req.Leverage)
	}

	current := e.ledger.Position(req.Symbol)

	switch req.Signal {
	case Hold:
		return rejected(NothingToDo, "%s: hold", req.Symbol)

	case Close:
		if current == nil {
			return rejected(NoPositionToClose, "%s: no open position", req.Symbol)
		}
		// Mark at the execution price so the realized credit does not
		// depend on feed ordering.
		e.ledger.UpdatePrice(req.Symbol, req.Price)
		e.ledger.Remove(req.Symbol)
		return admitted(PositionClosed, "%s: position closed at %.6f", req.Symbol, req.Price)

	case Buy, Sell:
		return e.fill(req, current)

	default:
		return rejected(NothingToDo, "%s: unrecognized signal %q", req.Symbol, req.Signal)
	}
}

func (e *Engine) fill(req Order, current *portfolio.Position) Outcome {
	if req.Quantity == 0 {
		return rejected(ZeroQuantity, "%s: %s with zero quantity", req.Symbol, req.Signal)
	}

	quantity := math.Abs(req.Quantity)
	if req.Signal == Sell {
		quantity = -quantity
	}

	collateral := math.Abs(quantity) * req.Price / req.Leverage
	if collateral > e.ledger.AvailableCash {
		return rejected(InsufficientCash, "%s: need %.2f collateral, have %.2f",
			req.Symbol, collateral, e.ledger.AvailableCash)
	}

	reverse := false
	if current != nil {
		sameDirection := (current.Quantity > 0) == (quantity > 0)
		if sameDirection {
			return rejected(SameDirectionExists, "%s: open %s position already exists",
				req.Symbol, directionName(current.Quantity))
		}
		reverse = true
	}

	if reverse {
		// Atomic replacement: realize the old position at the execution
		// price, then open the new one. No intermediate state is visible
		// to the caller.
		e.ledger.UpdatePrice(req.Symbol, req.Price)
		e.ledger.Remove(req.Symbol)
	}

	pos := portfolio.NewPosition(req.Symbol, quantity, req.Price, req.Leverage,
		req.ProfitTarget, req.StopLoss, req.Confidence)
	e.ledger.Upsert(pos)

	if reverse {
		return admitted(PositionReversed, "%s: reversed to %s %.6f @ %.6f %gx",
			req.Symbol, directionName(quantity), math.Abs(quantity), req.Price, req.Leverage)
	}
	return admitted(OrderFilled, "%s: opened %s %.6f @ %.6f %gx",
		req.Symbol, directionName(quantity), math.Abs(quantity), req.Price, req.Leverage)
}

func directionName(quantity float64) string {
	if quantity > 0 {
		return "long"
	}
	return "short"
}
