// journal/journal.go
package journal

import "time"

// DecisionRecord is one proposal as executed: what the provider
// proposed and what the engine did with it.
type DecisionRecord struct {
	ID         string
	Time       time.Time
	Provider   string
	Symbol     string
	Signal     string
	Quantity   float64
	Price      float64
	Leverage   float64
	Confidence float64
	Admitted   bool
	Reason     string
	Detail     string
}

// EquitySnapshot is the account state at the end of a tick.
type EquitySnapshot struct {
	Time          time.Time
	TotalAsset    float64
	AvailableCash float64
	TotalPnL      float64
	OpenPositions int
}

type Journal interface {
	RecordDecision(DecisionRecord) error
	RecordEquity(EquitySnapshot) error
	Close() error
}
