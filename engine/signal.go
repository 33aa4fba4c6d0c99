package engine

import (
	"fmt"
	"strings"
)

// Signal is the directive driving the execution state machine.
type Signal string

const (
	Buy   Signal = "buy"
	Sell  Signal = "sell"
	Hold  Signal = "hold"
	Close Signal = "close"
)

// ParseSignal normalizes a provider-supplied signal string. Decision
// providers are untrusted input, so unknown values are an error rather
// than a silent hold.
func ParseSignal(s string) (Signal, error) {
	switch Signal(strings.ToLower(strings.TrimSpace(s))) {
	case Buy:
		return Buy, nil
	case Sell:
		return Sell, nil
	case Hold:
		return Hold, nil
	case Close:
		return Close, nil
	default:
		return "", fmt.Errorf("unknown signal %q", s)
	}
}
