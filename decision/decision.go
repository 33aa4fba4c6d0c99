// Package decision turns market context and portfolio state into trade
// proposals. Providers are pluggable: a seeded random provider for
// simulation and testing, and an LLM-backed provider for live runs.
package decision

import (
	"context"
	"fmt"
	"strings"

	"github.com/Moshiii/Alpha-Arena-Lite/engine"
	"github.com/Moshiii/Alpha-Arena-Lite/marketdata"
	"github.com/Moshiii/Alpha-Arena-Lite/portfolio"
)

// Proposal is one suggested trade for one coin. It mirrors the JSON
// shape the LLM provider is asked to emit, so the same type decodes
// model output and feeds the execution engine.
type Proposal struct {
	Coin                  string  `json:"coin"`
	Signal                string  `json:"signal"`
	Quantity              float64 `json:"quantity"`
	ProfitTarget          float64 `json:"profit_target"`
	StopLoss              float64 `json:"stop_loss"`
	InvalidationCondition string  `json:"invalidation_condition"`
	Leverage              float64 `json:"leverage"`
	Confidence            float64 `json:"confidence"`
	RiskUSD               float64 `json:"risk_usd"`
	EntryPrice            float64 `json:"entry_price"`
}

// Order converts the proposal to an execution request at the given
// price. Zero-valued exit levels are treated as unset.
func (p Proposal) Order(sig engine.Signal, price float64) engine.Order {
	order := engine.Order{
		Symbol:     p.Coin,
		Signal:     sig,
		Quantity:   p.Quantity,
		Price:      price,
		Leverage:   p.Leverage,
		Confidence: p.Confidence,
	}
	if p.ProfitTarget > 0 {
		pt := p.ProfitTarget
		order.ProfitTarget = &pt
	}
	if p.StopLoss > 0 {
		sl := p.StopLoss
		order.StopLoss = &sl
	}
	return order
}

// Provider generates one proposal per symbol it has context for.
// Implementations must not mutate the inputs.
type Provider interface {
	Name() string
	Decide(ctx context.Context, contexts map[string]marketdata.SymbolContext, report portfolio.PortfolioReport) ([]Proposal, error)
}

// ByName resolves a provider by its configured name.
func ByName(name string, opts Options) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "random":
		return NewRandom(opts.Seed), nil

	case "llm", "openai":
		return NewLLM(opts)

	default:
		return nil, fmt.Errorf("unknown decision provider %q (supported: random, llm)", name)
	}
}
