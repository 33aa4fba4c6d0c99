package decision

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/Moshiii/Alpha-Arena-Lite/marketdata"
	"github.com/Moshiii/Alpha-Arena-Lite/portfolio"
)

var leverageChoices = []float64{1, 5, 10, 15, 20, 25}

// Random proposes uniformly drawn trades. It exists to exercise the
// full accounting path without paying for model calls; seed it for
// reproducible runs.
type Random struct {
	rng *rand.Rand
}

// NewRandom creates a random provider. A zero seed uses the clock.
func NewRandom(seed int64) *Random {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Random{rng: rand.New(rand.NewSource(seed))}
}

func (r *Random) Name() string { return "random" }

// Decide draws one proposal per symbol. Symbols are visited in sorted
// order so a fixed seed yields a fixed run.
func (r *Random) Decide(ctx context.Context, contexts map[string]marketdata.SymbolContext, report portfolio.PortfolioReport) ([]Proposal, error) {
	symbols := make([]string, 0, len(contexts))
	for symbol := range contexts {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	proposals := make([]Proposal, 0, len(symbols))
	for _, symbol := range symbols {
		price := contexts[symbol].CurrentPrice

		direction := r.rng.Intn(4) - 1 // -1 sell, 0 hold, 1 buy, 2 close
		signal := "close"
		switch direction {
		case -1:
			signal = "sell"
		case 0:
			signal = "hold"
		case 1:
			signal = "buy"
		}

		quantity := round(r.uniform(0.00001, 0.01), 4)
		if direction == -1 {
			quantity = -quantity
		} else if direction == 0 {
			quantity = 0
		}

		profitTarget := round(r.uniform(price*1.1, price*1.2), 2)
		stopLoss := round(r.uniform(price*0.9, price*0.95), 2)

		invalidation := fmt.Sprintf("If the price closes below %.2f on a 3-minute candle", stopLoss)
		if r.rng.Intn(2) == 1 {
			invalidation = fmt.Sprintf("If the price closes above %.2f on a 3-minute candle", profitTarget)
		}

		proposals = append(proposals, Proposal{
			Coin:                  symbol,
			Signal:                signal,
			Quantity:              quantity,
			ProfitTarget:          profitTarget,
			StopLoss:              stopLoss,
			InvalidationCondition: invalidation,
			Leverage:              leverageChoices[r.rng.Intn(len(leverageChoices))],
			Confidence:            round(r.uniform(0.5, 1.0), 2),
			RiskUSD:               r.uniform(100, 1000),
			EntryPrice:            round(price, 2),
		})
	}
	return proposals, nil
}

func (r *Random) uniform(lo, hi float64) float64 {
	return lo + r.rng.Float64()*(hi-lo)
}

func round(v float64, decimals int) float64 {
	scale := math.Pow10(decimals)
	return math.Round(v*scale) / scale
}
