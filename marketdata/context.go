package marketdata

import (
	"context"

	"github.com/Moshiii/Alpha-Arena-Lite/indicators"
)

// SymbolContext is the per-symbol view handed to decision providers:
// the latest readings plus short trailing series, oldest first.
type SymbolContext struct {
	Symbol    string
	Interval  string
	Frequency string // human description of Interval, e.g. "3-minute"

	CurrentPrice  float64
	CurrentEMA20  float64
	CurrentMACD   float64
	CurrentRSI7   float64
	CurrentVolume float64
	AverageVolume float64

	MidPrices []float64
	EMA20     []float64
	EMA50     []float64
	MACD      []float64
	RSI7      []float64
	RSI14     []float64
	ATR3      []float64
	ATR14     []float64
}

// Source provides the market data the run loop consumes. Implemented by
// Client; faked in tests.
type Source interface {
	LastPrice(ctx context.Context, coin string) (float64, error)
	Context(ctx context.Context, coin, interval string, count int) (SymbolContext, error)
}

var frequencyNames = map[string]string{
	"1m":  "1-minute",
	"3m":  "3-minute",
	"5m":  "5-minute",
	"15m": "15-minute",
	"30m": "30-minute",
	"1h":  "hourly",
	"4h":  "4-hour",
	"1d":  "daily",
}

// Context fetches count candles for a coin and derives the indicator
// context over them. Returns ErrNoData (wrapped) when the exchange has
// nothing for the symbol.
func (c *Client) Context(ctx context.Context, coin, interval string, count int) (SymbolContext, error) {
	candles, err := c.Candles(ctx, coin, interval, count)
	if err != nil {
		return SymbolContext{}, err
	}
	return BuildContext(coin, interval, count, candles), nil
}

// BuildContext derives a SymbolContext from already-fetched candles.
// Split out so replayed or synthetic candles go through the same math.
func BuildContext(coin, interval string, count int, candles []Candle) SymbolContext {
	n := len(candles)
	closes := make([]float64, n)
	highs := make([]float64, n)
	lows := make([]float64, n)
	volumes := make([]float64, n)
	mids := make([]float64, n)
	for i, candle := range candles {
		closes[i] = candle.Close
		highs[i] = candle.High
		lows[i] = candle.Low
		volumes[i] = candle.Volume
		mids[i] = (candle.High + candle.Low) / 2
	}

	ema20 := indicators.EMA(closes, 20)
	ema50 := indicators.EMA(closes, 50)
	macd := indicators.MACD(closes)
	rsi7 := indicators.RSI(closes, 7)
	rsi14 := indicators.RSI(closes, 14)
	atr3 := indicators.ATR(highs, lows, closes, 3)
	atr14 := indicators.ATR(highs, lows, closes, 14)

	var avgVolume float64
	if n > 0 {
		for _, v := range volumes {
			avgVolume += v
		}
		avgVolume /= float64(n)
	}

	frequency := frequencyNames[interval]
	if frequency == "" {
		frequency = interval
	}

	return SymbolContext{
		Symbol:    coin,
		Interval:  interval,
		Frequency: frequency,

		CurrentPrice:  indicators.Last(closes),
		CurrentEMA20:  indicators.Last(ema20),
		CurrentMACD:   indicators.Last(macd),
		CurrentRSI7:   indicators.Last(rsi7),
		CurrentVolume: indicators.Last(volumes),
		AverageVolume: avgVolume,

		MidPrices: indicators.Tail(mids, count),
		EMA20:     indicators.Tail(ema20, count),
		EMA50:     indicators.Tail(ema50, count),
		MACD:      indicators.Tail(macd, count),
		RSI7:      indicators.Tail(rsi7, count),
		RSI14:     indicators.Tail(rsi14, count),
		ATR3:      indicators.Tail(atr3, count),
		ATR14:     indicators.Tail(atr14, count),
	}
}
