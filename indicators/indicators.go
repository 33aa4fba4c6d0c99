// Package indicators provides the technical analysis series the
// decision providers consume. All functions operate on plain float64
// slices (oldest first) and return a series of the same length, so
// callers can take both the latest value and a trailing window.
package indicators

import "math"

// EMA computes the Exponential Moving Average for the given period.
// The first value is seeded with the SMA of the first period closes.
func EMA(prices []float64, period int) []float64 {
	n := len(prices)
	if n == 0 || period <= 0 {
		return nil
	}

	out := make([]float64, n)
	multiplier := 2.0 / float64(period+1)

	seedLen := period
	if seedLen > n {
		seedLen = n
	}
	seed := 0.0
	for i := 0; i < seedLen; i++ {
		seed += prices[i]
	}
	out[0] = seed / float64(seedLen)

	for i := 1; i < n; i++ {
		out[i] = (prices[i]-out[i-1])*multiplier + out[i-1]
	}
	return out
}

// MACD computes the MACD line, EMA(12) - EMA(26).
func MACD(prices []float64) []float64 {
	ema12 := EMA(prices, 12)
	ema26 := EMA(prices, 26)

	out := make([]float64, len(prices))
	for i := range prices {
		out[i] = ema12[i] - ema26[i]
	}
	return out
}

// RSI computes the Relative Strength Index for the given period using
// Wilder's smoothing. Values before the warmup are filled with the
// first computed reading; an empty or too-short series yields neutral
// values rather than an error.
func RSI(prices []float64, period int) []float64 {
	n := len(prices)
	if n < 2 || period <= 0 {
		out := make([]float64, n)
		for i := range out {
			out[i] = 50
		}
		return out
	}

	out := make([]float64, n)
	out[0] = 50

	initLen := period
	if initLen >= n {
		initLen = n - 1
	}

	var avgGain, avgLoss float64
	for i := 1; i <= initLen; i++ {
		change := prices[i] - prices[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss += math.Abs(change)
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	out[initLen] = rsiValue(avgGain, avgLoss)

	for i := initLen + 1; i < n; i++ {
		change := prices[i] - prices[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = math.Abs(change)
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		out[i] = rsiValue(avgGain, avgLoss)
	}

	for i := 1; i < initLen; i++ {
		out[i] = out[initLen]
	}
	return out
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// ATR computes the Average True Range from high/low/close series,
// smoothed as an EMA of the true range.
func ATR(highs, lows, closes []float64, period int) []float64 {
	n := len(closes)
	if n < 2 || period <= 0 {
		return make([]float64, n)
	}

	tr := make([]float64, n)
	tr[0] = highs[0] - lows[0]
	for i := 1; i < n; i++ {
		tr[i] = trueRange(highs[i], lows[i], closes[i-1])
	}
	return EMA(tr, period)
}

func trueRange(high, low, prevClose float64) float64 {
	highLow := high - low
	highClose := math.Abs(high - prevClose)
	lowClose := math.Abs(low - prevClose)
	return math.Max(highLow, math.Max(highClose, lowClose))
}

// Last returns the final value of a series, or 0 for an empty one.
func Last(series []float64) float64 {
	if len(series) == 0 {
		return 0
	}
	return series[len(series)-1]
}

// Tail returns up to n trailing values of a series.
func Tail(series []float64, n int) []float64 {
	if n <= 0 || len(series) == 0 {
		return nil
	}
	if len(series) <= n {
		return series
	}
	return series[len(series)-n:]
}
