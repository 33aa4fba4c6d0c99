package decision

import (
	"fmt"
	"strings"

	"github.com/Moshiii/Alpha-Arena-Lite/marketdata"
	"github.com/Moshiii/Alpha-Arena-Lite/portfolio"
)

// portfolioSummary renders the account state the way a human analyst
// would read it: headline return and cash first, then one line per
// open position.
func portfolioSummary(report portfolio.PortfolioReport) string {
	var b strings.Builder
	b.WriteString("HERE IS YOUR ACCOUNT INFORMATION & PERFORMANCE\n")
	if report.Timestamp != "" {
		fmt.Fprintf(&b, "As of: %s\n", report.Timestamp)
	}

	returnPct := 0.0
	if report.InitialCash > 0 {
		returnPct = 100 * (report.TotalAsset - report.InitialCash) / report.InitialCash
	}
	fmt.Fprintf(&b, "Current Total Return (percent): %.2f%%\n", returnPct)
	fmt.Fprintf(&b, "Available Cash: $%.2f\n", report.AvailableCash)
	fmt.Fprintf(&b, "Current Account Value: $%.2f\n", report.TotalAsset)
	fmt.Fprintf(&b, "Total Unrealized PnL: $%.2f\n", report.TotalPnL)
	b.WriteString("Current live positions & performance:\n\n")

	if len(report.Positions) == 0 {
		b.WriteString("(No open positions)\n")
		return b.String()
	}

	for _, pos := range report.Positions {
		fmt.Fprintf(&b,
			"Symbol: %s, Qty: %.4f, Entry: $%.2f, Current: $%.2f, PnL: $%.2f, Notional: $%.2f, Risk: $%.2f, Leverage: %gx, Confidence: %.2f\n",
			pos.Symbol, pos.Quantity, pos.EntryPrice, pos.CurrentPrice,
			pos.UnrealizedPnL, pos.NotionalUSD, pos.RiskUSD, pos.Leverage, pos.Confidence)
	}
	return b.String()
}

// marketSummary renders one symbol's indicator context, current values
// first and the trailing series after.
func marketSummary(sc marketdata.SymbolContext) string {
	symbol := strings.ToUpper(sc.Symbol)

	lines := []string{
		fmt.Sprintf("ALL %s DATA", symbol),
		fmt.Sprintf("current_price = %.3f, current_ema20 = %.3f, current_macd = %.3f, current_rsi (7 period) = %.3f",
			sc.CurrentPrice, sc.CurrentEMA20, sc.CurrentMACD, sc.CurrentRSI7),
		fmt.Sprintf("Volume: Latest: %.2f  Average: %.2f", sc.CurrentVolume, sc.AverageVolume),
		fmt.Sprintf("Intraday series (%s intervals, oldest to latest):", sc.Frequency),
		fmt.Sprintf("%s mid prices: [%s]", symbol, formatSeries(sc.MidPrices, 2)),
		fmt.Sprintf("EMA indicators (20-period): [%s]", formatSeries(sc.EMA20, 3)),
		fmt.Sprintf("MACD indicators: [%s]", formatSeries(sc.MACD, 3)),
		fmt.Sprintf("RSI indicators (7-Period): [%s]", formatSeries(sc.RSI7, 3)),
		fmt.Sprintf("RSI indicators (14-Period): [%s]", formatSeries(sc.RSI14, 3)),
	}
	return strings.Join(lines, "\n")
}

func formatSeries(series []float64, decimals int) string {
	parts := make([]string, 0, len(series))
	for _, v := range series {
		parts = append(parts, fmt.Sprintf("%.*f", decimals, v))
	}
	return strings.Join(parts, ", ")
}

// buildPrompt assembles the per-symbol instruction the model answers
// with a single JSON object.
func buildPrompt(symbol string, sc marketdata.SymbolContext, report portfolio.PortfolioReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a trading agent. Here is the market data for %s:\n", symbol)
	b.WriteString(marketSummary(sc))
	b.WriteString("\nHere is the current portfolio information:\n")
	b.WriteString(portfolioSummary(report))
	b.WriteString("\nINSTRUCTIONS:\n")
	fmt.Fprintf(&b, "Now generate a trading decision for the symbol %s.\n", symbol)
	b.WriteString("The position size should stay within 30% of the total available cash.\n")
	fmt.Fprintf(&b, "Generate ONLY for symbol %s a single JSON object in the following structure:\n", symbol)
	b.WriteString(`{
"trade_signal_args": {
"coin": <string>,
"signal": <"buy" | "sell" | "hold" | "close">,
"quantity": <number>,
"profit_target": <number>,
"stop_loss": <number>,
"invalidation_condition": <string>,
"leverage": <number>,
"confidence": <number between 0 and 1>,
"risk_usd": <number>,
"entry_price": <number>
}
}
`)
	b.WriteString("If you have no trading signal, set \"signal\" to \"hold\" and fill the numeric fields sensibly.\n")
	b.WriteString("Respond ONLY with the JSON object, no text or explanation. Do not output an array.\n")
	return b.String()
}
