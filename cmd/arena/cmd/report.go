package cmd

import (
	"fmt"
	"time"

	"github.com/Moshiii/Alpha-Arena-Lite/journal"
	"github.com/Moshiii/Alpha-Arena-Lite/portfolio"
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the portfolio report from a snapshot file",
	Long: `Print the portfolio report from a saved snapshot: the full position
table with totals, or a single symbol's rich record with its exit plan.

With --db, also summarize the journaled decisions and equity curve from
a SQLite journal.

Examples:
  arena report -f portfolio.json
  arena report -f portfolio.json -s BTC
  arena report -f portfolio.json -d arena.sqlite --since 24h`,
	RunE: runReport,
}

var (
	reportSnapshotPath string
	reportSymbol       string
	reportDBPath       string
	reportSince        time.Duration
)

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVarP(&reportSnapshotPath, "file", "f", "portfolio.json", "path to portfolio snapshot file")
	reportCmd.Flags().StringVarP(&reportSymbol, "symbol", "s", "", "report a single symbol")
	reportCmd.Flags().StringVarP(&reportDBPath, "db", "d", "", "path to SQLite journal DB (optional)")
	reportCmd.Flags().DurationVar(&reportSince, "since", 24*time.Hour, "journal window (with --db)")
}

func runReport(cmd *cobra.Command, args []string) error {
	pf := portfolio.New(0)
	if err := pf.LoadFile(reportSnapshotPath); err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	if reportSymbol != "" {
		pos, ok := pf.Report(reportSymbol)
		if !ok {
			return fmt.Errorf("no open position in %s", reportSymbol)
		}
		printPosition(pos)
	} else {
		printPortfolio(pf.ReportAll())
	}

	if reportDBPath != "" {
		fmt.Println()
		return reportJournal(reportDBPath, reportSince)
	}
	return nil
}

func printPosition(pos portfolio.PositionReport) {
	fmt.Printf("%s\n", pos.Symbol)
	fmt.Printf("  Quantity: %.4f\n", pos.Quantity)
	fmt.Printf("  Entry: $%.2f  Current: $%.2f\n", pos.EntryPrice, pos.CurrentPrice)
	fmt.Printf("  Leverage: %gx\n", pos.Leverage)
	if pos.LiquidationPrice != nil {
		fmt.Printf("  Liquidation: $%.2f\n", *pos.LiquidationPrice)
	}
	fmt.Printf("  Unrealized PnL: $%.2f\n", pos.UnrealizedPnL)
	fmt.Printf("  Notional: $%.2f  Risk: $%.2f\n", pos.NotionalUSD, pos.RiskUSD)
	fmt.Printf("  Confidence: %.2f\n", pos.Confidence)
	if pos.ExitPlan.ProfitTarget != nil {
		fmt.Printf("  Profit Target: $%.2f\n", *pos.ExitPlan.ProfitTarget)
	}
	if pos.ExitPlan.StopLoss != nil {
		fmt.Printf("  Stop Loss: $%.2f\n", *pos.ExitPlan.StopLoss)
	}
	if pos.ExitPlan.InvalidationCondition != "" {
		fmt.Printf("  Invalidation: %s\n", pos.ExitPlan.InvalidationCondition)
	}
}

func printPortfolio(report portfolio.PortfolioReport) {
	fmt.Printf("Portfolio as of %s\n", report.Timestamp)
	if len(report.Positions) == 0 {
		fmt.Println("(No open positions)")
	} else {
		fmt.Printf("\n%-8s %12s %12s %12s %12s %8s\n",
			"Symbol", "Qty", "Entry", "Current", "PnL", "Lev")
		for _, pos := range report.Positions {
			fmt.Printf("%-8s %12.4f %12.2f %12.2f %12.2f %7gx\n",
				pos.Symbol, pos.Quantity, pos.EntryPrice, pos.CurrentPrice,
				pos.UnrealizedPnL, pos.Leverage)
		}
	}
	fmt.Printf("\n  Initial Cash: $%.2f\n", report.InitialCash)
	fmt.Printf("  Available Cash: $%.2f\n", report.AvailableCash)
	fmt.Printf("  Total Asset Value: $%.2f\n", report.TotalAsset)
	fmt.Printf("  Total Unrealized PnL: $%.2f\n", report.TotalPnL)
}

func reportJournal(dbPath string, since time.Duration) error {
	j, err := journal.NewSQLite(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	end := time.Now().UTC()
	start := end.Add(-since)

	decisions, err := j.ListDecisionsBetween(start, end)
	if err != nil {
		return fmt.Errorf("list decisions: %w", err)
	}

	admitted := 0
	rejections := map[string]int{}
	for _, d := range decisions {
		if d.Admitted {
			admitted++
		} else {
			rejections[d.Reason]++
		}
	}
	fmt.Printf("Decisions since %s: %d\n", start.Format(time.RFC3339), len(decisions))
	fmt.Printf("  Admitted: %d\n", admitted)
	fmt.Printf("  Rejected: %d\n", len(decisions)-admitted)
	for reason, count := range rejections {
		fmt.Printf("    %s: %d\n", reason, count)
	}

	equity, err := j.ListEquityBetween(start, end)
	if err != nil {
		return fmt.Errorf("list equity: %w", err)
	}
	if len(equity) == 0 {
		fmt.Println("\nNo equity snapshots in window.")
		return nil
	}

	first, last := equity[0], equity[len(equity)-1]
	fmt.Printf("\nEquity (%d snapshots):\n", len(equity))
	fmt.Printf("  Start: $%.2f at %s\n", first.TotalAsset, first.Time.Format(time.RFC3339))
	fmt.Printf("  End:   $%.2f at %s\n", last.TotalAsset, last.Time.Format(time.RFC3339))
	fmt.Printf("  Change: $%.2f\n", last.TotalAsset-first.TotalAsset)
	fmt.Printf("  Open positions at end: %d\n", last.OpenPositions)
	return nil
}
