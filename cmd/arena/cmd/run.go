package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Moshiii/Alpha-Arena-Lite/config"
	"github.com/Moshiii/Alpha-Arena-Lite/decision"
	"github.com/Moshiii/Alpha-Arena-Lite/engine"
	"github.com/Moshiii/Alpha-Arena-Lite/journal"
	"github.com/Moshiii/Alpha-Arena-Lite/marketdata"
	"github.com/Moshiii/Alpha-Arena-Lite/pkg/id"
	"github.com/Moshiii/Alpha-Arena-Lite/portfolio"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the simulation loop from a config file",
	Long: `Run the trading simulation loop using settings from a configuration file.

Each tick fetches candles for the configured symbols, marks open positions
to market, asks the decision provider for proposals, executes them through
the engine, journals the outcomes, and saves the portfolio snapshot.

Example:
  arena run -f arena.yaml`,
	RunE: runRun,
}

var runConfigPath string

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "file", "f", "", "path to config file (YAML or JSON) (required)")
	runCmd.MarkFlagRequired("file")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(runConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	fmt.Printf("Running simulation with config: %s\n", runConfigPath)
	fmt.Printf("  Account: %s (Initial Cash: $%.2f)\n", cfg.Account.ID, cfg.Account.InitialCash)
	fmt.Printf("  Symbols: %s (%s candles, window %d)\n",
		strings.Join(cfg.Market.Symbols, ", "), cfg.Market.Interval, cfg.Market.CandleCount)
	fmt.Printf("  Provider: %s\n", cfg.Decision.Provider)
	fmt.Println()

	var j journal.Journal
	if cfg.Journal.Type == "csv" {
		j, err = journal.NewCSV(cfg.Journal.DecisionsFile, cfg.Journal.EquityFile)
	} else {
		j, err = journal.NewSQLite(cfg.Journal.DBPath)
	}
	if err != nil {
		return fmt.Errorf("create journal: %w", err)
	}
	defer j.Close()

	pf := portfolio.New(cfg.Account.InitialCash)
	if cfg.Account.SnapshotFile != "" {
		err := pf.LoadFile(cfg.Account.SnapshotFile)
		switch {
		case err == nil:
			fmt.Println("Loaded existing portfolio")
			fmt.Printf("  Initial Cash: $%.2f\n", pf.InitialCash)
			fmt.Printf("  Available Cash: $%.2f\n", pf.AvailableCash)
		case os.IsNotExist(err):
			fmt.Println("Creating new portfolio")
		default:
			return fmt.Errorf("load portfolio: %w", err)
		}
	}

	eng := engine.New(pf)

	provider, err := decision.ByName(cfg.Decision.Provider, decision.Options{
		Seed:    cfg.Decision.Seed,
		Token:   config.APIToken(),
		Model:   cfg.Decision.Model,
		BaseURL: cfg.Decision.BaseURL,
	})
	if err != nil {
		return fmt.Errorf("decision provider: %w", err)
	}

	var client marketdata.Source = marketdata.NewClient()
	if cfg.Market.APIURL != "" {
		client = marketdata.NewClientWithURL(cfg.Market.APIURL)
	}

	interval, err := cfg.Simulation.ParseLoopInterval()
	if err != nil {
		return fmt.Errorf("loop interval: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	for tick := 1; ; tick++ {
		fmt.Printf("\n%s - Tick #%d - Fetching market data...\n", time.Now().Format("15:04:05"), tick)

		contexts := fetchContexts(ctx, client, cfg)
		for symbol, sc := range contexts {
			pf.UpdatePrice(symbol, sc.CurrentPrice)
			fmt.Printf("  %s: $%.2f\n", symbol, sc.CurrentPrice)
		}

		displayPortfolio(pf)

		proposals, err := provider.Decide(ctx, contexts, pf.ReportAll())
		if err != nil {
			log.Printf("decide: %v", err)
		}

		for _, p := range proposals {
			executeProposal(eng, j, provider.Name(), contexts, p)
		}

		if err := j.RecordEquity(journal.EquitySnapshot{
			Time:          time.Now().UTC(),
			TotalAsset:    pf.TotalAsset,
			AvailableCash: pf.AvailableCash,
			TotalPnL:      pf.TotalPnL(),
			OpenPositions: len(pf.Positions()),
		}); err != nil {
			log.Printf("journal equity: %v", err)
		}

		if cfg.Account.SnapshotFile != "" {
			if err := pf.SaveFile(cfg.Account.SnapshotFile); err != nil {
				log.Printf("save portfolio: %v", err)
			}
		}

		fmt.Printf("\nPortfolio Metrics:\n")
		fmt.Printf("  Available Cash: $%.2f\n", pf.AvailableCash)
		fmt.Printf("  Total Asset Value: $%.2f\n", pf.TotalAsset)
		fmt.Printf("  Total Unrealized PnL: $%.2f\n", pf.TotalPnL())

		if cfg.Simulation.MaxTicks > 0 && tick >= cfg.Simulation.MaxTicks {
			fmt.Printf("\nReached max ticks (%d), stopping.\n", cfg.Simulation.MaxTicks)
			return nil
		}

		select {
		case <-ctx.Done():
			fmt.Println("\nInterrupted, shutting down.")
			return nil
		case <-time.After(interval):
		}
	}
}

// fetchContexts pulls the indicator context for every configured
// symbol. A symbol that fails this tick is skipped, not fatal.
func fetchContexts(ctx context.Context, client marketdata.Source, cfg *config.Config) map[string]marketdata.SymbolContext {
	contexts := make(map[string]marketdata.SymbolContext, len(cfg.Market.Symbols))
	for _, symbol := range cfg.Market.Symbols {
		sc, err := client.Context(ctx, symbol, cfg.Market.Interval, cfg.Market.CandleCount)
		if err != nil {
			log.Printf("skipping %s: %v", symbol, err)
			continue
		}
		contexts[symbol] = sc
	}
	return contexts
}

// executeProposal runs one proposal through the engine and journals
// the outcome.
func executeProposal(eng *engine.Engine, j journal.Journal, providerName string, contexts map[string]marketdata.SymbolContext, p decision.Proposal) {
	sig, err := engine.ParseSignal(p.Signal)
	if err != nil {
		log.Printf("%s: %v", p.Coin, err)
		return
	}

	price := p.EntryPrice
	if price <= 0 {
		price = contexts[p.Coin].CurrentPrice
	}

	outcome := eng.Execute(p.Order(sig, price))

	mark := "✗"
	if outcome.Admitted {
		mark = "✓"
	}
	fmt.Printf("  %s %s %s: %s", mark, p.Coin, p.Signal, outcome.Reason)
	if outcome.Detail != "" {
		fmt.Printf(" (%s)", outcome.Detail)
	}
	fmt.Println()

	if err := j.RecordDecision(journal.DecisionRecord{
		ID:         id.New(),
		Time:       time.Now().UTC(),
		Provider:   providerName,
		Symbol:     p.Coin,
		Signal:     p.Signal,
		Quantity:   p.Quantity,
		Price:      price,
		Leverage:   p.Leverage,
		Confidence: p.Confidence,
		Admitted:   outcome.Admitted,
		Reason:     string(outcome.Reason),
		Detail:     outcome.Detail,
	}); err != nil {
		log.Printf("journal decision: %v", err)
	}
}

// displayPortfolio prints the open positions table.
func displayPortfolio(pf *portfolio.Portfolio) {
	report := pf.ReportAll()
	if len(report.Positions) == 0 {
		fmt.Println("\n(No open positions)")
		return
	}

	fmt.Printf("\n%-8s %12s %12s %12s %12s %8s\n",
		"Symbol", "Qty", "Entry", "Current", "PnL", "Lev")
	for _, pos := range report.Positions {
		fmt.Printf("%-8s %12.4f %12.2f %12.2f %12.2f %7gx\n",
			pos.Symbol, pos.Quantity, pos.EntryPrice, pos.CurrentPrice,
			pos.UnrealizedPnL, pos.Leverage)
	}
}
