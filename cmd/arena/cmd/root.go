package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "arena",
	Short: "A leveraged paper-trading arena for pluggable decision providers",
	Long: `Arena is a paper-trading simulator for perpetual-style leveraged positions.

It provides tools for:
  - Running a live simulation loop against Hyperliquid market data
  - Letting a random or LLM-backed provider propose trades each tick
  - Margin-correct accounting with per-symbol positions and leverage
  - Journaling every decision and equity snapshot to CSV or SQLite
  - Persisting the portfolio between runs via JSON snapshots`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
