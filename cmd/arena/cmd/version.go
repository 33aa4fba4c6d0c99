package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Display the current version of the arena CLI.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("arena version %s\n", version)
		fmt.Println("A leveraged paper-trading arena for pluggable decision providers")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
