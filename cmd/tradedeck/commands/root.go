package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tradedeck",
	Short: "TradeDeck - market scoring and position sizing backend",
	Long: `TradeDeck Unified CLI

Market data collection, category scoring, decision-curve position sizing
and AI narrative reports behind one binary.

Usage:
  go run ./cmd/tradedeck [command]

Examples:
  go run ./cmd/tradedeck api
  go run ./cmd/tradedeck scheduler start
  go run ./cmd/tradedeck score
  go run ./cmd/tradedeck decide contrarian
  go run ./cmd/tradedeck validate curve.json`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "scoring config file (default from SCORING_CONFIG_PATH)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
