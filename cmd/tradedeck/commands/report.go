package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tradedeck/backend/internal/ai"
	"github.com/tradedeck/backend/internal/contracts"
	"github.com/tradedeck/backend/internal/store"
)

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report [kind]",
	Short: "Generate an AI narrative report",
	Long: `Generates a narrative report of the given kind (daily, weekly,
monthly, quarterly, setup, strategy) from the stored scores, market
data and decision log, and persists it.

Setup reports need --setup.

Example:
  go run ./cmd/tradedeck report daily
  go run ./cmd/tradedeck report setup --setup contrarian`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

var reportSetupName string

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVar(&reportSetupName, "setup", "", "setup name for setup-kind reports")
}

func runReport(cmd *cobra.Command, args []string) error {
	kind := contracts.ReportKind(args[0])
	if !contracts.ValidReportKind(kind) {
		return fmt.Errorf("unknown report kind %q", args[0])
	}

	deps, err := initDeps()
	if err != nil {
		return err
	}
	defer deps.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	var input ai.ReportInput

	if kind == contracts.ReportSetup {
		if reportSetupName == "" {
			return fmt.Errorf("setup reports require --setup")
		}
		setup, err := deps.setups.GetByName(ctx, reportSetupName)
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("setup %q not found", reportSetupName)
		}
		if err != nil {
			return fmt.Errorf("load setup: %w", err)
		}
		input.Setup = setup
	}

	if latest, err := deps.scores.Latest(ctx); err == nil {
		input.Scores = latest
	}
	if market, err := deps.market.LatestValues(ctx); err == nil {
		input.Market = market
	}
	if decisions, err := deps.decisions.List(ctx, 0, 20); err == nil {
		input.Decisions = decisions
	}

	report, err := deps.generator.Generate(ctx, kind, input)
	if err != nil {
		return fmt.Errorf("generate report: %w", err)
	}

	fmt.Printf("=== %s report, %s (%s) ===\n\n", report.Kind, report.Period, report.Model)
	fmt.Println(report.Content)

	return nil
}
