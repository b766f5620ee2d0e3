package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tradedeck/backend/internal/contracts"
	"github.com/tradedeck/backend/internal/store"
)

// decideCmd represents the decide command
var decideCmd = &cobra.Command{
	Use:   "decide [setup_name]",
	Short: "Run a sizing decision for one setup",
	Long: `Sizes a position for a setup using the latest stored score
snapshot, or explicit scores passed with --score.

Example:
  go run ./cmd/tradedeck decide contrarian
  go run ./cmd/tradedeck decide contrarian --score market_score=42.5`,
	Args: cobra.ExactArgs(1),
	RunE: runDecide,
}

var decideScores []string

func init() {
	rootCmd.AddCommand(decideCmd)

	decideCmd.Flags().StringArrayVar(&decideScores, "score", nil, "score override as key=value (repeatable)")
}

func runDecide(cmd *cobra.Command, args []string) error {
	deps, err := initDeps()
	if err != nil {
		return err
	}
	defer deps.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	setup, err := deps.setups.GetByName(ctx, args[0])
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("setup %q not found", args[0])
	}
	if err != nil {
		return fmt.Errorf("load setup: %w", err)
	}

	scores, err := parseScoreFlags(decideScores)
	if err != nil {
		return err
	}
	if len(scores) == 0 {
		latest, err := deps.scores.Latest(ctx)
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("no scores available; pass --score or run the score job first")
		}
		if err != nil {
			return fmt.Errorf("load latest scores: %w", err)
		}
		scores = latest.Scores
	}

	record, err := deps.decider.Decide(ctx, setup, scores)
	if err != nil {
		return err
	}

	fmt.Printf("Setup:      %s (%s)\n", record.SetupName, setup.ExecutionMode)
	fmt.Printf("Multiplier: %.4f\n", record.Multiplier)
	fmt.Printf("Amount:     %.2f\n", record.Amount)
	if record.Paused {
		fmt.Printf("PAUSED by %s\n", record.PausedBy)
	}

	return nil
}

func parseScoreFlags(flags []string) (contracts.ScoreSnapshot, error) {
	if len(flags) == 0 {
		return nil, nil
	}

	scores := make(contracts.ScoreSnapshot, len(flags))
	for _, flag := range flags {
		key, raw, ok := strings.Cut(flag, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --score %q, expected key=value", flag)
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid --score %q: %w", flag, err)
		}
		scores[key] = value
	}
	return scores, nil
}
