package commands

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"
)

// scoreCmd represents the score command
var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Compute a score snapshot from the latest market data",
	Long: `Computes category scores from the most recent stored market data
and prints them. With --save the snapshot is persisted and cached,
exactly as the hourly score job does.

Example:
  go run ./cmd/tradedeck score
  go run ./cmd/tradedeck score --save`,
	RunE: runScore,
}

var scoreSave bool

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().BoolVar(&scoreSave, "save", false, "persist the snapshot")
}

func runScore(cmd *cobra.Command, args []string) error {
	deps, err := initDeps()
	if err != nil {
		return err
	}
	defer deps.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	job := deps.newScoreJob(nil)

	if scoreSave {
		if err := job.Run(ctx); err != nil {
			return fmt.Errorf("score job: %w", err)
		}
		fmt.Println("Snapshot saved")
		return nil
	}

	record, err := job.Compute(ctx)
	if err != nil {
		return fmt.Errorf("compute scores: %w", err)
	}

	fmt.Printf("Regime: %s\n", record.Regime)
	fmt.Printf("Taken at: %s\n\n", record.TakenAt.Format(time.RFC3339))

	keys := make([]string, 0, len(record.Scores))
	for key := range record.Scores {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		fmt.Printf("  %-20s %.2f\n", key, record.Scores[key])
	}

	return nil
}
