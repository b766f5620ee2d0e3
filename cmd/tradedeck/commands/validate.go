package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tradedeck/backend/internal/curve"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate [curve.json]",
	Short: "Validate a decision curve file",
	Long: `Runs the structural validation rules against a decision curve JSON
file and, when valid, prints the multiplier at a few sample scores.

Example:
  go run ./cmd/tradedeck validate curve.json`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read curve file: %w", err)
	}

	parsed, err := curve.ParseDecisionCurve(data)
	if err != nil {
		return fmt.Errorf("invalid decision curve: %w", err)
	}

	fmt.Printf("Curve is valid: %d points, input %q\n\n", len(parsed.Points), parsed.InputKey())

	for _, x := range []float64{0, 25, 50, 75, 100} {
		y, err := curve.Evaluate(parsed, x)
		if err != nil {
			return err
		}
		fmt.Printf("  score %6.1f -> multiplier %.4f\n", x, y)
	}

	return nil
}
