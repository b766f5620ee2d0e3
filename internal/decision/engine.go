// Package decision turns a setup definition and a score snapshot into a
// position size. It is a pure computation over in-memory inputs: no I/O, no
// retained state, safe to fan out across setups without coordination.
package decision

import (
	"fmt"
	"math"

	"github.com/tradedeck/backend/internal/contracts"
	"github.com/tradedeck/backend/internal/curve"
)

// DecisionError reports a malformed setup or an unresolvable score input. It
// is a configuration error: retrying with the same input would fail
// identically.
type DecisionError struct {
	Message string
}

func (e DecisionError) Error() string {
	return e.Message
}

func decisionErrorf(format string, args ...interface{}) DecisionError {
	return DecisionError{Message: fmt.Sprintf(format, args...)}
}

// DecideAmount computes the investment amount for a setup given the current
// score snapshot.
//
// Fixed mode returns the rounded base amount unconditionally. Custom mode
// evaluates the setup's decision curve at the score named by the curve's
// input key, multiplies the base amount by the result, clamps to a minimum
// of 0 and rounds to 2 decimals. Any other mode is a DecisionError; there is
// no silent fallback that could mis-size a position.
func DecideAmount(setup *contracts.Setup, scores contracts.ScoreSnapshot) (float64, error) {
	amount, _, err := decide(setup, scores)
	return amount, err
}

// decide is DecideAmount plus the applied multiplier, for decision logging.
func decide(setup *contracts.Setup, scores contracts.ScoreSnapshot) (amount, multiplier float64, err error) {
	if setup == nil {
		return 0, 0, decisionErrorf("setup is missing")
	}

	if setup.BaseAmount <= 0 || math.IsNaN(setup.BaseAmount) || math.IsInf(setup.BaseAmount, 0) {
		return 0, 0, decisionErrorf("base_amount must be a positive number, got %v", setup.BaseAmount)
	}

	switch setup.ExecutionMode {
	case contracts.ExecutionModeFixed:
		// Curve and scores are irrelevant in fixed mode
		return round2(setup.BaseAmount), 1.0, nil

	case contracts.ExecutionModeCustom:
		if setup.DecisionCurve == nil {
			return 0, 0, decisionErrorf("custom mode requires a decision_curve")
		}

		inputKey := setup.DecisionCurve.InputKey()
		score, ok := scores[inputKey]
		if !ok {
			return 0, 0, decisionErrorf("score %q required by the decision curve is missing", inputKey)
		}
		if math.IsNaN(score) || math.IsInf(score, 0) {
			return 0, 0, decisionErrorf("score %q is not numeric", inputKey)
		}

		multiplier, err = curve.Evaluate(setup.DecisionCurve, score)
		if err != nil {
			return 0, 0, decisionErrorf("decision curve evaluation failed: %v", err)
		}

		amount = setup.BaseAmount * multiplier
		if amount < 0 {
			amount = 0
		}
		return round2(amount), multiplier, nil

	default:
		return 0, 0, decisionErrorf("unknown execution_mode %q", setup.ExecutionMode)
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
