// Package curve implements piecewise-linear curve evaluation and the
// validation gate for decision curves (score -> position-size multiplier).
package curve

import (
	"fmt"
	"math"
	"sort"

	"github.com/tradedeck/backend/internal/contracts"
)

// Multiplier bounds for decision curves. A decision curve maps a 0-100 score
// to a position-size multiplier; anything outside these bounds is rejected at
// validation time.
const (
	MinMultiplier = 0.05
	MaxMultiplier = 3.0
)

// CurveError reports a malformed or out-of-bounds curve. It is a
// configuration error: the input itself is defective, so callers must not
// retry.
type CurveError struct {
	Message string
}

func (e CurveError) Error() string {
	return e.Message
}

func curveErrorf(format string, args ...interface{}) CurveError {
	return CurveError{Message: fmt.Sprintf(format, args...)}
}

// Evaluate returns the curve's value at x.
//
// Queries at or below the first point clamp to its y; at or beyond the last
// point they clamp to its y. In between, the bracketing segment is found by
// an ascending scan (the first matching segment wins when points share an x)
// and y is linearly interpolated, rounded to 4 decimal places.
//
// Pure function: no side effects, identical inputs yield identical outputs.
func Evaluate(c *contracts.Curve, x float64) (float64, error) {
	if c == nil || c.Points == nil {
		return 0, curveErrorf("curve is missing or invalid")
	}
	if len(c.Points) == 0 {
		return 0, curveErrorf("curve has no points")
	}

	points := sortedPoints(c.Points)

	// Below minimum: flat clamp
	if x <= points[0].X {
		return points[0].Y, nil
	}

	// Above maximum: flat clamp
	if x >= points[len(points)-1].X {
		return points[len(points)-1].Y, nil
	}

	// Interpolate on the first bracketing segment in ascending order
	for i := 0; i < len(points)-1; i++ {
		left, right := points[i], points[i+1]

		if left.X <= x && x <= right.X {
			if right.X == left.X {
				// Degenerate segment, avoid divide-by-zero
				return left.Y, nil
			}

			ratio := (x - left.X) / (right.X - left.X)
			interpolated := left.Y + ratio*(right.Y-left.Y)

			return round(interpolated, 4), nil
		}
	}

	return points[len(points)-1].Y, nil
}

// sortedPoints returns a copy of points sorted ascending by x. The sort is
// stable so points sharing an x keep their authored order.
func sortedPoints(points []contracts.CurvePoint) []contracts.CurvePoint {
	sorted := make([]contracts.CurvePoint, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].X < sorted[j].X
	})
	return sorted
}

func round(v float64, decimals int) float64 {
	factor := math.Pow(10, float64(decimals))
	return math.Round(v*factor) / factor
}
