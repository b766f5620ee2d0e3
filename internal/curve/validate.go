package curve

import (
	"encoding/json"
	"math"

	"github.com/tradedeck/backend/internal/contracts"
)

// ValidateDecisionCurve checks a decoded decision curve against the rules a
// curve must satisfy before it is persisted on a setup:
//
//   - at least 2 points
//   - every x and y finite
//   - x within [0, 100]
//   - y within [MinMultiplier, MaxMultiplier]
//   - x strictly increasing in the supplied order (no sorting is performed;
//     a well-formed but unsorted curve is rejected as non-monotonic)
//   - first point at x=0 and last point at x=100 (full score coverage)
//
// This is a gate at configuration-save time, not a runtime guarantee: the
// decision path does not re-validate at evaluation time.
func ValidateDecisionCurve(c *contracts.Curve) error {
	if c == nil {
		return curveErrorf("decision curve must be an object")
	}
	if c.Points == nil {
		return curveErrorf("decision curve requires a 'points' list")
	}
	if len(c.Points) < 2 {
		return curveErrorf("decision curve requires at least 2 points")
	}

	havePrev := false
	var prevX float64

	for _, p := range c.Points {
		if math.IsNaN(p.X) || math.IsInf(p.X, 0) {
			return curveErrorf("curve point x must be numeric")
		}
		if math.IsNaN(p.Y) || math.IsInf(p.Y, 0) {
			return curveErrorf("curve point y must be numeric")
		}

		if p.X < 0 || p.X > 100 {
			return curveErrorf("curve point x must be between 0 and 100")
		}
		if p.Y < MinMultiplier || p.Y > MaxMultiplier {
			return curveErrorf("curve point y must be between %g and %g", MinMultiplier, MaxMultiplier)
		}

		if havePrev && p.X <= prevX {
			return curveErrorf("curve x values must be strictly increasing")
		}

		prevX = p.X
		havePrev = true
	}

	if c.Points[0].X != 0 {
		return curveErrorf("decision curve must start at x=0")
	}
	if c.Points[len(c.Points)-1].X != 100 {
		return curveErrorf("decision curve must end at x=100")
	}

	return nil
}

// ParseDecisionCurve decodes raw JSON into a Curve, enforcing the structural
// rules that a typed decode would otherwise paper over (points must be a
// list, every point an object carrying numeric x and y), then applies
// ValidateDecisionCurve. This is the single place untyped input becomes a
// trusted Curve.
func ParseDecisionCurve(data []byte) (*contracts.Curve, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, curveErrorf("decision curve must be an object")
	}

	pointsRaw, hasPoints := fields["points"]
	if !hasPoints {
		return nil, curveErrorf("decision curve requires a 'points' list")
	}

	var rawPoints []json.RawMessage
	if err := json.Unmarshal(pointsRaw, &rawPoints); err != nil {
		return nil, curveErrorf("decision curve requires a 'points' list")
	}
	if len(rawPoints) < 2 {
		return nil, curveErrorf("decision curve requires at least 2 points")
	}

	var input string
	if inputRaw, ok := fields["input"]; ok {
		if err := json.Unmarshal(inputRaw, &input); err != nil {
			return nil, curveErrorf("decision curve 'input' must be a string")
		}
	}

	c := &contracts.Curve{
		Input:  input,
		Points: make([]contracts.CurvePoint, 0, len(rawPoints)),
	}

	for _, rawPoint := range rawPoints {
		var pointFields map[string]json.RawMessage
		if err := json.Unmarshal(rawPoint, &pointFields); err != nil {
			return nil, curveErrorf("curve point must be an object")
		}

		xRaw, hasX := pointFields["x"]
		yRaw, hasY := pointFields["y"]
		if !hasX || !hasY {
			return nil, curveErrorf("each curve point requires x and y")
		}

		var point contracts.CurvePoint
		if err := json.Unmarshal(xRaw, &point.X); err != nil {
			return nil, curveErrorf("curve point x must be numeric")
		}
		if err := json.Unmarshal(yRaw, &point.Y); err != nil {
			return nil, curveErrorf("curve point y must be numeric")
		}

		c.Points = append(c.Points, point)
	}

	if err := ValidateDecisionCurve(c); err != nil {
		return nil, err
	}

	return c, nil
}
