package contracts

// CurvePoint is a single control point of a piecewise-linear curve.
type CurvePoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Curve is an ordered list of control points defining a piecewise-linear
// function. Input names the score key the curve is evaluated against.
//
// Curves are authored as configuration (stored setup field or static JSON),
// validated once at acceptance time and read-only afterwards.
type Curve struct {
	Input  string       `json:"input,omitempty"`
	Points []CurvePoint `json:"points"`
}

// DefaultCurveInput is the score key used when a decision curve does not
// declare one.
const DefaultCurveInput = "market_score"

// InputKey returns the score key this curve is evaluated against.
func (c *Curve) InputKey() string {
	if c.Input == "" {
		return DefaultCurveInput
	}
	return c.Input
}
