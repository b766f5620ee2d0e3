package contracts

import "time"

// ExecutionMode selects how a setup sizes its positions.
type ExecutionMode string

const (
	// ExecutionModeFixed invests the base amount unconditionally.
	ExecutionModeFixed ExecutionMode = "fixed"

	// ExecutionModeCustom scales the base amount by a decision curve
	// evaluated at the current score.
	ExecutionModeCustom ExecutionMode = "custom"
)

// PauseCondition zeroes out a decided amount when the referenced score
// exceeds GT or falls below LT. Nil bounds are not checked.
type PauseCondition struct {
	GT *float64 `json:"gt,omitempty"`
	LT *float64 `json:"lt,omitempty"`
}

// Setup is a named trading configuration. The decision engine only reads it
// per invocation; ownership lives with the store layer.
type Setup struct {
	ID              int64                     `json:"id,omitempty"`
	Name            string                    `json:"name"`
	ExecutionMode   ExecutionMode             `json:"execution_mode"`
	BaseAmount      float64                   `json:"base_amount"`
	DecisionCurve   *Curve                    `json:"decision_curve,omitempty"`
	PauseConditions map[string]PauseCondition `json:"pause_conditions,omitempty"`
	Active          bool                      `json:"active"`
	CreatedAt       time.Time                 `json:"created_at,omitempty"`
	UpdatedAt       time.Time                 `json:"updated_at,omitempty"`
}
