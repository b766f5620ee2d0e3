package scoringconfig

import (
	"fmt"
	"math"

	"github.com/tradedeck/backend/internal/scoring"
)

// ValidationError reports the first constraint a configuration violates.
// Load-time validation is strict: a scoring config that fails here stops the
// process rather than degrading silently.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks all required constraints.
func Validate(cfg *Config) error {
	if cfg.Meta.Name == "" {
		return ValidationError{"meta.name", "required"}
	}

	if len(cfg.Categories) == 0 {
		return ValidationError{"categories", "at least one category is required"}
	}

	for category, indicators := range cfg.Categories {
		if len(indicators) == 0 {
			return ValidationError{
				Field:   fmt.Sprintf("categories.%s", category),
				Message: "at least one indicator is required",
			}
		}

		for name, conf := range indicators {
			field := fmt.Sprintf("categories.%s.%s", category, name)

			if len(conf.Thresholds) != 3 {
				return ValidationError{
					Field:   field + ".thresholds",
					Message: fmt.Sprintf("exactly 3 values are required, got %d", len(conf.Thresholds)),
				}
			}
			for i, t := range conf.Thresholds {
				if math.IsNaN(t) || math.IsInf(t, 0) {
					return ValidationError{
						Field:   fmt.Sprintf("%s.thresholds[%d]", field, i),
						Message: "must be a finite number",
					}
				}
			}
			if !(conf.Thresholds[0] < conf.Thresholds[1] && conf.Thresholds[1] < conf.Thresholds[2]) {
				return ValidationError{
					Field:   field + ".thresholds",
					Message: "values must be strictly ascending",
				}
			}

			if conf.Weight < 0 || math.IsNaN(conf.Weight) || math.IsInf(conf.Weight, 0) {
				return ValidationError{
					Field:   field + ".weight",
					Message: fmt.Sprintf("must be a non-negative number, got %v", conf.Weight),
				}
			}
		}
	}

	for regime, multipliers := range cfg.RegimeWeights {
		for key, m := range multipliers {
			field := fmt.Sprintf("regime_weights.%s.%s", regime, key)

			if m <= 0 || math.IsNaN(m) || math.IsInf(m, 0) {
				return ValidationError{field, fmt.Sprintf("must be a positive number, got %v", m)}
			}
			if m < scoring.MinRegimeWeight || m > scoring.MaxRegimeWeight {
				return ValidationError{
					Field:   field,
					Message: fmt.Sprintf("must be in [%g, %g], got %v", scoring.MinRegimeWeight, scoring.MaxRegimeWeight, m),
				}
			}
		}
	}

	return nil
}
