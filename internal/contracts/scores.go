package contracts

import "time"

// ScoreSnapshot maps a score key (e.g. "market_score", "macro_score") to its
// current value. Freshly computed per decision call; never retained by the
// engine.
type ScoreSnapshot map[string]float64

// IndicatorConfig drives the threshold scorer for one indicator: exactly 3
// ascending boundary values and a direction flag (Positive means higher raw
// values score better). Weight scales the indicator's contribution to the
// category average; zero means the default weight of 1.
type IndicatorConfig struct {
	Thresholds []float64 `json:"thresholds" yaml:"thresholds"`
	Positive   bool      `json:"positive" yaml:"positive"`
	Weight     float64   `json:"weight,omitempty" yaml:"weight,omitempty"`
}

// IndicatorSet maps indicator names to their scoring configuration.
type IndicatorSet map[string]IndicatorConfig

// IndicatorScore is the scored result for a single indicator.
// A nil Score means the raw value was missing or unusable; downstream
// aggregation excludes it from the average instead of treating it as zero.
type IndicatorScore struct {
	Value      *float64  `json:"value"`
	Score      *float64  `json:"score"`
	Thresholds []float64 `json:"thresholds"`
	Positive   bool      `json:"positive"`
}

// ScoreSet is the result of scoring one indicator category.
// TotalScore is the mean of all non-nil indicator scores, rounded to two
// decimals, or nil when none were computable.
type ScoreSet struct {
	Scores     map[string]IndicatorScore `json:"scores"`
	TotalScore *float64                  `json:"total_score"`
}

// ScoreRecord is a persisted category-score snapshot.
type ScoreRecord struct {
	ID      int64         `json:"id,omitempty"`
	TakenAt time.Time     `json:"taken_at"`
	Regime  string        `json:"regime,omitempty"`
	Scores  ScoreSnapshot `json:"scores"`
}
